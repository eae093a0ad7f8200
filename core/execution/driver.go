// Package execution implements the Transition Driver: the
// PreCharge → Work → Charge → Commit phase machine that is the single
// externally-facing entry point of the transition core.
package execution

import (
	"context"

	"github.com/ironledger/statecore/config"
	"github.com/ironledger/statecore/core/accounts"
	"github.com/ironledger/statecore/core/commands"
	"github.com/ironledger/statecore/core/contract"
	"github.com/ironledger/statecore/core/events"
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/gas"
	"github.com/ironledger/statecore/core/rewards"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
	"github.com/ironledger/statecore/core/variant"
)

// TransitionResult is what Transition reports back to the caller. Receipt is nil iff the transaction was rejected
// in PreCharge; Err carries the PreCharge rejection reason in that case.
type TransitionResult struct {
	NewWriteSet rws.WriteSet
	Receipt     *types.Receipt
	Err         error
}

// Transition runs the full PreCharge → Work → Charge → Commit state
// machine for one transaction against one world-state view. It is
// the sole externally-facing entry point of the transition core; every
// Transition call is independent, deterministic, and single-threaded.
func Transition(ctx context.Context, ws rws.WorldStateView, rt *contract.Runtime, tx *types.Transaction, bd *types.BlockchainData, proto config.Protocol, emitter events.Emitter) TransitionResult {
	strat := variant.For(tx.Variant)
	s := execstate.New(ws, tx.GasLimit, proto.DelegatedStakeCap, strat, bd, tx)
	curve := rewards.Curve{BlockRewardPerPower: proto.BlockRewardPerPower}

	if tx.IsNextEpochForm() {
		return runNextEpoch(s, curve, proto, emitter)
	}

	if err := preCharge(s, strat); err != nil {
		s.RWS.Discard()
		return TransitionResult{Err: err}
	}

	receipt := runWork(ctx, rt, s, proto, curve, emitter)
	charge(s, proto, receipt)

	// The nonce bump is not billed to the transaction's gas budget.
	if err := accounts.SetNonce(gas.NewMeter(s.RWS, 0), tx.Signer, tx.Nonce+1); err != nil {
		return TransitionResult{Err: err}
	}

	return TransitionResult{NewWriteSet: s.RWS.WriteSet(), Receipt: receipt}
}

// preCharge verifies the transaction is well-formed, affordable even for
// its fixed inclusion cost, and nonce/command-mix valid; then deducts
// gas_limit*(base_fee+priority_fee) and charges inclusion. Its own nonce
// and balance accesses go through an unmetered meter, so they are not
// billed to the first command. A non-nil error means Reject: RWS is
// discarded and no receipt is produced.
func preCharge(s *execstate.State, strat variant.Strategy) error {
	tx := s.TX
	free := gas.NewMeter(s.RWS, 0)

	if tx.Variant != types.VariantV4 && tx.Variant != types.VariantV5 {
		return txerrors.ErrMalformed
	}

	inclusionCost := strat.InclusionCost(len(tx.Commands))
	requiredCost := inclusionCost.Total(int(tx.SizeBytes), len(tx.Commands))
	if requiredCost > tx.GasLimit {
		return txerrors.ErrBaseCostTooHigh
	}

	signerNonce, err := accounts.Nonce(free, tx.Signer)
	if err != nil {
		return err
	}
	if signerNonce != tx.Nonce {
		return txerrors.ErrInvalidNonce
	}
	if !tx.RespectsCommandMix() {
		return txerrors.ErrDisallowedCommandMix
	}

	gasCost := tx.GasLimit * (tx.BaseFeePerGas + tx.PriorityFeePerGas)
	balance, err := accounts.Balance(free, tx.Signer)
	if err != nil {
		return err
	}
	if balance < gasCost {
		return txerrors.ErrInsufficientBalanceForGas
	}
	if err := accounts.SetBalance(free, tx.Signer, balance-gasCost); err != nil {
		return err
	}

	s.Gas.ChargeInclusion(int(tx.SizeBytes), len(tx.Commands), inclusionCost)
	return nil
}

// runWork executes every command in order, finalizing gas after each, and
// stops at the first command failure (including OutOfGas) to build a
// partial receipt.
func runWork(ctx context.Context, rt *contract.Runtime, s *execstate.State, proto config.Protocol, curve rewards.Curve, emitter events.Emitter) *types.Receipt {
	rb := &receiptBuilder{overall: types.ExitSuccess, extended: s.Strat.ReceiptShape().ExtendedFields}

	for i, cmd := range s.TX.Commands {
		s.SetCommandIndex(i)
		out, err := commands.Dispatch(ctx, rt, s, proto, curve, cmd)
		emitCommandEvent(emitter, s.TX.Signer, cmd, out, err)
		rb.append(out, err, s.Gas.FinalizeCommand())
		if err != nil {
			break
		}
	}

	gasUsed := minU64(s.Gas.TotalCommandGasUsed()+s.Gas.TxnInclusionGas(), s.TX.GasLimit)
	return rb.build(gasUsed, s.Gas.TxnInclusionGas())
}

// charge applies the Charge phase's refund/proposer/treasury settlement.
// The credits go through an unmetered meter: gas_used is already fixed in
// the receipt, and an exhausted budget does not skip them.
func charge(s *execstate.State, proto config.Protocol, receipt *types.Receipt) {
	tx := s.TX
	gasUsed := receipt.GasUsed
	feePerGas := tx.BaseFeePerGas + tx.PriorityFeePerGas
	free := gas.NewMeter(s.RWS, 0)

	refund := (tx.GasLimit - gasUsed) * feePerGas
	if refund > 0 {
		_ = accounts.CreditBalance(free, tx.Signer, refund)
	}

	proposerCredit := gasUsed * tx.PriorityFeePerGas
	if proposerCredit > 0 {
		_ = accounts.CreditBalance(free, s.BD.Proposer, proposerCredit)
	}

	treasuryCredit := proto.TreasuryCredit(gasUsed, tx.BaseFeePerGas)
	if treasuryCredit > 0 {
		_ = accounts.CreditBalance(free, s.BD.Treasury, treasuryCredit)
	}
}

// runNextEpoch bypasses PreCharge/Charge entirely: it invokes the
// NextEpoch executor directly, still increments the signer's nonce, and
// always carries a zero-gas receipt.
func runNextEpoch(s *execstate.State, curve rewards.Curve, proto config.Protocol, emitter events.Emitter) TransitionResult {
	out, err := commands.NextEpoch(s, curve, proto)

	nonce, nerr := accounts.Nonce(s.Gas, s.TX.Signer)
	if nerr == nil {
		_ = accounts.SetNonce(s.Gas, s.TX.Signer, nonce+1)
	}

	if err == nil {
		if epoch, eerr := s.NAS.Epoch(); eerr == nil {
			emitEpochEvents(emitter, epoch, out)
		}
	}

	rb := &receiptBuilder{overall: types.ExitSuccess, extended: s.Strat.ReceiptShape().ExtendedFields}
	rb.append(out, err, 0)

	return TransitionResult{NewWriteSet: s.RWS.WriteSet(), Receipt: rb.build(0, 0)}
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
