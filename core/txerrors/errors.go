// Package txerrors defines the sentinel error taxonomy of the transition
// core: PreChargeError (no receipt produced), CommandError (receipt
// produced), and NextEpochError (zero-gas receipt produced).
package txerrors

import stderrors "errors"

// PreCharge errors abort the transition before Work; RWS is discarded and
// no receipt is produced.
var (
	ErrInvalidNonce            = stderrors.New("precharge: nonce does not match signer account nonce")
	ErrInsufficientBalanceForGas = stderrors.New("precharge: signer balance insufficient for gas_limit * (base_fee + priority_fee)")
	ErrBaseCostTooHigh         = stderrors.New("precharge: base cost exceeds gas_limit")
	ErrDisallowedCommandMix    = stderrors.New("precharge: commands violate the NextEpoch exclusivity rule")
	ErrMalformed               = stderrors.New("precharge: transaction is malformed")
)

// Command errors stop further command execution, enter Charge, and still
// commit balance/nonce effects plus whatever partial writes preceded the
// failure.
var (
	ErrInsufficientBalance         = stderrors.New("command: insufficient balance")
	ErrPoolAlreadyExists           = stderrors.New("command: pool already exists")
	ErrPoolNotFound                = stderrors.New("command: pool not found")
	ErrDepositAlreadyExists        = stderrors.New("command: deposit already exists")
	ErrDepositNotFound             = stderrors.New("command: deposit not found")
	ErrInvalidCommissionRate       = stderrors.New("command: invalid commission rate")
	ErrNothingToWithdraw           = stderrors.New("command: nothing to withdraw")
	ErrNothingToStake              = stderrors.New("command: nothing to stake")
	ErrNothingToUnstake            = stderrors.New("command: nothing to unstake")
	ErrContractInstantiationFailed = stderrors.New("command: contract instantiation failed")
	ErrContractCallFailed          = stderrors.New("command: contract call failed")
	ErrOutOfGas                    = stderrors.New("command: out of gas")
	ErrBalanceOverflow             = stderrors.New("command: balance addition would overflow")
)

// NextEpoch errors always carry a zero-gas receipt.
var (
	ErrUnauthorized         = stderrors.New("next_epoch: signer is not authorized")
	ErrInvariantViolation   = stderrors.New("next_epoch: invariant violation")
)
