package gas

import (
	"fmt"

	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/txerrors"
)

// Meter is the running gas accounting façade in front of the read-write
// cache. All storage, host-crypto, and WASM charges flow through
// it; RWS itself never charges gas.
type Meter struct {
	rws      *rws.ReadWriteSet
	gasLimit uint64

	txnInclusionGas     uint64
	commandGasUsed      uint64
	totalCommandGasUsed uint64

	// wasmRemainingPoints is not set or read anywhere; the contract
	// runtime bills WASM gas through ChargeWasm instead.
	wasmRemainingPoints uint64

	outOfGas bool
}

// NewMeter returns a Meter billing against the given cache, bounded by
// gasLimit. A gasLimit of 0 makes the meter unmetered: charges are still
// accumulated but never report ErrOutOfGas.
func NewMeter(rw *rws.ReadWriteSet, gasLimit uint64) *Meter {
	return &Meter{rws: rw, gasLimit: gasLimit}
}

// OutOfGas reports whether any charge so far has exceeded the budget.
func (m *Meter) OutOfGas() bool { return m.outOfGas }

// TotalCommandGasUsed returns gas folded in by prior FinalizeCommand calls.
func (m *Meter) TotalCommandGasUsed() uint64 { return m.totalCommandGasUsed }

// TxnInclusionGas returns the gas charged via ChargeInclusion.
func (m *Meter) TxnInclusionGas() uint64 { return m.txnInclusionGas }

// remaining is the budget left after inclusion and folded command gas,
// not counting the command currently in flight.
func (m *Meter) remaining() uint64 {
	spent := m.txnInclusionGas + m.totalCommandGasUsed
	if spent >= m.gasLimit {
		return 0
	}
	return m.gasLimit - spent
}

// charge adds amount to the current command's gas and flags OutOfGas if
// the cumulative spend would exceed gasLimit. The charge is always
// applied in full even when it pushes over the limit. A zero gasLimit is
// unmetered and never flags OutOfGas.
func (m *Meter) charge(amount uint64) error {
	m.commandGasUsed += amount
	if m.gasLimit == 0 {
		return nil
	}
	if m.commandGasUsed > m.remaining() {
		m.outOfGas = true
		return txerrors.ErrOutOfGas
	}
	return nil
}

// ChargeInclusion charges the fixed, pre-execution inclusion cost. It adds
// directly to txnInclusionGas rather than commandGasUsed, since it is
// billed before any command runs, prior to the per-command budget check.
func (m *Meter) ChargeInclusion(txSizeBytes int, nCommands int, cost InclusionCost) {
	m.txnInclusionGas += cost.Total(txSizeBytes, nCommands)
}

// InclusionCost is the variant-dependent fixed formula for ChargeInclusion
// (V4/V5 differ here; see core/variant).
type InclusionCost struct {
	BaseTxCost     uint64
	PerCommandCost uint64
	PerByteCost    uint64
}

// Total evaluates the fixed inclusion-cost formula for a transaction of
// txSizeBytes carrying nCommands commands. PreCharge calls this up front
// to decide affordability before ChargeInclusion ever deducts it.
func (c InclusionCost) Total(txSizeBytes int, nCommands int) uint64 {
	return c.BaseTxCost + c.PerCommandCost*uint64(nCommands) + c.PerByteCost*uint64(txSizeBytes)
}

// ChargeLog charges the post-execution, variable cost of emitting one log
// into the current command's receipt.
func (m *Meter) ChargeLog(topicLen, valLen int) error {
	return m.charge(BlockchainLogCost(topicLen, valLen))
}

// ChargeReturnValue charges the post-execution, variable cost of writing
// the return value bytes into the current command's receipt.
func (m *Meter) ChargeReturnValue(value []byte) error {
	return m.charge(BlockchainStorageCost(len(value)))
}

// WSContains charges the traversal cost for a presence check of keyLen,
// then delegates to RWS.
func (m *Meter) WSContains(key []byte) (bool, error) {
	return m.wsContains(key, len(key))
}

// WSContainsKeyed is WSContains but bills traversal cost against
// billedKeyLen instead of len(key); used for App keys, whose gas-billed
// length is a variant-dependent formula distinct from the real key's byte
// length (see core/variant's AppKeyLength).
func (m *Meter) WSContainsKeyed(key []byte, billedKeyLen int) (bool, error) {
	return m.wsContains(key, billedKeyLen)
}

func (m *Meter) wsContains(key []byte, billedKeyLen int) (bool, error) {
	if err := m.charge(GetCostTraverse(billedKeyLen)); err != nil {
		return m.rws.Contains(key), err
	}
	return m.rws.Contains(key), nil
}

// WSGet charges traversal + read cost (discounted when isCode is set, per
// the contract-code read discount), then delegates to RWS.
func (m *Meter) WSGet(key []byte, isCode bool) ([]byte, bool, error) {
	return m.wsGet(key, len(key), isCode)
}

// WSGetKeyed is WSGet but bills traversal cost against billedKeyLen
// instead of len(key); used for App keys.
func (m *Meter) WSGetKeyed(key []byte, billedKeyLen int, isCode bool) ([]byte, bool, error) {
	return m.wsGet(key, billedKeyLen, isCode)
}

func (m *Meter) wsGet(key []byte, billedKeyLen int, isCode bool) ([]byte, bool, error) {
	readCost := GetCostTraverse(billedKeyLen)
	value, present := m.rws.Get(key)
	valCost := GetCostRead(len(value))
	if isCode {
		valCost = DiscountCodeRead(valCost)
	}
	if err := m.charge(readCost + valCost); err != nil {
		return value, present, err
	}
	return value, present, nil
}

// WSSet charges traversal + read (of the prior value, for the delta) +
// delete-old-value + write-new-value + rehash costs, then delegates to
// RWS.
func (m *Meter) WSSet(key []byte, value []byte) error {
	return m.wsSet(key, len(key), value)
}

// WSSetKeyed is WSSet but bills traversal/rehash cost against billedKeyLen
// instead of len(key); used for App keys.
func (m *Meter) WSSetKeyed(key []byte, billedKeyLen int, value []byte) error {
	return m.wsSet(key, billedKeyLen, value)
}

func (m *Meter) wsSet(key []byte, billedKeyLen int, value []byte) error {
	prior, _ := m.rws.Get(key)
	cost := GetCostTraverse(billedKeyLen) +
		GetCostRead(len(prior)) +
		SetCostDeleteOldValue(billedKeyLen, len(prior), len(value)) +
		SetCostWriteNewValue(len(value)) +
		SetCostRehash(billedKeyLen)
	err := m.charge(cost)
	m.rws.Set(key, value)
	return err
}

// WSDelete charges traversal + read of the prior value + delete-old-value
// + rehash costs, then delegates to RWS.
func (m *Meter) WSDelete(key []byte) error {
	return m.wsDelete(key, len(key))
}

// WSDeleteKeyed is WSDelete but bills traversal/rehash cost against
// billedKeyLen instead of len(key); used for App keys.
func (m *Meter) WSDeleteKeyed(key []byte, billedKeyLen int) error {
	return m.wsDelete(key, billedKeyLen)
}

func (m *Meter) wsDelete(key []byte, billedKeyLen int) error {
	prior, _ := m.rws.Get(key)
	cost := GetCostTraverse(billedKeyLen) +
		GetCostRead(len(prior)) +
		SetCostDeleteOldValue(billedKeyLen, len(prior), 0) +
		SetCostRehash(billedKeyLen)
	err := m.charge(cost)
	m.rws.Delete(key)
	return err
}

// ChargeWasm charges points reported by the contract runtime against the
// current command's budget. The runtime reports a fixed cost per Call and
// per-size guest-memory charges; WASM instructions are not counted.
func (m *Meter) ChargeWasm(points uint64) error {
	return m.charge(points)
}

// HostSHA256 charges the per-input-byte cost of a sha256 host call; there
// is no fixed base charge.
func (m *Meter) HostSHA256(input []byte) error {
	return m.charge(uint64(len(input)) * CryptoSHA256PerByte)
}

// HostKeccak256 charges the per-input-byte cost of a keccak256 host call;
// there is no fixed base charge.
func (m *Meter) HostKeccak256(input []byte) error {
	return m.charge(uint64(len(input)) * CryptoKeccak256PerByte)
}

// HostRipemd160 charges the per-input-byte cost of a ripemd160 host call;
// there is no fixed base charge.
func (m *Meter) HostRipemd160(input []byte) error {
	return m.charge(uint64(len(input)) * CryptoRipemd160PerByte)
}

// HostBlake2b charges the per-input-byte cost of a blake2b host call;
// there is no fixed base charge.
func (m *Meter) HostBlake2b(input []byte) error {
	return m.charge(uint64(len(input)) * CryptoBlake2bPerByte)
}

// HostVerifyEd25519 charges the per-message-byte cost of an ed25519
// signature verification host call; there is no fixed base charge.
func (m *Meter) HostVerifyEd25519(message []byte) error {
	return m.charge(uint64(len(message)) * CryptoEd25519PerByte)
}

// FinalizeCommand sets the just-finished command's receipt-gas to
// min(command_gas_used, gas_limit - total_command_gas_used), folds it
// into total_command_gas_used, and resets command_gas_used for the next
// command.
func (m *Meter) FinalizeCommand() uint64 {
	budgetCap := uint64(0)
	if m.gasLimit > m.totalCommandGasUsed {
		budgetCap = m.gasLimit - m.totalCommandGasUsed
	}
	receiptGas := m.commandGasUsed
	if receiptGas > budgetCap {
		receiptGas = budgetCap
	}
	m.totalCommandGasUsed += receiptGas
	m.commandGasUsed = 0
	m.outOfGas = false
	return receiptGas
}

// String is a debugging aid, not used by consensus-critical code.
func (m *Meter) String() string {
	return fmt.Sprintf("gas(limit=%d inclusion=%d command=%d total=%d outOfGas=%v)",
		m.gasLimit, m.txnInclusionGas, m.commandGasUsed, m.totalCommandGasUsed, m.outOfGas)
}
