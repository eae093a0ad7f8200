package types

// Variant selects the externally-selectable strategy.
// V4 and V5 differ in contract-address derivation, inclusion-cost formula,
// MPT key-length gas formula, and receipt shape; core/variant holds the
// dispatch tables, this is just the tag carried on the transaction.
type Variant byte

const (
	VariantV4 Variant = 4
	VariantV5 Variant = 5
)

// Transaction is a signed sequence of commands executed atomically with
// respect to the world state.
type Transaction struct {
	Variant            Variant
	Signer             Address
	Nonce              uint64
	GasLimit           uint64
	BaseFeePerGas      uint64
	PriorityFeePerGas  uint64
	Commands           []Command
	SizeBytes          uint64
}

// IsNextEpochForm reports whether this transaction is the single-command
// NextEpoch shape permitted by the command-mix rule.
func (tx *Transaction) IsNextEpochForm() bool {
	return len(tx.Commands) == 1 && tx.Commands[0].IsNextEpoch()
}

// RespectsCommandMix enforces the command-mix rule: either exactly one
// NextEpoch command, or any non-empty mixture excluding NextEpoch.
func (tx *Transaction) RespectsCommandMix() bool {
	if len(tx.Commands) == 0 {
		return false
	}
	if tx.IsNextEpochForm() {
		return true
	}
	for _, c := range tx.Commands {
		if c.Kind == CommandNextEpoch {
			return false
		}
	}
	return true
}
