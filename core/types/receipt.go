package types

// ExitStatus is the outcome of one command or one transaction overall.
type ExitStatus byte

const (
	ExitSuccess ExitStatus = 0
	ExitFailed  ExitStatus = 1
)

// Log is one event emitted during command execution.
type Log struct {
	Topics [][]byte
	Data   []byte
}

// CommandReceipt records the outcome of a single executed command.
type CommandReceipt struct {
	ExitStatus  ExitStatus
	GasUsed     uint64
	ReturnValue []byte
	Logs        []Log

	// GasUsedInWasm is the portion of GasUsed billed for guest-metered WASM
	// execution, as opposed to host-side storage/crypto charges. Populated
	// for Call commands only on variants whose ReceiptShape has
	// ExtendedFields set; zero otherwise.
	GasUsedInWasm uint64
}

// Receipt is the per-transaction record of outcomes, gas, return values,
// and logs. len(CommandReceipts) <= len(tx.Commands);
// omissions occur after the first command failure.
type Receipt struct {
	ExitStatusOverall ExitStatus
	GasUsed           uint64
	CommandReceipts   []CommandReceipt

	// TxnInclusionGas is the fixed, pre-execution inclusion cost charged by
	// PreCharge, broken out separately from GasUsed. Populated only on
	// variants whose ReceiptShape has ExtendedFields set.
	TxnInclusionGas uint64
}

// CommandOutput accumulates the logs and return value a command (or a
// deferred command, or a contract call) produces while executing, before
// being folded into a CommandReceipt at finalize_command.
type CommandOutput struct {
	ReturnValue []byte
	Logs        []Log

	// GasUsedInWasm is set by Call to the guest-metered WASM execution
	// cost, for folding into the extended CommandReceipt on variants that
	// carry it.
	GasUsedInWasm uint64
}

func (o *CommandOutput) AppendLog(l Log) {
	o.Logs = append(o.Logs, l)
}
