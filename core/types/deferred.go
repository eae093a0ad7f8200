package types

// DeferredCommand is a command enqueued by a running contract, executed in
// submission order immediately after its parent Call returns.
type DeferredCommand struct {
	ContractAddress Address
	Command         Command
}
