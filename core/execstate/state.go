// Package execstate defines the per-transaction Execution State: the read-write cache, gas meter, network account store, active
// variant strategy, blockchain data, and the transaction itself. It is
// kept separate from core/execution so that core/commands (which needs
// *State) and core/execution (which orchestrates commands.Dispatch) do not
// form an import cycle.
package execstate

import (
	"github.com/ironledger/statecore/core/gas"
	"github.com/ironledger/statecore/core/nas"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/types"
	"github.com/ironledger/statecore/core/variant"
)

// State is the per-transaction context: {WS view via RWS, GM, NAS,
// variant strategy, BD, TX, deferred-command queue}. It lives exactly
// one transaction; every command executor and the
// contract runtime's host imports take a *State.
type State struct {
	RWS   *rws.ReadWriteSet
	Gas   *gas.Meter
	NAS   *nas.Store
	Strat variant.Strategy

	BD *types.BlockchainData
	TX *types.Transaction

	// Deferred is the FIFO queue a running contract appends to during a
	// Call; drained to exhaustion or first failure immediately after the
	// Call returns.
	Deferred []types.DeferredCommand

	// commandIndex is the zero-based index of the command currently
	// executing, needed by V5's contract-address derivation.
	commandIndex int
}

// New builds a fresh Execution State over the given cache, gas budget,
// and pool-stake cap.
func New(ws rws.WorldStateView, gasLimit uint64, delegatedStakeCap int, strat variant.Strategy, bd *types.BlockchainData, tx *types.Transaction) *State {
	rw := rws.New(ws)
	m := gas.NewMeter(rw, gasLimit)
	return &State{
		RWS:   rw,
		Gas:   m,
		NAS:   nas.New(m, delegatedStakeCap),
		Strat: strat,
		BD:    bd,
		TX:    tx,
	}
}

// CommandIndex returns the index of the command currently executing.
func (s *State) CommandIndex() int { return s.commandIndex }

// SetCommandIndex is called by the Transition Driver before dispatching
// each top-level command.
func (s *State) SetCommandIndex(i int) { s.commandIndex = i }

// EnqueueDeferred appends a contract-submitted deferred command to the
// FIFO queue.
func (s *State) EnqueueDeferred(d types.DeferredCommand) {
	s.Deferred = append(s.Deferred, d)
}

// DrainDeferred removes and returns all queued deferred commands in FIFO
// order, emptying the queue.
func (s *State) DrainDeferred() []types.DeferredCommand {
	out := s.Deferred
	s.Deferred = nil
	return out
}
