package commands

import (
	"context"

	"github.com/ironledger/statecore/config"
	"github.com/ironledger/statecore/core/contract"
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/rewards"
	"github.com/ironledger/statecore/core/types"
)

// Call instantiates the target contract through the Contract Runtime and
// invokes method. Deferred commands the contract enqueued are drained FIFO
// and executed immediately after, under the same gas budget; if any
// deferred command fails, the Call's overall exit status becomes failed
// but gas already spent is retained.
func Call(ctx context.Context, rt *contract.Runtime, s *execstate.State, proto config.Protocol, curve rewards.Curve, cmd types.Command) (*types.CommandOutput, error) {
	result, err := rt.Call(ctx, s, cmd.ContractAddress, cmd.Method, cmd.Args)
	if err != nil {
		return nil, err
	}

	out := &types.CommandOutput{ReturnValue: result.ReturnValue, Logs: result.Logs, GasUsedInWasm: result.GasUsedInWasm}

	for _, d := range result.Deferred {
		s.EnqueueDeferred(d)
	}

	var deferredErr error
	for _, d := range s.DrainDeferred() {
		if deferredErr != nil {
			break
		}
		if _, err := Dispatch(ctx, rt, s, proto, curve, d.Command); err != nil {
			deferredErr = err
		}
	}
	if deferredErr != nil {
		return out, deferredErr
	}
	return out, nil
}
