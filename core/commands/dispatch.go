package commands

import (
	"context"
	"fmt"

	"github.com/ironledger/statecore/config"
	"github.com/ironledger/statecore/core/contract"
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/rewards"
	"github.com/ironledger/statecore/core/types"
)

// Dispatch routes a single command to its executor. It is the sole entry
// point both the top-level Work loop and Call's deferred-command drain use.
func Dispatch(ctx context.Context, rt *contract.Runtime, s *execstate.State, proto config.Protocol, curve rewards.Curve, cmd types.Command) (*types.CommandOutput, error) {
	switch cmd.Kind {
	case types.CommandTransfer:
		return Transfer(s, cmd)
	case types.CommandDeploy:
		return Deploy(ctx, rt, s, proto, cmd)
	case types.CommandCall:
		return Call(ctx, rt, s, proto, curve, cmd)
	case types.CommandCreatePool:
		return CreatePool(s, cmd)
	case types.CommandSetPoolSettings:
		return SetPoolSettings(s, cmd)
	case types.CommandDeletePool:
		return DeletePool(s, cmd)
	case types.CommandCreateDeposit:
		return CreateDeposit(s, cmd)
	case types.CommandSetDepositSettings:
		return SetDepositSettings(s, cmd)
	case types.CommandTopUpDeposit:
		return TopUpDeposit(s, cmd)
	case types.CommandWithdrawDeposit:
		return WithdrawDeposit(s, cmd)
	case types.CommandStakeDeposit:
		return StakeDeposit(s, cmd)
	case types.CommandUnstakeDeposit:
		return UnstakeDeposit(s, cmd)
	case types.CommandNextEpoch:
		return NextEpoch(s, curve, proto)
	default:
		return nil, fmt.Errorf("commands: unrecognized command kind %d", cmd.Kind)
	}
}
