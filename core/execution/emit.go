package execution

import (
	"github.com/ironledger/statecore/core/events"
	"github.com/ironledger/statecore/core/types"
)

// emitCommandEvent renders one executed command's outcome into the event
// it corresponds to and hands it to emitter, based only on the command's
// static fields and its output — the executors themselves stay free of any
// event-emission concern.
func emitCommandEvent(emitter events.Emitter, signer types.Address, cmd types.Command, out *types.CommandOutput, err error) {
	if emitter == nil {
		return
	}
	switch cmd.Kind {
	case types.CommandTransfer:
		if err == nil {
			emitter.Emit(events.Transfer{From: signer, To: cmd.Recipient, Amount: cmd.Amount})
		}
	case types.CommandDeploy:
		if err == nil && out != nil {
			emitter.Emit(events.Deployed{Address: types.BytesToAddress(out.ReturnValue), CBIVersion: cmd.CBIVersion})
		}
	case types.CommandCall:
		emitter.Emit(events.Called{Address: cmd.ContractAddress, Method: cmd.Method, Failed: err != nil})
	case types.CommandCreatePool:
		if err == nil {
			emitter.Emit(events.PoolCreated{Operator: signer, CommissionRate: cmd.CommissionRate})
		}
	case types.CommandSetPoolSettings:
		if err == nil {
			emitter.Emit(events.PoolSettingsChanged{Operator: signer, CommissionRate: cmd.CommissionRate})
		}
	case types.CommandDeletePool:
		if err == nil {
			emitter.Emit(events.PoolDeleted{Operator: signer})
		}
	case types.CommandCreateDeposit:
		if err == nil {
			emitter.Emit(events.DepositCreated{Operator: cmd.Operator, Owner: signer, Balance: cmd.Amount})
		}
	case types.CommandWithdrawDeposit:
		if err == nil {
			emitter.Emit(events.DepositWithdrawn{Operator: cmd.Operator, Owner: signer, Amount: cmd.Amount})
		}
	case types.CommandStakeDeposit:
		if err == nil {
			emitter.Emit(events.Staked{Operator: cmd.Operator, Owner: signer, Amount: cmd.Amount})
		}
	case types.CommandUnstakeDeposit:
		if err == nil {
			emitter.Emit(events.Unstaked{Operator: cmd.Operator, Owner: signer, Amount: cmd.Amount})
		}
	}
}

// emitEpochEvents renders NextEpoch's outcome: the advanced epoch number
// and the newly selected next_validator_set.
func emitEpochEvents(emitter events.Emitter, epoch uint64, out *types.CommandOutput) {
	if emitter == nil || out == nil {
		return
	}
	emitter.Emit(events.EpochAdvanced{Epoch: epoch})
	validators := make([]types.Address, 0, len(out.ReturnValue)/32)
	for i := 0; i+32 <= len(out.ReturnValue); i += 32 {
		validators = append(validators, types.BytesToAddress(out.ReturnValue[i:i+32]))
	}
	emitter.Emit(events.ValidatorsRotated{Epoch: epoch, Validators: validators})
}
