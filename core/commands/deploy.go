package commands

import (
	"context"

	"github.com/ironledger/statecore/config"
	"github.com/ironledger/statecore/core/accounts"
	"github.com/ironledger/statecore/core/contract"
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
)

// Deploy derives the contract address per the active variant (H(signer‖
// nonce) for V4, H(signer‖nonce‖command_index) for V5), rejects if the
// address already holds a contract, checks CBI-version support, has the
// Contract Runtime compile and instantiate the module against the host
// import set, and only then stores the module. A module that fails to
// compile or that requires unsupported host imports aborts here rather
// than at first Call.
func Deploy(ctx context.Context, rt *contract.Runtime, s *execstate.State, proto config.Protocol, cmd types.Command) (*types.CommandOutput, error) {
	addr := s.Strat.ContractAddress(s.TX.Signer, s.TX.Nonce, s.CommandIndex())

	exists, err := accounts.HasContract(s.Gas, addr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, txerrors.ErrContractInstantiationFailed
	}
	if !proto.IsSupportedCBIVersion(cmd.CBIVersion) {
		return nil, txerrors.ErrContractInstantiationFailed
	}
	if err := rt.Validate(ctx, cmd.ContractCode); err != nil {
		return nil, err
	}
	if err := accounts.SetContractCode(s.Gas, addr, cmd.ContractCode); err != nil {
		return nil, err
	}
	if err := accounts.SetCBIVersion(s.Gas, addr, cmd.CBIVersion); err != nil {
		return nil, err
	}
	return &types.CommandOutput{ReturnValue: addr[:]}, nil
}
