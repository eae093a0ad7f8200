// Package commands implements the per-command-kind executors:
// pre-checks that can abort with a receipt, state mutation through
// RWS/NAS, and emission of return values and logs.
package commands

import (
	"github.com/ironledger/statecore/core/accounts"
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/types"
)

// Transfer performs a checked subtraction on the signer and a checked
// addition on the recipient. A transfer to oneself is permitted: it is a
// balance no-op but still charges gas.
func Transfer(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	if err := accounts.DebitBalance(s.Gas, s.TX.Signer, cmd.Amount); err != nil {
		return nil, err
	}
	if err := accounts.CreditBalance(s.Gas, cmd.Recipient, cmd.Amount); err != nil {
		return nil, err
	}
	return &types.CommandOutput{}, nil
}
