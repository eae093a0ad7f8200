package commands

import (
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
)

// CreatePool registers a new pool for the signer as operator. Aborts if a
// pool already exists for this operator or the commission rate is invalid.
func CreatePool(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	operator := s.TX.Signer
	exists, err := s.NAS.PoolExists(operator)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, txerrors.ErrPoolAlreadyExists
	}
	if cmd.CommissionRate > 100 {
		return nil, txerrors.ErrInvalidCommissionRate
	}
	pool := &types.Pool{Operator: operator, CommissionRate: cmd.CommissionRate}
	if err := s.NAS.CreatePool(pool); err != nil {
		return nil, err
	}
	return &types.CommandOutput{}, nil
}

// SetPoolSettings updates the commission rate of the signer's pool.
// Aborts if the pool does not exist, the new rate is invalid, or the new
// rate equals the current one (a no-op is rejected as an explicit abort,
// matching the reference behavior of refusing redundant settings writes).
func SetPoolSettings(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	operator := s.TX.Signer
	pool, exists, err := s.NAS.Pool(operator)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, txerrors.ErrPoolNotFound
	}
	if cmd.CommissionRate > 100 {
		return nil, txerrors.ErrInvalidCommissionRate
	}
	if cmd.CommissionRate == pool.CommissionRate {
		return nil, txerrors.ErrInvalidCommissionRate
	}
	pool.CommissionRate = cmd.CommissionRate
	if err := s.NAS.PutPool(pool); err != nil {
		return nil, err
	}
	return &types.CommandOutput{}, nil
}

// DeletePool removes the signer's pool entirely.
func DeletePool(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	operator := s.TX.Signer
	exists, err := s.NAS.PoolExists(operator)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, txerrors.ErrPoolNotFound
	}
	if err := s.NAS.DeletePool(operator); err != nil {
		return nil, err
	}
	return &types.CommandOutput{}, nil
}
