package commands

import (
	"github.com/ironledger/statecore/core/accounts"
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
)

// CreateDeposit locks owner balance into a new (operator, owner) deposit.
// Requires the pool to already exist and no deposit to exist yet.
func CreateDeposit(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	owner := s.TX.Signer
	operator := cmd.Operator

	poolExists, err := s.NAS.PoolExists(operator)
	if err != nil {
		return nil, err
	}
	if !poolExists {
		return nil, txerrors.ErrPoolNotFound
	}
	depositExists, err := s.NAS.DepositExists(operator, owner)
	if err != nil {
		return nil, err
	}
	if depositExists {
		return nil, txerrors.ErrDepositAlreadyExists
	}
	if err := accounts.DebitBalance(s.Gas, owner, cmd.Amount); err != nil {
		return nil, err
	}
	deposit := &types.Deposit{Operator: operator, Owner: owner, Balance: cmd.Amount, AutoStakeRewards: cmd.AutoStakeRewards}
	if err := s.NAS.PutDeposit(deposit); err != nil {
		return nil, err
	}
	return &types.CommandOutput{}, nil
}

// SetDepositSettings toggles auto_stake_rewards on an existing deposit.
// Aborts if the deposit is absent or the requested value is unchanged.
func SetDepositSettings(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	owner := s.TX.Signer
	deposit, exists, err := s.NAS.Deposit(cmd.Operator, owner)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, txerrors.ErrDepositNotFound
	}
	if deposit.AutoStakeRewards == cmd.AutoStakeRewards {
		return nil, txerrors.ErrInvalidCommissionRate
	}
	deposit.AutoStakeRewards = cmd.AutoStakeRewards
	if err := s.NAS.PutDeposit(deposit); err != nil {
		return nil, err
	}
	return &types.CommandOutput{}, nil
}

// TopUpDeposit increases an existing deposit's balance by cmd.Amount,
// always deducting the full amount from the owner's account balance.
func TopUpDeposit(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	owner := s.TX.Signer
	deposit, exists, err := s.NAS.Deposit(cmd.Operator, owner)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, txerrors.ErrDepositNotFound
	}
	if err := accounts.DebitBalance(s.Gas, owner, cmd.Amount); err != nil {
		return nil, err
	}
	deposit.Balance += cmd.Amount
	if err := s.NAS.PutDeposit(deposit); err != nil {
		return nil, err
	}
	return &types.CommandOutput{}, nil
}

// WithdrawDeposit releases as much of the deposit as is not locked by the
// prev/current validator set snapshots.
func WithdrawDeposit(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	owner := s.TX.Signer
	operator := cmd.Operator

	deposit, exists, err := s.NAS.Deposit(operator, owner)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, txerrors.ErrDepositNotFound
	}

	prevVS, err := s.NAS.ValidatorSet(rws.SlotPrevValidatorSet)
	if err != nil {
		return nil, err
	}
	curVS, err := s.NAS.ValidatorSet(rws.SlotCurrentValidatorSet)
	if err != nil {
		return nil, err
	}
	prevLock := prevVS.LockedPowerOf(operator, owner)
	curLock := curVS.LockedPowerOf(operator, owner)
	floor := prevLock
	if curLock > floor {
		floor = curLock
	}

	maxWithdrawable := uint64(0)
	if deposit.Balance > floor {
		maxWithdrawable = deposit.Balance - floor
	}
	actual := cmd.Amount
	if actual > maxWithdrawable {
		actual = maxWithdrawable
	}
	if actual == 0 {
		return nil, txerrors.ErrNothingToWithdraw
	}

	newBalance := deposit.Balance - actual
	if newBalance == 0 {
		if err := s.NAS.DeleteDeposit(operator, owner); err != nil {
			return nil, err
		}
	} else {
		deposit.Balance = newBalance
		if err := s.NAS.PutDeposit(deposit); err != nil {
			return nil, err
		}
	}
	if err := accounts.CreditBalance(s.Gas, owner, actual); err != nil {
		return nil, err
	}

	pool, poolExists, err := s.NAS.Pool(operator)
	if err != nil {
		return nil, err
	}
	if poolExists {
		if stake, ok := pool.StakeOf(owner); ok && stake.Power > newBalance {
			if err := s.NAS.UpsertStake(pool, owner, newBalance); err != nil {
				return nil, err
			}
		}
	}

	return &types.CommandOutput{ReturnValue: rws.PutUint64(actual)}, nil
}

// StakeDeposit raises owner's stake power in operator's pool up to the
// deposit's balance.
func StakeDeposit(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	owner := s.TX.Signer
	operator := cmd.Operator

	deposit, exists, err := s.NAS.Deposit(operator, owner)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, txerrors.ErrDepositNotFound
	}
	pool, poolExists, err := s.NAS.Pool(operator)
	if err != nil {
		return nil, err
	}
	if !poolExists {
		return nil, txerrors.ErrPoolNotFound
	}

	currentPower := uint64(0)
	if stake, ok := pool.StakeOf(owner); ok {
		currentPower = stake.Power
	}
	capacity := uint64(0)
	if deposit.Balance > currentPower {
		capacity = deposit.Balance - currentPower
	}
	increase := cmd.Amount
	if increase > capacity {
		increase = capacity
	}
	if increase == 0 {
		return nil, txerrors.ErrNothingToStake
	}

	if err := s.NAS.UpsertStake(pool, owner, currentPower+increase); err != nil {
		return nil, err
	}
	return &types.CommandOutput{ReturnValue: rws.PutUint64(increase)}, nil
}

// UnstakeDeposit lowers owner's stake power in operator's pool by up to
// cmd.Amount.
func UnstakeDeposit(s *execstate.State, cmd types.Command) (*types.CommandOutput, error) {
	owner := s.TX.Signer
	operator := cmd.Operator

	pool, poolExists, err := s.NAS.Pool(operator)
	if err != nil {
		return nil, err
	}
	if !poolExists {
		return nil, txerrors.ErrPoolNotFound
	}
	stake, ok := pool.StakeOf(owner)
	if !ok {
		return nil, txerrors.ErrNothingToUnstake
	}

	decrease := cmd.Amount
	if decrease > stake.Power {
		decrease = stake.Power
	}
	newPower := stake.Power - decrease

	if newPower == 0 {
		if err := s.NAS.RemoveStake(pool, owner); err != nil {
			return nil, err
		}
	} else if err := s.NAS.UpsertStake(pool, owner, newPower); err != nil {
		return nil, err
	}
	return &types.CommandOutput{ReturnValue: rws.PutUint64(decrease)}, nil
}
