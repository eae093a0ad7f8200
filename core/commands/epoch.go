package commands

import (
	"sort"

	"github.com/ironledger/statecore/config"
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/rewards"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
)

// NextEpoch distributes rewards over the current validator set, rotates
// prev/current/next validator-set snapshots, selects the new next set by
// pool power, and advances the epoch counter.
func NextEpoch(s *execstate.State, curve rewards.Curve, proto config.Protocol) (*types.CommandOutput, error) {
	if s.BD.Proposer != s.TX.Signer {
		return nil, txerrors.ErrUnauthorized
	}

	current, err := s.NAS.ValidatorSet(rws.SlotCurrentValidatorSet)
	if err != nil {
		return nil, err
	}

	blocksPerPool := uint64(0)
	if len(current.Entries) > 0 {
		blocksPerPool = s.BD.BlocksPerEpoch / uint64(len(current.Entries))
	}

	for _, entry := range current.Entries {
		if err := distributeEntryReward(s, curve, entry, blocksPerPool); err != nil {
			return nil, err
		}
	}

	next, err := s.NAS.ValidatorSet(rws.SlotNextValidatorSet)
	if err != nil {
		return nil, err
	}
	if err := s.NAS.PutValidatorSet(rws.SlotPrevValidatorSet, current); err != nil {
		return nil, err
	}
	if err := s.NAS.PutValidatorSet(rws.SlotCurrentValidatorSet, next); err != nil {
		return nil, err
	}

	pools, err := s.NAS.AllPools()
	if err != nil {
		return nil, err
	}
	selected := selectTopK(pools, proto.MaxValidatorSetSize)
	if err := s.NAS.PutValidatorSet(rws.SlotNextValidatorSet, selected); err != nil {
		return nil, err
	}

	epoch, err := s.NAS.Epoch()
	if err != nil {
		return nil, err
	}
	if err := s.NAS.SetEpoch(epoch + 1); err != nil {
		return nil, err
	}

	return &types.CommandOutput{ReturnValue: encodeValidatorSetReturn(selected)}, nil
}

// distributeEntryReward pays one pool's block reward to its operator and
// delegators, proportional to stake power, applying auto_stake_rewards
// where enabled.
func distributeEntryReward(s *execstate.State, curve rewards.Curve, entry types.ValidatorEntry, blocksPerPool uint64) error {
	pool, exists, err := s.NAS.Pool(entry.Operator)
	if !exists || err != nil {
		return err
	}

	proposed := s.BD.ProposedBlocksOf(entry.Operator)
	poolReward := curve.PoolReward(0, pool.SumPower(), proposed, blocksPerPool)
	if poolReward == 0 {
		return nil
	}

	totalStakes := pool.SumPower()
	if totalStakes == 0 {
		return nil
	}

	for _, stake := range entry.Stakes {
		stakerReward, commissionFee := curve.StakeReward(poolReward, pool.CommissionRate, stake.Power, totalStakes)
		if stakerReward > 0 {
			if err := creditDepositReward(s, entry.Operator, stake.Owner, stakerReward); err != nil {
				return err
			}
		}
		if commissionFee > 0 {
			if err := creditDepositReward(s, entry.Operator, entry.Operator, commissionFee); err != nil {
				return err
			}
		}
	}
	return nil
}

// creditDepositReward raises a deposit's balance by amount and, when the
// deposit has auto_stake_rewards enabled, raises its stake power to match
// (capped by the new balance), updating pool power accordingly.
func creditDepositReward(s *execstate.State, operator, owner types.Address, amount uint64) error {
	deposit, exists, err := s.NAS.Deposit(operator, owner)
	if err != nil {
		return err
	}
	if !exists {
		deposit = &types.Deposit{Operator: operator, Owner: owner}
	}
	deposit.Balance += amount
	if err := s.NAS.PutDeposit(deposit); err != nil {
		return err
	}
	if !deposit.AutoStakeRewards {
		return nil
	}

	pool, poolExists, err := s.NAS.Pool(operator)
	if err != nil || !poolExists {
		return err
	}
	currentPower := uint64(0)
	if stake, ok := pool.StakeOf(owner); ok {
		currentPower = stake.Power
	}
	if deposit.Balance <= currentPower {
		return nil
	}
	return s.NAS.UpsertStake(pool, owner, deposit.Balance)
}

// selectTopK builds the next validator set from the k highest-power pools,
// tie-broken by operator address ascending.
func selectTopK(pools []*types.Pool, k int) *types.ValidatorSet {
	sorted := append([]*types.Pool(nil), pools...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Power != sorted[j].Power {
			return sorted[i].Power > sorted[j].Power
		}
		return addressLessBytes(sorted[i].Operator, sorted[j].Operator)
	})
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	entries := make([]types.ValidatorEntry, 0, len(sorted))
	for _, p := range sorted {
		entries = append(entries, types.ValidatorEntry{
			Operator: p.Operator,
			Stakes:   append([]types.Stake(nil), p.DelegatedStakes...),
		})
	}
	types.SortEntries(entries)
	return &types.ValidatorSet{Entries: entries}
}

func addressLessBytes(a, b types.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// encodeValidatorSetReturn packs the new next_validator_set's operator
// addresses into the receipt return value, one 32-byte address per entry.
func encodeValidatorSetReturn(vs *types.ValidatorSet) []byte {
	buf := make([]byte, 0, len(vs.Entries)*32)
	for _, e := range vs.Entries {
		buf = append(buf, e.Operator[:]...)
	}
	return buf
}
