// Package nas is the typed overlay over the read-write cache exposing
// pools, deposits, validator sets, and the epoch counter.
package nas

import (
	"sort"

	"github.com/ironledger/statecore/core/gas"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/types"
)

// Store is the Network Account Store: typed accessors over a gas.Meter
// that maintain pool ordering and eviction invariants on every mutation.
type Store struct {
	meter             *gas.Meter
	delegatedStakeCap int
}

// New returns a Store billing through m, bounding each pool's
// delegated_stakes to delegatedStakeCap entries.
func New(m *gas.Meter, delegatedStakeCap int) *Store {
	return &Store{meter: m, delegatedStakeCap: delegatedStakeCap}
}

// Pool returns the operator's pool and whether it exists.
func (s *Store) Pool(operator types.Address) (*types.Pool, bool, error) {
	value, present, err := s.meter.WSGet(rws.PoolKey(operator), false)
	if err != nil || !present {
		return nil, present, err
	}
	return decodePool(value), true, nil
}

// PutPool writes the pool, re-sorting delegated_stakes ascending by power
// (address tie-break) and trimming to the cap by evicting the minimum
// stake, keeping Power in sync with the sum of what remains.
func (s *Store) PutPool(p *types.Pool) error {
	sort.Slice(p.DelegatedStakes, func(i, j int) bool {
		return types.StakeLess(p.DelegatedStakes[i], p.DelegatedStakes[j])
	})
	if s.delegatedStakeCap > 0 && len(p.DelegatedStakes) > s.delegatedStakeCap {
		evicted := p.DelegatedStakes[0]
		p.DelegatedStakes = p.DelegatedStakes[1:]
		p.Power -= evicted.Power
	}
	return s.meter.WSSet(rws.PoolKey(p.Operator), encodePool(p))
}

// DeletePool removes the pool entirely and drops it
// from the pool index.
func (s *Store) DeletePool(operator types.Address) error {
	if err := s.removeFromPoolIndex(operator); err != nil {
		return err
	}
	return s.meter.WSDelete(rws.PoolKey(operator))
}

// PoolExists is a gas-billed existence check used by CreatePool's
// abort-if-exists rule.
func (s *Store) PoolExists(operator types.Address) (bool, error) {
	return s.meter.WSContains(rws.PoolKey(operator))
}

// CreatePool writes a brand new pool and registers it in the pool index.
func (s *Store) CreatePool(p *types.Pool) error {
	if err := s.addToPoolIndex(p.Operator); err != nil {
		return err
	}
	return s.PutPool(p)
}

func (s *Store) poolIndex() ([]types.Address, error) {
	value, present, err := s.meter.WSGet(rws.PoolIndexKey(), false)
	if err != nil || !present {
		return nil, err
	}
	return decodePoolIndex(value), nil
}

func (s *Store) addToPoolIndex(operator types.Address) error {
	ops, err := s.poolIndex()
	if err != nil {
		return err
	}
	ops = append(ops, operator)
	sort.Slice(ops, func(i, j int) bool { return addressLess(ops[i], ops[j]) })
	return s.meter.WSSet(rws.PoolIndexKey(), encodePoolIndex(ops))
}

func (s *Store) removeFromPoolIndex(operator types.Address) error {
	ops, err := s.poolIndex()
	if err != nil {
		return err
	}
	for i, a := range ops {
		if a == operator {
			ops = append(ops[:i], ops[i+1:]...)
			break
		}
	}
	return s.meter.WSSet(rws.PoolIndexKey(), encodePoolIndex(ops))
}

// AllPools returns every registered pool, in pool-index (address-ascending)
// order, for use by NextEpoch's select_top_k.
func (s *Store) AllPools() ([]*types.Pool, error) {
	ops, err := s.poolIndex()
	if err != nil {
		return nil, err
	}
	pools := make([]*types.Pool, 0, len(ops))
	for _, op := range ops {
		p, present, err := s.Pool(op)
		if err != nil {
			return nil, err
		}
		if present {
			pools = append(pools, p)
		}
	}
	return pools, nil
}

func addressLess(a, b types.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// UpsertStake inserts or updates one delegator's stake in the pool and
// keeps Power == Σ stake.power, then writes the pool back through PutPool
// so ordering/eviction are applied uniformly.
func (s *Store) UpsertStake(p *types.Pool, owner types.Address, power uint64) error {
	found := false
	for i := range p.DelegatedStakes {
		if p.DelegatedStakes[i].Owner == owner {
			p.Power = p.Power - p.DelegatedStakes[i].Power + power
			p.DelegatedStakes[i].Power = power
			found = true
			break
		}
	}
	if !found {
		p.DelegatedStakes = append(p.DelegatedStakes, types.Stake{Owner: owner, Power: power})
		p.Power += power
	}
	return s.PutPool(p)
}

// RemoveStake deletes a delegator's stake entirely and adjusts Power.
func (s *Store) RemoveStake(p *types.Pool, owner types.Address) error {
	for i := range p.DelegatedStakes {
		if p.DelegatedStakes[i].Owner == owner {
			p.Power -= p.DelegatedStakes[i].Power
			p.DelegatedStakes = append(p.DelegatedStakes[:i], p.DelegatedStakes[i+1:]...)
			break
		}
	}
	return s.PutPool(p)
}

// Deposit returns the (operator, owner) deposit and whether it exists.
func (s *Store) Deposit(operator, owner types.Address) (*types.Deposit, bool, error) {
	value, present, err := s.meter.WSGet(rws.DepositKey(operator, owner), false)
	if err != nil || !present {
		return nil, present, err
	}
	return decodeDeposit(value), true, nil
}

// DepositExists is a gas-billed existence check.
func (s *Store) DepositExists(operator, owner types.Address) (bool, error) {
	return s.meter.WSContains(rws.DepositKey(operator, owner))
}

// PutDeposit writes the deposit record.
func (s *Store) PutDeposit(d *types.Deposit) error {
	return s.meter.WSSet(rws.DepositKey(d.Operator, d.Owner), encodeDeposit(d))
}

// DeleteDeposit removes the deposit entirely.
func (s *Store) DeleteDeposit(operator, owner types.Address) error {
	return s.meter.WSDelete(rws.DepositKey(operator, owner))
}

// ValidatorSet returns one of the three rotating snapshots.
func (s *Store) ValidatorSet(slot rws.ValidatorSetSlot) (*types.ValidatorSet, error) {
	value, present, err := s.meter.WSGet(rws.ValidatorSetKey(slot), false)
	if err != nil {
		return nil, err
	}
	if !present {
		return &types.ValidatorSet{}, nil
	}
	return decodeValidatorSet(value), nil
}

// PutValidatorSet overwrites one of the three snapshots.
func (s *Store) PutValidatorSet(slot rws.ValidatorSetSlot, vs *types.ValidatorSet) error {
	types.SortEntries(vs.Entries)
	return s.meter.WSSet(rws.ValidatorSetKey(slot), encodeValidatorSet(vs))
}

// Epoch returns the current epoch counter, 0 if never written.
func (s *Store) Epoch() (uint64, error) {
	value, _, err := s.meter.WSGet(rws.EpochKey(), false)
	return rws.GetUint64(value), err
}

// SetEpoch overwrites the epoch counter.
func (s *Store) SetEpoch(epoch uint64) error {
	return s.meter.WSSet(rws.EpochKey(), rws.PutUint64(epoch))
}
