package nas_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironledger/statecore/core/gas"
	"github.com/ironledger/statecore/core/nas"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/types"
	"github.com/ironledger/statecore/internal/memws"
)

func addr(b byte) types.Address {
	var a types.Address
	a[31] = b
	return a
}

func newStore(cap int) *nas.Store {
	m := gas.NewMeter(rws.New(memws.New()), 0)
	return nas.New(m, cap)
}

func TestUpsertStakeKeepsPoolSumInvariant(t *testing.T) {
	s := newStore(0)
	p := &types.Pool{Operator: addr(1), CommissionRate: 10}
	require.NoError(t, s.CreatePool(p))

	require.NoError(t, s.UpsertStake(p, addr(2), 100))
	require.NoError(t, s.UpsertStake(p, addr(3), 50))
	require.NoError(t, s.UpsertStake(p, addr(2), 200)) // update, not append

	require.Equal(t, p.Power, p.SumPower())
	require.Len(t, p.DelegatedStakes, 2)
}

func TestPutPoolSortsAscendingByPowerThenAddress(t *testing.T) {
	s := newStore(0)
	p := &types.Pool{
		Operator: addr(1),
		DelegatedStakes: []types.Stake{
			{Owner: addr(9), Power: 50},
			{Owner: addr(2), Power: 10},
			{Owner: addr(3), Power: 10},
		},
	}
	require.NoError(t, s.PutPool(p))

	got, present, err := s.Pool(addr(1))
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, addr(2), got.DelegatedStakes[0].Owner)
	require.Equal(t, addr(3), got.DelegatedStakes[1].Owner)
	require.Equal(t, addr(9), got.DelegatedStakes[2].Owner)
}

func TestPutPoolEvictsMinimumStakeWhenOverCap(t *testing.T) {
	s := newStore(2)
	p := &types.Pool{
		Operator: addr(1),
		Power:    60,
		DelegatedStakes: []types.Stake{
			{Owner: addr(1), Power: 10},
			{Owner: addr(2), Power: 20},
			{Owner: addr(3), Power: 30},
		},
	}
	require.NoError(t, s.PutPool(p))

	require.Len(t, p.DelegatedStakes, 2)
	require.Equal(t, uint64(50), p.Power)
	for _, stake := range p.DelegatedStakes {
		require.NotEqual(t, addr(1), stake.Owner)
	}
}

func TestDeletePoolRemovesFromIndex(t *testing.T) {
	s := newStore(0)
	require.NoError(t, s.CreatePool(&types.Pool{Operator: addr(1)}))
	require.NoError(t, s.CreatePool(&types.Pool{Operator: addr(2)}))

	require.NoError(t, s.DeletePool(addr(1)))

	pools, err := s.AllPools()
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Equal(t, addr(2), pools[0].Operator)

	_, present, err := s.Pool(addr(1))
	require.NoError(t, err)
	require.False(t, present)
}

func TestAllPoolsReturnsAddressAscendingOrder(t *testing.T) {
	s := newStore(0)
	require.NoError(t, s.CreatePool(&types.Pool{Operator: addr(5)}))
	require.NoError(t, s.CreatePool(&types.Pool{Operator: addr(1)}))
	require.NoError(t, s.CreatePool(&types.Pool{Operator: addr(3)}))

	pools, err := s.AllPools()
	require.NoError(t, err)
	require.Len(t, pools, 3)
	require.Equal(t, addr(1), pools[0].Operator)
	require.Equal(t, addr(3), pools[1].Operator)
	require.Equal(t, addr(5), pools[2].Operator)
}

func TestEpochRoundTrips(t *testing.T) {
	s := newStore(0)
	epoch, err := s.Epoch()
	require.NoError(t, err)
	require.Equal(t, uint64(0), epoch)

	require.NoError(t, s.SetEpoch(42))
	epoch, err = s.Epoch()
	require.NoError(t, err)
	require.Equal(t, uint64(42), epoch)
}
