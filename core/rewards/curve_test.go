package rewards_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironledger/statecore/core/rewards"
)

func TestPoolRewardScalesWithProposedBlocksAndCapsAtBlocksPerPool(t *testing.T) {
	c := rewards.Curve{BlockRewardPerPower: 10}

	require.Equal(t, uint64(0), c.PoolReward(1, 100, 0, 10))
	require.Equal(t, uint64(500), c.PoolReward(1, 100, 5, 10))
	require.Equal(t, uint64(1000), c.PoolReward(1, 100, 10, 10))
	// proposedBlocks beyond blocksPerPool is capped, not rewarded further.
	require.Equal(t, uint64(1000), c.PoolReward(1, 100, 20, 10))
}

func TestPoolRewardZeroBlocksPerPoolIsZero(t *testing.T) {
	c := rewards.Curve{BlockRewardPerPower: 10}
	require.Equal(t, uint64(0), c.PoolReward(1, 100, 5, 0))
}

func TestStakeRewardSplitsByCommissionAndConservesTotal(t *testing.T) {
	c := rewards.Curve{}
	stakerReward, commissionFee := c.StakeReward(1000, 10, 500, 1000)
	require.Equal(t, uint64(50), commissionFee)
	require.Equal(t, uint64(450), stakerReward)
	require.Equal(t, uint64(500), stakerReward+commissionFee)
}

func TestStakeRewardZeroTotalStakesIsZero(t *testing.T) {
	c := rewards.Curve{}
	stakerReward, commissionFee := c.StakeReward(1000, 10, 0, 0)
	require.Equal(t, uint64(0), stakerReward)
	require.Equal(t, uint64(0), commissionFee)
}

func TestStakeRewardZeroCommissionGivesEntireShareToStaker(t *testing.T) {
	c := rewards.Curve{}
	stakerReward, commissionFee := c.StakeReward(1000, 0, 250, 1000)
	require.Equal(t, uint64(0), commissionFee)
	require.Equal(t, uint64(250), stakerReward)
}
