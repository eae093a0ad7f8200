// Package rewards implements the protocol reward curve NextEpoch draws on.
// The call shape — a per-pool reward split by commission rate, then
// distributed to stakers proportional to power — is grounded on the
// reference runtime's next_epoch driver
// (original_source/src/commands/protocol.rs); the curve's own formula and
// the treasury share are protocol-defined constants supplied via
// config.Protocol (see DESIGN.md's Open Question resolution).
package rewards

// Curve computes per-pool and per-staker rewards using only integer
// arithmetic with floor rounding.
type Curve struct {
	// BlockRewardPerPower is the base reward unit each unit of pool power
	// earns per block proposed, before the performance-count weighting.
	BlockRewardPerPower uint64
}

// PoolReward computes R_op, the block reward earned by a pool with the
// given power over a share of the epoch determined by how many of its
// allotted blocks it actually proposed. blocksPerPool is
// blocks_per_epoch / pool_count from the epoch's block-proposal stats.
func (c Curve) PoolReward(epoch uint64, power uint64, proposedBlocks uint64, blocksPerPool uint64) uint64 {
	if blocksPerPool == 0 {
		return 0
	}
	capped := proposedBlocks
	if capped > blocksPerPool {
		capped = blocksPerPool
	}
	// floor(power * blockRewardPerPower * proposedBlocks / blocksPerPool)
	return power * c.BlockRewardPerPower * capped / blocksPerPool
}

// StakeReward splits a pool's reward between one staker and the
// operator's commission, proportional to the staker's share of
// totalStakes. commissionRate is in [0,100]; the commission fee is the
// floor of poolReward*commissionRate/100 applied to this staker's
// proportional share, matching the reference runtime's per-stake split
// (protocol.rs's loop over vp_stakes).
func (c Curve) StakeReward(poolReward uint64, commissionRate uint8, stakePower, totalStakes uint64) (stakerReward, commissionFee uint64) {
	if totalStakes == 0 {
		return 0, 0
	}
	grossShare := poolReward * stakePower / totalStakes
	commissionFee = grossShare * uint64(commissionRate) / 100
	stakerReward = grossShare - commissionFee
	return stakerReward, commissionFee
}
