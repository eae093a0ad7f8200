package types

import "bytes"

// Stake is one delegator's entry in a Pool's delegated_stakes set.
type Stake struct {
	Owner Address
	Power uint64
}

// StakeLess orders stakes by power ascending, tie-broken by owner address
// lexicographic order.
func StakeLess(a, b Stake) bool {
	if a.Power != b.Power {
		return a.Power < b.Power
	}
	return bytes.Compare(a.Owner[:], b.Owner[:]) < 0
}
