package types

// Deposit is a per-(operator, owner) balance lock-up backing staking power.
type Deposit struct {
	Operator         Address
	Owner            Address
	Balance          uint64
	AutoStakeRewards bool
}

func (d *Deposit) Clone() *Deposit {
	if d == nil {
		return nil
	}
	out := *d
	return &out
}
