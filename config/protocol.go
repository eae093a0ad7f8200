package config

import "fmt"

// Protocol holds the protocol-defined constants the Transition Driver and
// its command executors treat as fixed parameters rather than derived
// values: gas pricing splits, staking bounds, and the CBI versions this
// runtime accepts.
type Protocol struct {
	// TreasuryShareNumerator / TreasuryShareDenominator express
	// treasury_share as a fraction in [0,1] using integer arithmetic
	// (Charge phase step 3: floor(treasury_share * gas_used * base_fee)).
	TreasuryShareNumerator   uint64 `toml:"TreasuryShareNumerator"`
	TreasuryShareDenominator uint64 `toml:"TreasuryShareDenominator"`

	// DelegatedStakeCap bounds how many delegators a single pool retains.
	// Zero means uncapped.
	DelegatedStakeCap int `toml:"DelegatedStakeCap"`

	// MaxValidatorSetSize bounds select_top_k's output. Zero means uncapped.
	MaxValidatorSetSize int `toml:"MaxValidatorSetSize"`

	// BlockRewardPerPower feeds core/rewards.Curve.
	BlockRewardPerPower uint64 `toml:"BlockRewardPerPower"`

	// SupportedCBIVersions lists the CBI versions Deploy will accept.
	SupportedCBIVersions []uint32 `toml:"SupportedCBIVersions"`
}

// DefaultProtocol returns the constants this runtime ships with absent an
// operator-supplied config file.
func DefaultProtocol() Protocol {
	return Protocol{
		TreasuryShareNumerator:   10,
		TreasuryShareDenominator: 100,
		DelegatedStakeCap:        256,
		MaxValidatorSetSize:      100,
		BlockRewardPerPower:      1,
		SupportedCBIVersions:     []uint32{0},
	}
}

// Validate ensures the configuration is self-consistent.
func (p Protocol) Validate() error {
	if p.TreasuryShareDenominator == 0 {
		return fmt.Errorf("config: TreasuryShareDenominator must be greater than zero")
	}
	if p.TreasuryShareNumerator > p.TreasuryShareDenominator {
		return fmt.Errorf("config: treasury share must be within [0,1]")
	}
	if len(p.SupportedCBIVersions) == 0 {
		return fmt.Errorf("config: at least one supported CBI version is required")
	}
	return nil
}

// TreasuryCredit computes floor(treasury_share * gasUsed * baseFee) using
// only integer arithmetic.
func (p Protocol) TreasuryCredit(gasUsed, baseFeePerGas uint64) uint64 {
	return gasUsed * baseFeePerGas * p.TreasuryShareNumerator / p.TreasuryShareDenominator
}

// IsSupportedCBIVersion reports whether v is one of SupportedCBIVersions.
func (p Protocol) IsSupportedCBIVersion(v uint32) bool {
	for _, sv := range p.SupportedCBIVersions {
		if sv == v {
			return true
		}
	}
	return false
}
