package events

import (
	"encoding/hex"
	"strconv"

	"github.com/ironledger/statecore/core/types"
)

const (
	TypePoolCreated        = "pool.created"
	TypePoolSettingsChanged = "pool.settings_changed"
	TypePoolDeleted        = "pool.deleted"

	TypeDepositCreated = "deposit.created"
	TypeDepositToppedUp = "deposit.topped_up"
	TypeDepositWithdrawn = "deposit.withdrawn"
	TypeStaked           = "deposit.staked"
	TypeUnstaked         = "deposit.unstaked"
)

type PoolCreated struct {
	Operator       types.Address
	CommissionRate uint8
}

func (PoolCreated) EventType() string { return TypePoolCreated }
func (e PoolCreated) Event() *Payload {
	return &Payload{Type: TypePoolCreated, Attributes: map[string]string{
		"operator":        "0x" + hex.EncodeToString(e.Operator[:]),
		"commission_rate": strconv.FormatUint(uint64(e.CommissionRate), 10),
	}}
}

type PoolSettingsChanged struct {
	Operator       types.Address
	CommissionRate uint8
}

func (PoolSettingsChanged) EventType() string { return TypePoolSettingsChanged }
func (e PoolSettingsChanged) Event() *Payload {
	return &Payload{Type: TypePoolSettingsChanged, Attributes: map[string]string{
		"operator":        "0x" + hex.EncodeToString(e.Operator[:]),
		"commission_rate": strconv.FormatUint(uint64(e.CommissionRate), 10),
	}}
}

type PoolDeleted struct {
	Operator types.Address
}

func (PoolDeleted) EventType() string { return TypePoolDeleted }
func (e PoolDeleted) Event() *Payload {
	return &Payload{Type: TypePoolDeleted, Attributes: map[string]string{
		"operator": "0x" + hex.EncodeToString(e.Operator[:]),
	}}
}

type DepositCreated struct {
	Operator, Owner types.Address
	Balance         uint64
}

func (DepositCreated) EventType() string { return TypeDepositCreated }
func (e DepositCreated) Event() *Payload {
	return &Payload{Type: TypeDepositCreated, Attributes: map[string]string{
		"operator": "0x" + hex.EncodeToString(e.Operator[:]),
		"owner":    "0x" + hex.EncodeToString(e.Owner[:]),
		"balance":  strconv.FormatUint(e.Balance, 10),
	}}
}

type DepositWithdrawn struct {
	Operator, Owner types.Address
	Amount          uint64
}

func (DepositWithdrawn) EventType() string { return TypeDepositWithdrawn }
func (e DepositWithdrawn) Event() *Payload {
	return &Payload{Type: TypeDepositWithdrawn, Attributes: map[string]string{
		"operator": "0x" + hex.EncodeToString(e.Operator[:]),
		"owner":    "0x" + hex.EncodeToString(e.Owner[:]),
		"amount":   strconv.FormatUint(e.Amount, 10),
	}}
}

type Staked struct {
	Operator, Owner types.Address
	Amount          uint64
}

func (Staked) EventType() string { return TypeStaked }
func (e Staked) Event() *Payload {
	return &Payload{Type: TypeStaked, Attributes: map[string]string{
		"operator": "0x" + hex.EncodeToString(e.Operator[:]),
		"owner":    "0x" + hex.EncodeToString(e.Owner[:]),
		"amount":   strconv.FormatUint(e.Amount, 10),
	}}
}

type Unstaked struct {
	Operator, Owner types.Address
	Amount          uint64
}

func (Unstaked) EventType() string { return TypeUnstaked }
func (e Unstaked) Event() *Payload {
	return &Payload{Type: TypeUnstaked, Attributes: map[string]string{
		"operator": "0x" + hex.EncodeToString(e.Operator[:]),
		"owner":    "0x" + hex.EncodeToString(e.Owner[:]),
		"amount":   strconv.FormatUint(e.Amount, 10),
	}}
}
