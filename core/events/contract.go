package events

import (
	"encoding/hex"
	"strconv"

	"github.com/ironledger/statecore/core/types"
)

const (
	TypeDeployed = "contract.deployed"
	TypeCalled   = "contract.called"
)

// Deployed is emitted when Deploy installs a new contract.
type Deployed struct {
	Address    types.Address
	CBIVersion uint32
}

func (Deployed) EventType() string { return TypeDeployed }

func (e Deployed) Event() *Payload {
	return &Payload{
		Type: TypeDeployed,
		Attributes: map[string]string{
			"address":     "0x" + hex.EncodeToString(e.Address[:]),
			"cbi_version": strconv.FormatUint(uint64(e.CBIVersion), 10),
		},
	}
}

// Called is emitted when Call completes, successfully or not.
type Called struct {
	Address types.Address
	Method  string
	Failed  bool
}

func (Called) EventType() string { return TypeCalled }

func (e Called) Event() *Payload {
	status := "ok"
	if e.Failed {
		status = "failed"
	}
	return &Payload{
		Type: TypeCalled,
		Attributes: map[string]string{
			"address": "0x" + hex.EncodeToString(e.Address[:]),
			"method":  e.Method,
			"status":  status,
		},
	}
}
