package events

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/ironledger/statecore/core/types"
)

const (
	TypeEpochAdvanced     = "epoch.advanced"
	TypeValidatorsRotated = "validators.rotated"
)

// EpochAdvanced signals that NextEpoch incremented the epoch counter.
type EpochAdvanced struct {
	Epoch uint64
}

func (EpochAdvanced) EventType() string { return TypeEpochAdvanced }
func (e EpochAdvanced) Event() *Payload {
	return &Payload{Type: TypeEpochAdvanced, Attributes: map[string]string{
		"epoch": strconv.FormatUint(e.Epoch, 10),
	}}
}

// ValidatorsRotated captures the new next_validator_set selected by
// select_top_k.
type ValidatorsRotated struct {
	Epoch      uint64
	Validators []types.Address
}

func (ValidatorsRotated) EventType() string { return TypeValidatorsRotated }
func (e ValidatorsRotated) Event() *Payload {
	encoded := make([]string, len(e.Validators))
	for i, a := range e.Validators {
		encoded[i] = "0x" + hex.EncodeToString(a[:])
	}
	return &Payload{Type: TypeValidatorsRotated, Attributes: map[string]string{
		"epoch":      strconv.FormatUint(e.Epoch, 10),
		"validators": strings.Join(encoded, ","),
	}}
}
