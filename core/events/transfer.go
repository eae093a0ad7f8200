package events

import (
	"encoding/hex"
	"strconv"

	"github.com/ironledger/statecore/core/types"
)

const TypeTransfer = "transfer"

// Transfer is emitted for a native balance movement.
type Transfer struct {
	From   types.Address
	To     types.Address
	Amount uint64
}

func (Transfer) EventType() string { return TypeTransfer }

func (e Transfer) Event() *Payload {
	return &Payload{
		Type: TypeTransfer,
		Attributes: map[string]string{
			"from":   "0x" + hex.EncodeToString(e.From[:]),
			"to":     "0x" + hex.EncodeToString(e.To[:]),
			"amount": strconv.FormatUint(e.Amount, 10),
		},
	}
}
