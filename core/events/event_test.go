package events_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironledger/statecore/core/events"
	"github.com/ironledger/statecore/core/types"
)

func testAddress(b byte) types.Address {
	var a types.Address
	a[31] = b
	return a
}

type recordingEmitter struct {
	received []events.Event
}

func (r *recordingEmitter) Emit(e events.Event) {
	r.received = append(r.received, e)
}

func TestNoopEmitterDiscards(t *testing.T) {
	events.NoopEmitter{}.Emit(events.Transfer{From: testAddress(1), To: testAddress(2), Amount: 10})
}

func TestTransferPayloadRendersAddressesAndAmount(t *testing.T) {
	e := events.Transfer{From: testAddress(0x01), To: testAddress(0x02), Amount: 500}
	require.Equal(t, events.TypeTransfer, e.EventType())

	p := e.Event()
	require.Equal(t, events.TypeTransfer, p.Type)
	require.Equal(t, "0x"+testAddress(0x01).String(), p.Attributes["from"])
	require.Equal(t, "0x"+testAddress(0x02).String(), p.Attributes["to"])
	require.Equal(t, "500", p.Attributes["amount"])
}

func TestCalledPayloadReflectsFailure(t *testing.T) {
	ok := events.Called{Address: testAddress(0x03), Method: "run", Failed: false}
	require.Equal(t, "ok", ok.Event().Attributes["status"])

	failed := events.Called{Address: testAddress(0x03), Method: "run", Failed: true}
	require.Equal(t, "failed", failed.Event().Attributes["status"])
}

func TestValidatorsRotatedJoinsAddressList(t *testing.T) {
	e := events.ValidatorsRotated{Epoch: 7, Validators: []types.Address{testAddress(0x01), testAddress(0x02)}}
	p := e.Event()
	require.Equal(t, "7", p.Attributes["epoch"])
	require.Contains(t, p.Attributes["validators"], ",")
}

func TestRecordingEmitterCollectsEvents(t *testing.T) {
	r := &recordingEmitter{}
	r.Emit(events.PoolCreated{Operator: testAddress(0x01), CommissionRate: 5})
	r.Emit(events.EpochAdvanced{Epoch: 1})
	require.Len(t, r.received, 2)
	require.Equal(t, events.TypePoolCreated, r.received[0].EventType())
	require.Equal(t, events.TypeEpochAdvanced, r.received[1].EventType())
}
