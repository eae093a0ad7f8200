package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironledger/statecore/core/accounts"
	"github.com/ironledger/statecore/core/gas"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
	"github.com/ironledger/statecore/core/variant"
	"github.com/ironledger/statecore/internal/memws"
)

func testAddress(b byte) types.Address {
	var a types.Address
	a[31] = b
	return a
}

func newMeter() *gas.Meter {
	return gas.NewMeter(rws.New(memws.New()), 1_000_000)
}

func TestBalanceDefaultsToZeroForUnwrittenAccount(t *testing.T) {
	m := newMeter()
	bal, err := accounts.Balance(m, testAddress(0x01))
	require.NoError(t, err)
	require.Equal(t, uint64(0), bal)
}

func TestSetBalanceThenBalanceRoundTrips(t *testing.T) {
	m := newMeter()
	addr := testAddress(0x01)
	require.NoError(t, accounts.SetBalance(m, addr, 42))
	bal, err := accounts.Balance(m, addr)
	require.NoError(t, err)
	require.Equal(t, uint64(42), bal)
}

func TestCreditBalanceRejectsOverflow(t *testing.T) {
	m := newMeter()
	addr := testAddress(0x01)
	require.NoError(t, accounts.SetBalance(m, addr, ^uint64(0)))
	err := accounts.CreditBalance(m, addr, 1)
	require.ErrorIs(t, err, txerrors.ErrBalanceOverflow)
}

func TestDebitBalanceRejectsInsufficientFunds(t *testing.T) {
	m := newMeter()
	addr := testAddress(0x01)
	require.NoError(t, accounts.SetBalance(m, addr, 10))
	err := accounts.DebitBalance(m, addr, 11)
	require.ErrorIs(t, err, txerrors.ErrInsufficientBalance)

	bal, err := accounts.Balance(m, addr)
	require.NoError(t, err)
	require.Equal(t, uint64(10), bal, "a rejected debit must not partially apply")
}

func TestNonceRoundTrips(t *testing.T) {
	m := newMeter()
	addr := testAddress(0x01)
	require.NoError(t, accounts.SetNonce(m, addr, 7))
	nonce, err := accounts.Nonce(m, addr)
	require.NoError(t, err)
	require.Equal(t, uint64(7), nonce)
}

func TestContractCodeLifecycle(t *testing.T) {
	m := newMeter()
	addr := testAddress(0x01)

	has, err := accounts.HasContract(m, addr)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, accounts.SetContractCode(m, addr, []byte("\x00asm")))
	has, err = accounts.HasContract(m, addr)
	require.NoError(t, err)
	require.True(t, has)

	code, present, err := accounts.ContractCode(m, addr)
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, []byte("\x00asm"), code)
}

func TestCBIVersionRoundTripsAndReportsPresence(t *testing.T) {
	m := newMeter()
	addr := testAddress(0x01)

	_, present, err := accounts.CBIVersion(m, addr)
	require.NoError(t, err)
	require.False(t, present)

	require.NoError(t, accounts.SetCBIVersion(m, addr, 3))
	v, present, err := accounts.CBIVersion(m, addr)
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, uint32(3), v)
}

func TestAppDataLifecycle(t *testing.T) {
	m := newMeter()
	addr := testAddress(0x01)
	strat := variant.For(types.VariantV5)
	subKey := []byte("balance")

	_, present, err := accounts.AppData(m, strat, addr, subKey)
	require.NoError(t, err)
	require.False(t, present)

	require.NoError(t, accounts.SetAppData(m, strat, addr, subKey, []byte("v1")))
	value, present, err := accounts.AppData(m, strat, addr, subKey)
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, []byte("v1"), value)

	require.NoError(t, accounts.DeleteAppData(m, strat, addr, subKey))
	_, present, err = accounts.AppData(m, strat, addr, subKey)
	require.NoError(t, err)
	require.False(t, present)
}

func TestAppDataBillingDiffersBetweenV4AndV5(t *testing.T) {
	addr := testAddress(0x01)
	subKey := []byte("a-reasonably-long-storage-sub-key")

	mV4 := newMeter()
	require.NoError(t, accounts.SetAppData(mV4, variant.For(types.VariantV4), addr, subKey, []byte("v")))
	gasV4 := mV4.FinalizeCommand()

	mV5 := newMeter()
	require.NoError(t, accounts.SetAppData(mV5, variant.For(types.VariantV5), addr, subKey, []byte("v")))
	gasV5 := mV5.FinalizeCommand()

	require.Greater(t, gasV4, gasV5, "V4 double-charges the address prefix baked into AppKeyLength")
}
