package gas_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironledger/statecore/core/gas"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/internal/memws"
)

func newMeter(limit uint64) *gas.Meter {
	return gas.NewMeter(rws.New(memws.New()), limit)
}

func TestChargeStillAppliesOnOutOfGas(t *testing.T) {
	m := newMeter(5)
	err := m.WSSet([]byte("k"), []byte("some moderately long value"))
	require.ErrorIs(t, err, txerrors.ErrOutOfGas)
	require.True(t, m.OutOfGas())
}

func TestFinalizeCommandCapsAtRemainingBudget(t *testing.T) {
	m := newMeter(10)
	_ = m.WSSet([]byte("k"), []byte("a value long enough to exceed ten units of gas"))
	gasUsed := m.FinalizeCommand()
	require.LessOrEqual(t, gasUsed, uint64(10))
}

func TestFinalizeCommandResetsPerCommandCounterAndOutOfGasFlag(t *testing.T) {
	m := newMeter(1_000_000)
	_ = m.WSSet([]byte("k1"), []byte("v1"))
	first := m.FinalizeCommand()
	require.Greater(t, first, uint64(0))
	require.False(t, m.OutOfGas())

	// A second, smaller command must not inherit the first command's
	// gas usage.
	_, _ = m.WSContains([]byte("k1"))
	second := m.FinalizeCommand()
	require.Less(t, second, first)
}

func TestInclusionGasIsNotCountedAgainstCommandBudget(t *testing.T) {
	m := newMeter(100)
	m.ChargeInclusion(64, 1, gas.InclusionCost{BaseTxCost: 1_000_000, PerCommandCost: 0, PerByteCost: 0})
	require.Equal(t, uint64(1_000_000), m.TxnInclusionGas())
	// Inclusion bypasses the per-command budget check entirely; it is
	// charged up front in PreCharge, independent of per-command OutOfGas.
	require.False(t, m.OutOfGas())
}
