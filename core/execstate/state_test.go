package execstate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/types"
	"github.com/ironledger/statecore/core/variant"
	"github.com/ironledger/statecore/internal/memws"
)

func testAddress(b byte) types.Address {
	var a types.Address
	a[31] = b
	return a
}

func newState() *execstate.State {
	tx := &types.Transaction{Variant: types.VariantV5, Signer: testAddress(0x01)}
	bd := &types.BlockchainData{BlockHeight: 1}
	return execstate.New(memws.New(), 100_000, 256, variant.For(types.VariantV5), bd, tx)
}

func TestNewBundlesEveryComponent(t *testing.T) {
	s := newState()
	require.NotNil(t, s.RWS)
	require.NotNil(t, s.Gas)
	require.NotNil(t, s.NAS)
	require.Equal(t, types.VariantV5, s.Strat.Tag)
	require.NotNil(t, s.BD)
	require.NotNil(t, s.TX)
}

func TestCommandIndexDefaultsToZeroAndIsSettable(t *testing.T) {
	s := newState()
	require.Equal(t, 0, s.CommandIndex())
	s.SetCommandIndex(3)
	require.Equal(t, 3, s.CommandIndex())
}

func TestDeferredQueueIsFIFOAndDrainEmpties(t *testing.T) {
	s := newState()
	first := types.DeferredCommand{ContractAddress: testAddress(0x01)}
	second := types.DeferredCommand{ContractAddress: testAddress(0x02)}

	s.EnqueueDeferred(first)
	s.EnqueueDeferred(second)

	drained := s.DrainDeferred()
	require.Equal(t, []types.DeferredCommand{first, second}, drained)
	require.Empty(t, s.DrainDeferred(), "draining must empty the queue")
}

func TestGasMeterIsBackedByTheSameRWS(t *testing.T) {
	s := newState()
	require.NoError(t, s.Gas.WSSet([]byte("k"), []byte("v")))
	value, present := s.RWS.Get([]byte("k"))
	require.True(t, present)
	require.Equal(t, []byte("v"), value)
}

var _ rws.WorldStateView = (*memws.Store)(nil)
