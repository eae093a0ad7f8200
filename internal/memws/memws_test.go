package memws_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/internal/memws"
)

func TestApplyWriteSetAppliesPutsAndDeletes(t *testing.T) {
	s := memws.New()
	s.Put([]byte("keep"), []byte("v1"))
	s.Put([]byte("drop"), []byte("v2"))

	err := s.ApplyWriteSet(rws.WriteSet{
		"keep": {Value: []byte("v1-updated"), Present: true},
		"drop": {Present: false},
		"new":  {Value: []byte("v3"), Present: true},
	})
	require.NoError(t, err)

	v, ok := s.Get([]byte("keep"))
	require.True(t, ok)
	require.Equal(t, []byte("v1-updated"), v)

	_, ok = s.Get([]byte("drop"))
	require.False(t, ok)

	v, ok = s.Get([]byte("new"))
	require.True(t, ok)
	require.Equal(t, []byte("v3"), v)

	require.Equal(t, 2, s.Len())
}

func TestContainsReflectsPresence(t *testing.T) {
	s := memws.New()
	require.False(t, s.Contains([]byte("missing")))
	s.Put([]byte("present"), []byte("x"))
	require.True(t, s.Contains([]byte("present")))
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	s := memws.New()
	original := []byte("mutate-me")
	s.Put([]byte("k"), original)
	original[0] = 'X'

	v, ok := s.Get([]byte("k"))
	require.True(t, ok)
	require.Equal(t, []byte("mutate-me"), v)
}
