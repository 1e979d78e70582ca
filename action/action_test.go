package action

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryBindAndLookup(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("digit")
	require.False(t, ok)

	called := false
	r.Bind("Digit", func(text []byte, values any, state any) (Result, error) {
		called = true
		return Ok(), nil
	})

	fn, ok := r.Lookup("DIGIT")
	require.True(t, ok, "lookup should be case-insensitive like rule names")

	_, err := fn(nil, nil, nil)
	require.NoError(t, err)
	require.True(t, called)
}

func TestRegistryRebindReplaces(t *testing.T) {
	r := NewRegistry()
	r.Bind("x", func([]byte, any, any) (Result, error) { return Ok(), nil })
	r.Bind("x", func([]byte, any, any) (Result, error) { return Reject(), nil })

	fn, ok := r.Lookup("x")
	require.True(t, ok)
	res, err := fn(nil, nil, nil)
	require.NoError(t, err)
	require.True(t, res.Rejected)
}

func TestZeroValueRegistryLookupMisses(t *testing.T) {
	var r Registry
	_, ok := r.Lookup("anything")
	require.False(t, ok)
}

func TestNilRegistryLookupMisses(t *testing.T) {
	var r *Registry
	_, ok := r.Lookup("anything")
	require.False(t, ok)
}

func TestResultConstructors(t *testing.T) {
	require.False(t, Ok().Rejected)
	require.True(t, Reject().Rejected)

	s := OkState(42)
	require.True(t, s.HasState)
	require.Equal(t, 42, s.State)

	rep := OkReplace("replacement", nil, false)
	require.True(t, rep.HasReplacement)
	require.Equal(t, "replacement", rep.Replacement)
	require.False(t, rep.HasState)
}
