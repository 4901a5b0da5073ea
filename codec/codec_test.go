package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name" msgpack:"name"`
	N    int    `json:"n" msgpack:"n"`
}

func TestLimitRejectsOversizedPayload(t *testing.T) {
	inner := JSON[payload]{}
	b, err := inner.Encode(payload{Name: "snapshot", N: 7})
	require.NoError(t, err)

	lim := Limit[payload]{Inner: inner, MaxDecode: len(b)}
	got, err := lim.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", got.Name)

	lim.MaxDecode = len(b) - 1
	_, err = lim.Decode(b)
	assert.ErrorContains(t, err, "payload too large")

	// MaxDecode <= 0 disables the check.
	lim.MaxDecode = 0
	_, err = lim.Decode(b)
	assert.NoError(t, err)
}

func TestCBORDeterministicOutputIsStable(t *testing.T) {
	cc := MustCBOR[payload](true)

	a, err := cc.Encode(payload{Name: "x", N: 1})
	require.NoError(t, err)
	b, err := cc.Encode(payload{Name: "x", N: 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	got, err := cc.Decode(a)
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "x", N: 1}, got)
}
