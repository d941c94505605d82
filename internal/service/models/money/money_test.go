package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"28.99", 2899},
		{"0.99", 99},
		{"10", 1000},
		{"10.5", 1050},
		{"-3.99", -399},
		{"0.00", 0},
	}

	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "12,50"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "28.99", FromCents(2899).String())
	assert.Equal(t, "0.05", FromCents(5).String())
	assert.Equal(t, "-3.99", FromCents(-399).String())
	assert.Equal(t, "10.00", FromCents(1000).String())
}

func TestMul(t *testing.T) {
	assert.Equal(t, FromCents(2000), FromCents(1000).Mul(2))
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(FromCents(2899))
	require.NoError(t, err)
	assert.Equal(t, "28.99", string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"28.99"`), &m))
	assert.Equal(t, FromCents(2899), m)
}
