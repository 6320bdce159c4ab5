package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHalfUp(t *testing.T) {
	cases := map[string]string{
		"41.095":   "41.1",
		"41.0945":  "41.09",
		"888.4879": "888.49",
		"-0.005":   "-0.01",
		"100":      "100",
	}

	for in, want := range cases {
		got := Round(decimal.RequireFromString(in))
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "Round(%s) = %s, want %s", in, got, want)
	}
}

func TestScaleFor(t *testing.T) {
	assert.Equal(t, int32(2), ScaleFor("usd"))
	assert.Equal(t, int32(0), ScaleFor("JPY"))
	assert.Equal(t, "1235", Format("JPY", RoundFor("JPY", decimal.RequireFromString("1234.5"))))
	assert.Equal(t, "41.10", Format("USD", decimal.RequireFromString("41.1")))
}

func TestParse(t *testing.T) {
	d, err := Parse(" 12.50 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	_, err = Parse("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParsePositive("0")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParsePositive("-3")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestHasValidScale(t *testing.T) {
	assert.True(t, HasValidScale("USD", decimal.RequireFromString("10.25")))
	assert.False(t, HasValidScale("USD", decimal.RequireFromString("10.255")))
	assert.False(t, HasValidScale("JPY", decimal.RequireFromString("10.5")))
}
