package amount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDecimalRoundTrip(t *testing.T) {
	cases := map[string]int64{
		"1":           DropsPerNXF,
		"0.00000001":  1,
		"500":         500 * DropsPerNXF,
		"299.99999":   29999999000,
		"-0.00000001": -1,
	}
	for in, want := range cases {
		got, err := ParseDecimal(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestParseDecimalRejectsExcessPrecision(t *testing.T) {
	_, err := ParseDecimal("1.123456789")
	require.Error(t, err)
}

func TestDecimalFormat(t *testing.T) {
	a := Native(29999999000)
	require.Equal(t, "299.99999000", a.Decimal())
}

func TestAddSubSameAsset(t *testing.T) {
	a := Native(100)
	b := Native(50)
	require.Equal(t, Native(150), a.Add(b))
	require.Equal(t, Native(50), a.Sub(b))
}

func TestAddPanicsOnAssetMismatch(t *testing.T) {
	a := Native(100)
	b := IOU(100, "USD", "rIssuer")
	require.Panics(t, func() { a.Add(b) })
}
