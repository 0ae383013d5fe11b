package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatName(t *testing.T) {
	cases := map[string]string{
		"rosas":          "Rosas",
		"ROSAS":          "Rosas",
		"  rOSAS rojas ": "Rosas rojas",
		"ñandú":          "Ñandú",
		"":               "",
		"   ":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatName(in), "input %q", in)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", h)

	require.NoError(t, ComparePassword(h, "s3cret-pass"))
	require.ErrorIs(t, ComparePassword(h, "wrong"), ErrPasswordMismatch)
}
