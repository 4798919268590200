package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeNameLower(t *testing.T) {
	require.Equal(t, "ada kaya", NormalizeNameLower("  Ada   KAYA "))
	require.Equal(t, "", NormalizeNameLower("   "))
}

func TestFoldStripsDiacritics(t *testing.T) {
	require.Equal(t, Fold("egitim"), Fold("Eğitim"))
	require.Equal(t, Fold("cigdem yilmaz"), Fold("Çiğdem Yılmaz"))
	require.Equal(t, "uber", Fold("Über"))
}

func TestTrimMax(t *testing.T) {
	require.Equal(t, "abc", TrimMax("  abc  ", 10))
	require.Equal(t, "ab", TrimMax("abcdef", 2))
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{
		"2026-03-01T10:00:00Z",
		"2026-03-01T10:00:00",
		"2026-03-01 10:00:00",
		"2026-03-01",
	} {
		ts, err := ParseTime(s)
		require.NoError(t, err, s)
		require.Equal(t, time.March, ts.Month())
	}

	_, err := ParseTime("01/03/2026")
	require.ErrorIs(t, err, ErrInvalidTimeFormat)
}
