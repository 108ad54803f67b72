package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePublishedDate(t *testing.T) {
	tests := []struct {
		raw  string
		want PublishedDate
	}{
		{"2019-07-09", PublishedDate{Kind: DateKindFullDate, Year: 2019, Month: 7, Day: 9, Raw: "2019-07-09"}},
		{"2019-07", PublishedDate{Kind: DateKindYearMonth, Year: 2019, Month: 7, Raw: "2019-07"}},
		{"2019", PublishedDate{Kind: DateKindYearOnly, Year: 2019, Raw: "2019"}},
		{"circa 1850", PublishedDate{Kind: DateKindUnparsed, Raw: "circa 1850"}},
		{"July 2019", PublishedDate{Kind: DateKindUnparsed, Raw: "July 2019"}},
		{"", PublishedDate{Kind: DateKindUnparsed, Raw: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			require.Equal(t, tt.want, ParsePublishedDate(tt.raw))
		})
	}
}

func TestPublishedDate_String(t *testing.T) {
	require.Equal(t, "2019-07-09", ParsePublishedDate("2019-07-09").String())
	require.Equal(t, "2019-07", ParsePublishedDate("2019-07").String())
	require.Equal(t, "2019", ParsePublishedDate("2019").String())
	require.Equal(t, "circa 1850", ParsePublishedDate("circa 1850").String())
}

func TestPublishedDate_RawAlwaysPreserved(t *testing.T) {
	for _, raw := range []string{"2019-07-09", "2019-07", "2019", "not a date"} {
		require.Equal(t, raw, ParsePublishedDate(raw).Raw)
	}
}

func TestPublishedDate_IsZero(t *testing.T) {
	require.True(t, PublishedDate{}.IsZero())
	require.True(t, ParsePublishedDate("").IsZero())
	require.False(t, ParsePublishedDate("2019").IsZero())
	require.False(t, ParsePublishedDate("unknown").IsZero())
}
