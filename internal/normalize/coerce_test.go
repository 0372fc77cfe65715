package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2019.03.21 09:00:11":  time.Date(2019, 3, 21, 9, 0, 11, 0, time.UTC),
		"2019-03-21 09:00:11":  time.Date(2019, 3, 21, 9, 0, 11, 0, time.UTC),
		"2019-03-21T09:00:11Z": time.Date(2019, 3, 21, 9, 0, 11, 0, time.UTC),
		"2019-03-21":           time.Date(2019, 3, 21, 0, 0, 0, 0, time.UTC),
	}
	for input, want := range cases {
		got := ParseTimestamp(input)
		require.NotNilf(t, got, "input %q", input)
		assert.Equalf(t, want, got.UTC(), "input %q", input)
	}
}

func TestParseTimestampGarbageIsNil(t *testing.T) {
	assert.Nil(t, ParseTimestamp(""))
	assert.Nil(t, ParseTimestamp("not a date"))
	assert.Nil(t, ParseTimestamp("31/31/2019"))
}

func TestParseFeedTime(t *testing.T) {
	got := ParseFeedTime("Thu 21 Mar 2019 09:00:11")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2019, 3, 21, 9, 0, 11, 0, time.UTC), got.UTC())

	// Single-digit days have no leading zero in the feed.
	got = ParseFeedTime("Fri 1 Mar 2019 00:00:01")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2019, 3, 1, 0, 0, 1, 0, time.UTC), got.UTC())

	assert.Nil(t, ParseFeedTime("yesterday"))
}

func TestFloat(t *testing.T) {
	require.NotNil(t, Float("1.5"))
	assert.Equal(t, 1.5, *Float("1.5"))
	assert.Equal(t, 0.0, *Float("0"))
	assert.Nil(t, Float(""))
	assert.Nil(t, Float("garbage"))
	assert.Nil(t, Float("NaN"))
	assert.Nil(t, Float("+Inf"))
}

func TestInt(t *testing.T) {
	require.NotNil(t, Int("55"))
	assert.Equal(t, int64(55), *Int("55"))
	assert.Nil(t, Int("55.5"))
	assert.Nil(t, Int(""))
	assert.Nil(t, Int("abc"))
}

func TestFraction(t *testing.T) {
	require.NotNil(t, Fraction("55%"))
	assert.Equal(t, 0.55, *Fraction("55%"))
	require.NotNil(t, Fraction("0.2"))
	assert.Equal(t, 0.2, *Fraction("0.2"))
	assert.Nil(t, Fraction("-"))
	assert.Nil(t, Fraction(""))
	assert.Nil(t, Fraction("NaN"))
	assert.Nil(t, Fraction("%"))
}
