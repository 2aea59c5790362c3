package timestamp

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustYear(t *testing.T, y int) Year {
	t.Helper()
	year, err := NewYear(y)
	require.NoError(t, err)
	return year
}

func TestParseYear(t *testing.T) {
	y, err := ParseYear("2009")
	require.NoError(t, err)
	assert.Equal(t, Year(2009), y)

	for _, bad := range []string{"20090", "02009", "hello", "", "0000", "20 9"} {
		_, err := ParseYear(bad)
		assert.ErrorIs(t, err, ErrCannotParse, bad)
	}
}

func TestParseYearly(t *testing.T) {
	tests := []struct {
		input    string
		expected Yearly
	}{
		{"2022", Yearly{Year: 2022}},
		{"2009  ", Yearly{Year: 2009}},
		{"2022-23", Yearly{Year: 2022, Fiscal: true}},
		{"2009-10", Yearly{Year: 2009, Fiscal: true}},
		{"2009 - 10", Yearly{Year: 2009, Fiscal: true}},
		{"1999-00", Yearly{Year: 1999, Fiscal: true}},
		{"2017-18", Yearly{Year: 2017, Fiscal: true}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseYearly(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseYearly_Rejects(t *testing.T) {
	for _, input := range []string{"July", "hello", "2009/10", "2009-1", "200x-10", ""} {
		_, err := ParseYearly(input)
		assert.ErrorIs(t, err, ErrCannotParse, input)
	}

	_, err := ParseYearly("2009-15")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFiscalMismatch))
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Month
	}{
		{"January", time.January},
		{"january", time.January},
		{"Jan", time.January},
		{"Sep.", time.September},
		{"December ", time.December},
		{"Fabruary", time.February},
		{"MAY", time.May},
	}
	for _, tt := range tests {
		got, err := ParseMonth(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}

	for _, bad := range []string{"Sept", "Janu", "2009", "", "Month"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseQuarter(t *testing.T) {
	y := mustYear(t, 2009)
	tests := []struct {
		input    string
		expected Quarter
	}{
		{"Jan-Mar", JanFebMar},
		{"Jan- Mar", JanFebMar},
		{"Jan -Mar", JanFebMar},
		{"Jan  - Mar", JanFebMar},
		{"Oct.-Dec", OctNovDec},
		{"Oct-Dec.", OctNovDec},
		{"Jul-Sep", JulAugSep},
		{"Jul- Sep", JulAugSep},
		{"July- Sep", JulAugSep},
		{"Apr-June", AprMayJun},
		{"Jul-Sept", JulAugSep},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := ParseQuarter(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, q)

			ts, err := WithYear(y, tt.input)
			require.NoError(t, err)
			assert.Equal(t, InQuarter(y, tt.expected), ts)
		})
	}
}

func TestParseHalf(t *testing.T) {
	h, err := ParseHalf("Jan-Jun")
	require.NoError(t, err)
	assert.Equal(t, JanThruJun, h)

	h, err = ParseHalf("July - Dec.")
	require.NoError(t, err)
	assert.Equal(t, JulThruDec, h)

	_, err = ParseHalf("Jan-Mar")
	assert.Error(t, err)
}

func TestWithYear(t *testing.T) {
	y := mustYear(t, 2010)

	ts, err := WithYear(y, "March")
	require.NoError(t, err)
	assert.Equal(t, InMonth(y, time.March), ts)

	ts, err = WithYear(y, "Jul-Dec")
	require.NoError(t, err)
	assert.Equal(t, InHalf(y, JulThruDec), ts)

	_, err = WithYear(y, "Source: Bangladesh Bank")
	assert.ErrorIs(t, err, ErrCannotParse)
}

func TestString(t *testing.T) {
	y := mustYear(t, 2014)
	assert.Equal(t, "2014", Calendar(y).String())
	assert.Equal(t, "2014-15", Fiscal(y).String())
	assert.Equal(t, "2014-07", InMonth(y, time.July).String())
	assert.Equal(t, "2014 Jul-Sep", InQuarter(y, JulAugSep).String())
	assert.Equal(t, "2014 Jan-Jun", InHalf(y, JanThruJun).String())
	assert.Equal(t, "2014 Oct-Dec", InQuarter(y, OctNovDec).String())
}

func allTimestamps(years ...Year) []Timestamp {
	var all []Timestamp
	for _, y := range years {
		all = append(all, Calendar(y), Fiscal(y))
		for h := JanThruJun; h <= JulThruDec; h++ {
			all = append(all, InHalf(y, h))
		}
		for q := JanFebMar; q <= OctNovDec; q++ {
			all = append(all, InQuarter(y, q))
		}
		for m := time.January; m <= time.December; m++ {
			all = append(all, InMonth(y, m))
		}
	}
	return all
}

func TestParse_RoundTrip(t *testing.T) {
	for _, ts := range allTimestamps(1, 99, 1971, 1999, 2009, 2023, 9999) {
		parsed, err := Parse(ts.Class(), ts.String())
		require.NoError(t, err, ts.String())
		assert.Equal(t, ts, parsed, ts.String())
	}
}

func TestParse_WrongClass(t *testing.T) {
	_, err := Parse(Quarterly, "2009 Jan-Jun")
	assert.Error(t, err)

	_, err = Parse(FiscalYear, "2009")
	assert.Error(t, err)

	_, err = Parse(Monthly, "2009-13")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	y9, y10 := mustYear(t, 2009), mustYear(t, 2010)
	sorted := []Timestamp{
		Calendar(y9),
		Calendar(y10),
		Fiscal(y9),
		InHalf(y10, JanThruJun),
		InQuarter(y9, OctNovDec),
		InQuarter(y10, JanFebMar),
		InMonth(y9, time.December),
		InMonth(y10, time.January),
		InMonth(y10, time.February),
	}
	shuffled := slices.Clone(sorted)
	slices.Reverse(shuffled)
	slices.SortFunc(shuffled, Compare)
	assert.Equal(t, sorted, shuffled)

	assert.True(t, Calendar(y10).Before(InMonth(y9, time.January)))
	assert.Equal(t, 0, Compare(InMonth(y9, time.May), InMonth(y9, time.May)))
}

func TestClass(t *testing.T) {
	y := mustYear(t, 2010)
	assert.Equal(t, Monthly, InMonth(y, time.January).Class())
	assert.Equal(t, InMonth(y, time.January).Class(), InMonth(mustYear(t, 1990), time.June).Class())
	assert.Equal(t, "monthly", Monthly.Slug())
	assert.Equal(t, "calendar-year", CalendarYear.Slug())
	assert.Equal(t, "bi-annual", BiAnnual.Slug())
}
