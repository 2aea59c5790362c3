package download

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/A248/bank-data/internal/errors"
)

func TestPlan(t *testing.T) {
	now := time.Date(2016, time.February, 10, 0, 0, 0, 0, time.UTC)

	plan := Plan(2015, now, KnownGaps)
	require.Len(t, plan, 13)
	assert.Equal(t, MonthlyReport{Year: 2015, Month: time.January}, plan[0])
	assert.Equal(t, MonthlyReport{Year: 2016, Month: time.February}, plan[len(plan)-1])
	assert.NotContains(t, plan, MonthlyReport{Year: 2015, Month: time.November})

	for i := 1; i < len(plan); i++ {
		assert.True(t, plan[i-1].Before(plan[i]))
	}

	assert.Empty(t, Plan(2017, now, nil))
	assert.Len(t, Plan(2016, now, nil), 2)
}

func TestParseMonth(t *testing.T) {
	r, err := ParseMonth("2015-11")
	require.NoError(t, err)
	assert.Equal(t, MonthlyReport{Year: 2015, Month: time.November}, r)

	_, err = ParseMonth("November 2015")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	assert.Contains(t, err.Error(), `invalid month "November 2015"`)
}

func TestMonthlyReport_Names(t *testing.T) {
	r := MonthlyReport{Year: 2015, Month: time.March}
	assert.Equal(t, "2015-03.xlsx", r.FileName("xlsx"))
	assert.Equal(t, "2015-03.xls", r.FileName("xls"))
	assert.Equal(t, "March 2015", r.String())
}

func TestCandidateURLs(t *testing.T) {
	urls := CandidateURLs(DefaultBaseURL+"/", MonthlyReport{Year: 2015, Month: time.March})
	require.Len(t, urls, 64)
	assert.Equal(t, DefaultBaseURL+"/etMarch2015.xlsx", urls[0])

	for _, want := range []string{
		"/etmar15.xlsx",
		"/etMarch2015.xls",
		"/econtrends_2015March.xlsx",
		"/econtrends_2015march.xlsx",
		"/econtrends_15mar.xlsx",
		"/ET15Mar.xlsx",
		"/ET2015March.xls",
		"/15mar/statisticaltable.xlsx",
		"/15mar/statisticaltable.xls",
		"/2015march/statisticaltable.xlsx",
	} {
		assert.Contains(t, urls, DefaultBaseURL+want)
	}
	for _, absent := range []string{
		"/econtrends_March2015.xlsx",
		"/ETMar15.xlsx",
		"/mar15/statisticaltable.xlsx",
	} {
		assert.NotContains(t, urls, DefaultBaseURL+absent)
	}
	assert.Equal(t, DefaultBaseURL+"/econtrends_2015March.xlsx", urls[1])

	early := CandidateURLs(DefaultBaseURL, MonthlyReport{Year: 2005, Month: time.May})
	assert.Contains(t, early, DefaultBaseURL+"/etmay05.xls")
}

func TestExtensionOf(t *testing.T) {
	ext, ok := extensionOf("https://example.org/etmar15.xls")
	assert.True(t, ok)
	assert.Equal(t, "xls", ext)

	_, ok = extensionOf("https://example.org/index.html")
	assert.False(t, ok)
}
