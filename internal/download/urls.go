package download

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultBaseURL is where the monthly publications live
const DefaultBaseURL = "https://www.bb.org.bd/pub/monthly/econtrds"

// Extensions in preference order
var Extensions = []string{"xlsx", "xls"}

// patterns are formatted with the month spelling as the first argument and
// the year spelling as the second. Only the "et" form puts the month first.
var patterns = []string{
	"et%[1]s%[2]s",
	"econtrends_%[2]s%[1]s",
	"ET%[2]s%[1]s",
	"%[2]s%[1]s/statisticaltable",
}

// CandidateURLs lists every URL the publisher has used for r. Month
// spellings vary most, then year spellings, extensions and patterns.
func CandidateURLs(baseURL string, r MonthlyReport) []string {
	full := r.Month.String()
	lower := strings.ToLower(full)
	months := []string{full, lower, full[:3], lower[:3]}

	year := strconv.Itoa(r.Year)
	years := []string{year, fmt.Sprintf("%02d", r.Year%100)}

	base := strings.TrimRight(baseURL, "/")
	urls := make([]string, 0, len(months)*len(years)*len(Extensions)*len(patterns))
	for _, m := range months {
		for _, y := range years {
			for _, ext := range Extensions {
				for _, p := range patterns {
					urls = append(urls, base+"/"+fmt.Sprintf(p, m, y)+"."+ext)
				}
			}
		}
	}
	return urls
}

// extensionOf returns the workbook extension of url
func extensionOf(url string) (string, bool) {
	for _, ext := range Extensions {
		if strings.HasSuffix(url, "."+ext) {
			return ext, true
		}
	}
	return "", false
}
