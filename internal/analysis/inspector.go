package analysis

import "strings"

// Inspector decides whether header or timestamp text marks a sheet as
// unsupported and which header elements end the label range.
type Inspector interface {
	// Unsupported returns an error when text reveals a layout that cannot be read
	Unsupported(text string) error
	// Skippable reports whether text ends the label range, e.g. "Weight"
	Skippable(text string) bool
}

// BannedPhrase pairs text that identifies an unreadable sheet with the reason
// reported for it.
type BannedPhrase struct {
	Phrase string `yaml:"phrase" validate:"required"`
	Reason string `yaml:"reason" validate:"required"`
}

// DefaultBannedPhrases identify the sheets of the monthly publication that use
// daily timestamps, horizontal layouts or no timestamps at all.
var DefaultBannedPhrases = []BannedPhrase{
	{"BD(Govt) Treasury Bond", "Government securities/bonds sheet unsupported"},
	{"Fixed Deposit Account (Interest after maturity)", "Bank/interest rate sheet unsupported"},
	{"BANK WISE ANNOUNCED INTEREST RATE STRUCTURE", "Bank rate announcements unsupported"},
	{"PROFIT RATE STRUCTURE OF THE ISLAMIC BANKS", "Islamic banks sheet unsupported"},
}

// DefaultSkippableLabels end the label range of a header
var DefaultSkippableLabels = []string{"Weight"}

// SupportInspector is the Inspector used while locating the first timestamp
type SupportInspector struct {
	BannedPhrases   []BannedPhrase
	SkippableLabels []string
}

// NewSupportInspector creates an inspector with the given tables
func NewSupportInspector(banned []BannedPhrase, skippable []string) *SupportInspector {
	return &SupportInspector{BannedPhrases: banned, SkippableLabels: skippable}
}

// DefaultInspector creates an inspector with the default tables
func DefaultInspector() *SupportInspector {
	return NewSupportInspector(DefaultBannedPhrases, DefaultSkippableLabels)
}

func (i *SupportInspector) Unsupported(text string) error {
	for _, b := range i.BannedPhrases {
		if strings.Contains(text, b.Phrase) {
			return Unsupported(b.Reason)
		}
	}
	return nil
}

func (i *SupportInspector) Skippable(text string) bool {
	for _, s := range i.SkippableLabels {
		if text == s {
			return true
		}
	}
	return false
}

// noopInspector accepts everything. Row streaming uses it once the layout has
// been validated.
type noopInspector struct{}

func (noopInspector) Unsupported(string) error { return nil }

func (noopInspector) Skippable(string) bool { return false }
