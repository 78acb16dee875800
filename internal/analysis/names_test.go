package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/validatehq/idea-cli/internal/config"
)

func newTestExtractor() *NameExtractor {
	return NewNameExtractor(config.AnalysisConfig{})
}

func TestExtract_ArticleSite_TrailingSegment(t *testing.T) {
	e := newTestExtractor()

	name := e.Extract("Top 7 Brex Competitors - Brex", "https://www.forbes.com/advisor/business/brex-competitors/")
	assert.Equal(t, "Brex", name)
}

func TestExtract_ArticleSite_LeadingSegment(t *testing.T) {
	e := newTestExtractor()

	name := e.Extract("Ramp: Best Reviews Guide", "https://techcrunch.com/2024/01/ramp")
	assert.Equal(t, "Ramp", name)
}

func TestExtract_ArticleSite_ColonDescriptionUsesLead(t *testing.T) {
	e := newTestExtractor()

	// A lowercase description after the colon must never win over the name.
	name := e.Extract("Brex: the corporate card for startups", "https://techcrunch.com/2024/02/brex")
	assert.Equal(t, "Brex", name)
}

func TestExtract_ArticleSite_PathSlug(t *testing.T) {
	e := newTestExtractor()

	name := e.Extract("Best Expense Software Reviews", "https://www.capterra.com/mercury-banking/")
	assert.Equal(t, "Mercury Banking", name)
}

func TestExtract_ArticleSite_DomainFallback(t *testing.T) {
	e := newTestExtractor()

	// Generic title, and the path slug is itself generic.
	name := e.Extract("Best Reviews Guide", "https://www.capterra.com/brex-review/")
	assert.Equal(t, "Capterra", name)
}

func TestExtract_CompanyPage_TitleHead(t *testing.T) {
	e := newTestExtractor()

	name := e.Extract("Acme - Modern Payroll for Teams", "https://acme.com")
	assert.Equal(t, "Acme", name)
}

func TestExtract_CompanyPage_EarliestSeparatorWins(t *testing.T) {
	e := newTestExtractor()

	name := e.Extract("Mercury | Banking - Built for Startups", "https://mercury.com")
	assert.Equal(t, "Mercury", name)
}

func TestExtract_CompanyPage_GenericHeadFallsBackToDomain(t *testing.T) {
	e := newTestExtractor()

	// Three of four head tokens are generic, so the domain label is split
	// on its business suffix instead.
	name := e.Extract("Book Your Vineyard Tour | Temalpakh Farms", "https://temalpakhfarms.com/tours")
	assert.Equal(t, "Temalpakh Farms", name)
}

func TestExtract_CompanyPage_LowercaseHeadFallsBackToDomain(t *testing.T) {
	e := newTestExtractor()

	name := e.Extract("the payroll platform built for startups", "https://acme.com")
	assert.Equal(t, "Acme", name)
}

func TestNameFromDomain_SuffixSplit(t *testing.T) {
	e := newTestExtractor()

	cases := []struct {
		domain string
		want   string
	}{
		{"temalpakhfarms", "Temalpakh Farms"},
		{"sunsetvineyardtours", "Sunsetvineyard Tours"},
		{"acme", "Acme"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, e.nameFromDomain(tc.domain), "domain %q", tc.domain)
	}
}

func TestIsGenericTitle(t *testing.T) {
	e := newTestExtractor()

	cases := []struct {
		text    string
		generic bool
	}{
		{"", true},
		{"About Us", true},
		{"Best CRM Reviews", true},
		{"Book Your Vineyard Tour", true},
		{"Brex", false},
		{"Mercury Banking", false},
		{"Top Payroll Guide", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.generic, e.IsGenericTitle(tc.text), "text %q", tc.text)
	}
}
