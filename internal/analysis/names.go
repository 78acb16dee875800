package analysis

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/validatehq/idea-cli/internal/config"
)

// NameExtractor derives a human-readable company name from a search-result
// title and URL. The article-site, generic-keyword, and business-suffix lists
// are data supplied by configuration so deployments can extend them without a
// code change. Extraction is pure text processing: deterministic, no I/O.
type NameExtractor struct {
	articleSites     map[string]bool
	genericKeywords  []string
	businessSuffixes []string
}

// NewNameExtractor builds a NameExtractor from config, falling back to the
// built-in default lists for any list left empty.
func NewNameExtractor(cfg config.AnalysisConfig) *NameExtractor {
	sites := cfg.ArticleSites
	if len(sites) == 0 {
		sites = config.DefaultArticleSites()
	}
	keywords := cfg.GenericKeywords
	if len(keywords) == 0 {
		keywords = config.DefaultGenericKeywords()
	}
	suffixes := cfg.BusinessSuffixes
	if len(suffixes) == 0 {
		suffixes = config.DefaultBusinessSuffixes()
	}

	siteSet := make(map[string]bool, len(sites))
	for _, s := range sites {
		siteSet[strings.ToLower(s)] = true
	}

	return &NameExtractor{
		articleSites:     siteSet,
		genericKeywords:  keywords,
		businessSuffixes: suffixes,
	}
}

// titleSeparators split a page title into a leading name and trailing
// boilerplate (or vice versa on article sites).
var titleSeparators = []string{" - ", " – ", " — ", " | ", ": "}

// trailingSeparators omit the colon: a colon introduces a description
// ("Brex: the corporate card"), never a trailing name.
var trailingSeparators = []string{" - ", " – ", " — ", " | "}

// Extract returns a best-effort company name for a search hit.
func (e *NameExtractor) Extract(title, link string) string {
	domain := firstDomainLabel(link)

	if e.articleSites[domain] {
		return e.extractFromArticle(title, link, domain)
	}
	return e.extractFromCompanyPage(title, domain)
}

// extractFromArticle handles hits on news/review/aggregator sites, where the
// title names an article rather than the company itself.
func (e *NameExtractor) extractFromArticle(title, link, domain string) string {
	// "Top 7 Brex Competitors - Brex" → trailing segment is the subject.
	if tail, ok := trailingSegment(title); ok && !e.IsGenericTitle(tail) {
		return tail
	}

	// "Brex: the corporate card for startups" → leading segment.
	if head, ok := leadingSegment(title, ":"); ok && isCapitalized(head) && !e.IsGenericTitle(head) {
		return head
	}

	// Derive from URL path slug words.
	if name := e.nameFromPathSlug(link); name != "" {
		return name
	}

	return capitalize(domain)
}

// extractFromCompanyPage handles hits on what is presumed to be the
// company's own site.
func (e *NameExtractor) extractFromCompanyPage(title, domain string) string {
	head := title
	sepIdx := -1
	for _, sep := range titleSeparators {
		if i := strings.Index(title, sep); i >= 0 && (sepIdx < 0 || i < sepIdx) {
			sepIdx = i
		}
	}
	if sepIdx >= 0 {
		head = title[:sepIdx]
	}
	head = strings.TrimSpace(head)

	if head != "" && len(head) < 50 && isCapitalized(head) && !e.IsGenericTitle(head) {
		return head
	}

	return e.nameFromDomain(domain)
}

// nameFromDomain splits a known business suffix off the domain label and
// title-cases both parts ("temalpakhfarms" → "Temalpakh Farms"); otherwise
// it just capitalizes the label.
func (e *NameExtractor) nameFromDomain(domain string) string {
	for _, suffix := range e.businessSuffixes {
		if strings.HasSuffix(domain, suffix) && len(domain) > len(suffix) {
			base := domain[:len(domain)-len(suffix)]
			return capitalize(base) + " " + capitalize(suffix)
		}
	}
	return capitalize(domain)
}

// nameFromPathSlug derives a name from hyphen-separated words in the first
// meaningful URL path segment, title-casing each word. Returns "" when the
// path yields nothing usable or the result is itself generic.
func (e *NameExtractor) nameFromPathSlug(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}

	for _, segment := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if segment == "" || isNumeric(segment) {
			continue
		}

		var words []string
		for _, w := range strings.Split(segment, "-") {
			if w == "" || isNumeric(w) {
				continue
			}
			words = append(words, capitalize(w))
			if len(words) == 3 {
				break
			}
		}
		if len(words) == 0 {
			continue
		}

		name := strings.Join(words, " ")
		if e.IsGenericTitle(name) {
			return ""
		}
		return name
	}

	return ""
}

// IsGenericTitle reports whether candidate text reads as a generic page
// title rather than a company name: at least half of its whitespace tokens
// contain a generic-page keyword.
func (e *NameExtractor) IsGenericTitle(text string) bool {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return true
	}

	generic := 0
	for _, tok := range tokens {
		lower := strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		}))
		for _, kw := range e.genericKeywords {
			if strings.Contains(lower, kw) {
				generic++
				break
			}
		}
	}

	return generic*2 >= len(tokens)
}

// trailingSegment returns the text after the last title separator, e.g. the
// "Brex" in "Top 7 Brex Competitors - Brex".
func trailingSegment(title string) (string, bool) {
	last := -1
	width := 0
	for _, sep := range trailingSeparators {
		if i := strings.LastIndex(title, sep); i > last {
			last = i
			width = len(sep)
		}
	}
	if last < 0 {
		return "", false
	}
	tail := strings.TrimSpace(title[last+width:])
	if tail == "" || len(tail) >= 50 {
		return "", false
	}
	return tail, true
}

// leadingSegment returns the trimmed text before the first occurrence of sep.
func leadingSegment(title, sep string) (string, bool) {
	i := strings.Index(title, sep)
	if i <= 0 {
		return "", false
	}
	head := strings.TrimSpace(title[:i])
	if head == "" || len(head) >= 50 {
		return "", false
	}
	return head, true
}

// firstDomainLabel returns the first label of the URL's hostname with any
// "www." stripped: "https://www.techcrunch.com/..." → "techcrunch".
func firstDomainLabel(link string) string {
	host := NormalizeDomain(link)
	if i := strings.Index(host, "."); i > 0 {
		host = host[:i]
	}
	return host
}

func isCapitalized(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
