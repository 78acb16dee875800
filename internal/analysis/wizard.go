package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/validatehq/idea-cli/internal/model"
)

// answerText renders a wizard answer value (string, string array, or number)
// as plain text.
func answerText(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := answerText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// sortedKeys returns answer keys in stable order so prompt construction is
// deterministic for a given input.
func sortedKeys(a model.WizardAnswers) []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FindAnswer returns the first answer whose question id contains any of the
// given keywords (case-insensitive), scanning ids in sorted order.
func FindAnswer(a model.WizardAnswers, keywords ...string) (string, bool) {
	for _, key := range sortedKeys(a) {
		lower := strings.ToLower(key)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				if text := answerText(a[key]); text != "" {
					return text, true
				}
			}
		}
	}
	return "", false
}

// findAnswerExcluding is FindAnswer with a reject list: keys containing any
// excluded keyword are skipped even when they match.
func findAnswerExcluding(a model.WizardAnswers, keywords, excluded []string) (string, bool) {
	for _, key := range sortedKeys(a) {
		lower := strings.ToLower(key)

		skip := false
		for _, ex := range excluded {
			if strings.Contains(lower, ex) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				if text := answerText(a[key]); text != "" {
					return text, true
				}
			}
		}
	}
	return "", false
}

// FormatWizardAnswers renders the questionnaire as Q/A lines for a prompt.
// When questionText supplies wording for a question id, it is used; otherwise
// the id itself is shown.
func FormatWizardAnswers(a model.WizardAnswers, questionText map[string]string) string {
	if len(a) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, key := range sortedKeys(a) {
		text := answerText(a[key])
		if text == "" {
			continue
		}
		question := key
		if q, ok := questionText[key]; ok && q != "" {
			question = q
		}
		sb.WriteString("Q: " + question + "\n")
		sb.WriteString("A: " + text + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// founderContextFields maps a prompt label to the question-id keywords that
// locate the founder's answer for it.
var founderContextFields = []struct {
	label    string
	keywords []string
}{
	{"Target customer", []string{"target", "customer", "audience"}},
	{"Location", []string{"location", "geographic", "region"}},
	{"Relevant experience", []string{"experience", "background", "expertise"}},
	{"Startup budget", []string{"budget", "capital", "funding"}},
	{"Time commitment", []string{"commitment", "hours", "time"}},
	{"Technical capability", []string{"technical", "coding", "development"}},
}

// FounderContext extracts the founder-specific context lines used by the
// classification prompt. Returns "" when no relevant answers exist.
func FounderContext(a model.WizardAnswers) string {
	if len(a) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, field := range founderContextFields {
		if text, ok := FindAnswer(a, field.keywords...); ok {
			sb.WriteString(field.label + ": " + text + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// KeyInsights separates the founder's own startup budget from
// market-spending intelligence so the risk prompt cannot conflate capital
// available to build with what customers pay.
func KeyInsights(a model.WizardAnswers) string {
	if len(a) == 0 {
		return ""
	}

	var lines []string
	if budget, ok := findAnswerExcluding(a,
		[]string{"budget", "capital", "funding", "investment"},
		[]string{"customer", "market", "spend"},
	); ok {
		lines = append(lines, "Founder's startup budget (capital available to build, NOT market size): "+budget)
	}
	if spend, ok := FindAnswer(a, "spend", "spending", "willing_to_pay", "pay"); ok {
		lines = append(lines, "Market spending intelligence (what customers pay for solutions): "+spend)
	}
	return strings.Join(lines, "\n")
}
