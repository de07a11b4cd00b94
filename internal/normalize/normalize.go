// Package normalize converts raw heterogeneous cell values into canonical
// typed fields.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[-\s]+`)
	emailRe        = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	digitsRe       = regexp.MustCompile(`\d+`)

	// Strips combining marks after NFD decomposition, so Vietnamese names
	// slug to plain ASCII.
	foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify converts text to a lowercase hyphenated token containing only word
// characters and hyphens. maxLen truncates the result when > 0. Diacritics
// are folded before filtering; empty input yields empty output.
func Slugify(text string, maxLen int) string {
	folded, _, err := transform.String(foldTransformer, text)
	if err == nil {
		text = folded
	}
	text = slugStripRe.ReplaceAllString(text, "")
	text = slugCollapseRe.ReplaceAllString(text, "-")
	text = strings.ToLower(strings.Trim(text, "-"))
	if maxLen > 0 && len(text) > maxLen {
		text = strings.Trim(text[:maxLen], "-")
	}
	return text
}

// ExtractEmail returns the first email-shaped substring of text, or "" when
// none is found. Deliverability is not validated.
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ParseDelegateCount extracts a delegate count from free-form text: thousands
// separators ("." and ",") are stripped, then the first contiguous digit run
// is parsed. Returns nil for blank input or text without digits.
//
// Ranged text like "300-500" yields the first number only; the historical
// import scripts behave this way and downstream data depends on it.
func ParseDelegateCount(text string) *int {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	s = strings.NewReplacer(".", "", ",", "").Replace(s)
	digits := digitsRe.FindString(s)
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

// CountryFromEmail infers a country from contact email domain keywords,
// falling back to "International". Used by the NORMAL source format, whose
// exports carry no country column.
func CountryFromEmail(email string) string {
	e := strings.ToLower(email)
	switch {
	case e == "":
		return "International"
	case strings.Contains(e, ".sg") || strings.Contains(e, "singapore"):
		return "Singapore"
	case strings.Contains(e, ".my") || strings.Contains(e, "malaysia"):
		return "Malaysia"
	case strings.Contains(e, ".hk") || strings.Contains(e, "hong kong"):
		return "Hong Kong"
	case strings.Contains(e, ".org") && strings.Contains(e, "asia"):
		return "Asia-Pacific"
	default:
		return "International"
	}
}

// JoinFragments concatenates non-empty fragments with "; ", the fixed note
// separator used across building and merging.
func JoinFragments(fragments []string) string {
	var parts []string
	for _, f := range fragments {
		if strings.TrimSpace(f) != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, "; ")
}
