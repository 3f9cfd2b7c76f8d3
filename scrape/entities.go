package scrape

import (
	"regexp"
	"strings"
)

const (
	maxPhonesPerPage = 3
	maxEmailsPerPage = 2
)

var (
	phoneRe = regexp.MustCompile(`\+?\d[\d \-]{7,}\d`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	timeRangePattern = `\d{1,2}[:.]\d{2}\s*[-–—]\s*\d{1,2}[:.]\d{2}`

	dayAbbrevPL = `(?:poniedziałek|poniedzialek|wtorek|środa|sroda|środy|czwartek|piątek|piatek|sobota|soboty|niedziela|niedz|ndz|pon|pn|wt|śr|sr|czw|cz|pt|sob|sb|nd)`
	dayAbbrevEN = `(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues|tue|wed|thurs|thur|thu|fri|sat|sun)`
	dayFullPL   = `(?:poniedziałek|poniedzialek|wtorek|środa|sroda|czwartek|piątek|piatek|sobota|niedziela)`

	// The day-anchored pattern families, tried in order. The first family
	// that matches at all wins, and its longest match is returned, so a
	// full day range beats a single day on the same page.
	dayHoursPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b` + dayAbbrevPL + `\.?\s*(?:[-–—]\s*` + dayAbbrevPL + `\.?)?\s*:?\s*` + timeRangePattern),
		regexp.MustCompile(`(?i)\b` + dayAbbrevEN + `\.?\s*(?:[-–—]\s*` + dayAbbrevEN + `\.?)?\s*:?\s*` + timeRangePattern),
		regexp.MustCompile(`(?i)\b` + dayFullPL + `[\p{L}\s,.–—-]{0,40}?` + timeRangePattern),
	}

	bareTimeRangeRe = regexp.MustCompile(timeRangePattern)
)

// ExtractPhones returns up to three phone-number tokens found in sanitized
// text, deduplicated on the exact matched string.
func ExtractPhones(text string) []string {
	var phones []string
	seen := make(map[string]struct{})
	for _, m := range phoneRe.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		phones = append(phones, m)
		if len(phones) == maxPhonesPerPage {
			break
		}
	}
	return phones
}

// ExtractEmails returns up to two email addresses, deduplicated
// case-insensitively with the first spelling preserved.
func ExtractEmails(text string) []string {
	var emails []string
	seen := make(map[string]struct{})
	for _, m := range emailRe.FindAllString(text, -1) {
		key := strings.ToLower(m)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		emails = append(emails, m)
		if len(emails) == maxEmailsPerPage {
			break
		}
	}
	return emails
}

// designatorDotRe drops the period from abbreviated street designators
// ("ul.", "al.") so sentence splitting does not cut an address in half.
var designatorDotRe = regexp.MustCompile(`(?i)\b(ul|al|pl|os|st|rd)\.`)

// ExtractAddress splits sanitized text into sentence-ish lines and returns
// the first one that carries a street designator and a number. Empty string
// means no plausible address was found.
func ExtractAddress(text string, streetTokens []string) string {
	if len(streetTokens) == 0 {
		return ""
	}
	quoted := make([]string, len(streetTokens))
	for i, tok := range streetTokens {
		quoted[i] = regexp.QuoteMeta(tok)
	}
	streetRe := regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b\.?\s+\p{L}`)

	text = designatorDotRe.ReplaceAllString(text, "$1")
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > 120 {
			continue
		}
		if streetRe.MatchString(line) && strings.ContainsAny(line, "0123456789") {
			return line
		}
	}
	return ""
}

var lineSplitRe = regexp.MustCompile(`\.\s+|\n|[.]$`)

func splitLines(text string) []string {
	return lineSplitRe.Split(text, -1)
}

// ExtractBusinessHours scans sanitized text for opening hours. Day-anchored
// matches always beat a bare time range; within a family the longest match
// wins. Empty string means nothing plausible was found.
func ExtractBusinessHours(text string) string {
	if m := extractDayHours(text); m != "" {
		return m
	}
	return extractBareHours(text)
}

func extractDayHours(text string) string {
	for _, re := range dayHoursPatterns {
		if m := longestMatch(re, text); m != "" {
			return m
		}
	}
	return ""
}

func extractBareHours(text string) string {
	return longestMatch(bareTimeRangeRe, text)
}

func longestMatch(re *regexp.Regexp, text string) string {
	matches := re.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	longest := matches[0]
	for _, m := range matches[1:] {
		if len(m) > len(longest) {
			longest = m
		}
	}
	return strings.TrimSpace(longest)
}
