package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Per-page caps. Every list leaves this stage deduplicated and bounded so
// downstream context stays small no matter how noisy the page is.
const (
	maxHeadingsPerPage  = 8
	maxListItemsPerPage = 12
	maxOfferingsPerPage = 10
	maxProductPerPage   = 12
	maxPricingPerPage   = 8
	maxFAQPerPage       = 8
	maxOfferingWords    = 50
)

// ScrapedSection is the extraction result for exactly one fetched page.
// It is immutable once returned from ExtractSection.
type ScrapedSection struct {
	Title       string
	Description string
	Hero        string

	Offerings         []string
	ProductHighlights []string
	PricingHighlights []string
	FAQHighlights     []string

	Text string

	Phones        []string
	Emails        []string
	Address       string
	BusinessHours string

	// SourcePath is the page path relative to the site origin, kept for
	// provenance annotations when sections are merged.
	SourcePath string
}

var (
	headingRe  = regexp.MustCompile(`(?is)<h[1-3][^>]*>(.*?)</h[1-3]\s*>`)
	listItemRe = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li\s*>`)

	priceTokenRe = regexp.MustCompile(`(?i)(?:[$€£]\s*\d|\d(?:[\d\s.,]*\d)?\s*(?:zł|pln\b|eur\b|usd\b|gbp\b|€|\$)|\d+\s*(?:/|za\s+)\s*(?:m-?c|mies\w*|month|mo\b))`)

	sentenceSplitRe = regexp.MustCompile(`\.\s+|\n|•|;`)
)

// headingSection is the text scope between one <h1>–<h3> and the next.
type headingSection struct {
	title string
	body  string // raw markup slice, not yet sanitized
}

// ExtractSection pulls one page's structured business knowledge out of raw
// markup. Given any input, including malformed fragments, it succeeds; the
// worst outcome is a section with empty fields.
func ExtractSection(html, sourcePath string, vocab Vocabulary) *ScrapedSection {
	sec := &ScrapedSection{SourcePath: sourcePath}
	sec.Text = Sanitize(html)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		sec.Title, sec.Description, sec.Hero = extractMeta(doc)
	}

	headingSections := scanHeadingSections(html)

	headings := collectHeadings(headingSections, vocab)
	items := collectListItems(doc, vocab)
	sec.Offerings = buildOfferings(headings, items)

	fillHighlights(sec, headingSections, vocab)

	sec.Phones = ExtractPhones(sec.Text)
	sec.Emails = ExtractEmails(sec.Text)
	sec.Address = ExtractAddress(sec.Text, vocab.StreetTokens)
	// Day-anchored hours anywhere on the page win; with none, a bare time
	// range inside an hour-keyword section beats one found elsewhere.
	sec.BusinessHours = extractDayHours(sec.Text)
	if sec.BusinessHours == "" {
		sec.BusinessHours = hoursFromSections(headingSections, vocab)
	}
	if sec.BusinessHours == "" {
		sec.BusinessHours = extractBareHours(sec.Text)
	}

	return sec
}

func extractMeta(doc *goquery.Document) (title, description, hero string) {
	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = metaContent(doc, `meta[property="og:title"]`)
	}

	description = metaContent(doc, `meta[name="description"]`)
	if description == "" {
		description = metaContent(doc, `meta[property="og:description"]`)
	}

	hero = StripTags(strings.TrimSpace(doc.Find("h1").First().Text()))
	if hero == "" {
		hero = metaContent(doc, `meta[property="og:site_name"]`)
	}
	return title, description, hero
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// scanHeadingSections captures the markup between each <h1>–<h3> and the
// next heading (or end of input). Regex scanning is deliberate: source pages
// are often partial or malformed and must never abort extraction.
func scanHeadingSections(html string) []headingSection {
	locs := headingRe.FindAllStringSubmatchIndex(html, -1)
	sections := make([]headingSection, 0, len(locs))
	for i, loc := range locs {
		title := StripTags(html[loc[2]:loc[3]])
		bodyStart := loc[1]
		bodyEnd := len(html)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		sections = append(sections, headingSection{title: title, body: html[bodyStart:bodyEnd]})
	}
	return sections
}

func collectHeadings(sections []headingSection, vocab Vocabulary) []string {
	var out []string
	for _, hs := range sections {
		t := hs.title
		if t == "" || len(t) > 80 {
			continue
		}
		if vocab.isNavLabel(t) || looksLikeCode(t) {
			continue
		}
		out = append(out, t)
		if len(out) == maxHeadingsPerPage {
			break
		}
	}
	return out
}

func collectListItems(doc *goquery.Document, vocab Vocabulary) []string {
	if doc == nil {
		return nil
	}
	var out []string
	doc.Find("li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := StripTags(s.Text())
		if len(t) <= 20 || len(t) >= 200 {
			return true
		}
		if vocab.isNavLabel(t) || looksLikeCode(t) {
			return true
		}
		out = append(out, t)
		return len(out) < maxListItemsPerPage
	})
	return out
}

// buildOfferings merges heading and list-item candidates into the final
// offerings list: re-cleaned, case-insensitively deduplicated, word-bounded
// and capped.
func buildOfferings(headings, items []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, raw := range append(append([]string{}, headings...), items...) {
		t := StripTags(raw)
		if t == "" || len(strings.Fields(t)) >= maxOfferingWords {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if len(out) == maxOfferingsPerPage {
			break
		}
	}
	return out
}

func fillHighlights(sec *ScrapedSection, sections []headingSection, vocab Vocabulary) {
	seenProduct := make(map[string]struct{})
	seenPricing := make(map[string]struct{})
	seenFAQ := make(map[string]struct{})

	for _, hs := range sections {
		bodyText := Sanitize(hs.body)
		if bodyText == "" {
			continue
		}

		isOffer := matchesAny(hs.title, vocab.OfferKeywords) || matchesAny(bodyText, vocab.OfferKeywords)
		isPricing := matchesAny(hs.title, vocab.PriceKeywords) || priceTokenRe.MatchString(bodyText)
		isFAQ := matchesAny(hs.title, vocab.FAQKeywords)
		if !isOffer && !isPricing && !isFAQ {
			continue
		}

		for _, line := range sectionLines(hs) {
			if isOffer {
				appendBounded(&sec.ProductHighlights, seenProduct, productLine(line), maxProductPerPage)
			}
			if isPricing {
				appendBounded(&sec.PricingHighlights, seenPricing, pricingLine(line), maxPricingPerPage)
			}
			if isFAQ {
				appendBounded(&sec.FAQHighlights, seenFAQ, faqLine(line), maxFAQPerPage)
			}
		}
	}
}

// sectionLines prefers explicit list items inside the section body; pages
// without lists fall back to a capped set of sentence fragments.
func sectionLines(hs headingSection) []string {
	var lines []string
	for _, m := range listItemRe.FindAllStringSubmatch(hs.body, -1) {
		if t := StripTags(m[1]); t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) > 0 {
		return lines
	}
	for _, frag := range sentenceSplitRe.Split(Sanitize(hs.body), -1) {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		lines = append(lines, frag)
		if len(lines) == 6 {
			break
		}
	}
	return lines
}

func productLine(line string) string {
	if len(line) <= 15 || len(line) >= 220 {
		return ""
	}
	return line
}

func pricingLine(line string) string {
	if priceTokenRe.MatchString(line) {
		return line
	}
	if len(line) > 10 && len(line) < 160 {
		return line
	}
	return ""
}

// faqLine normalizes a candidate into a joined "Q? A" entry. Lines without a
// question mark are kept only when long enough to plausibly be a complete
// FAQ entry on their own.
func faqLine(line string) string {
	if i := strings.Index(line, "?"); i >= 0 {
		q := strings.TrimSpace(line[:i])
		a := strings.TrimSpace(line[i+1:])
		if q == "" {
			return ""
		}
		if a == "" {
			return q + "?"
		}
		return q + "? " + a
	}
	if len(line) > 40 {
		return line
	}
	return ""
}

func appendBounded(dst *[]string, seen map[string]struct{}, line string, max int) {
	if line == "" || len(*dst) >= max {
		return
	}
	key := strings.ToLower(line)
	if _, dup := seen[key]; dup {
		return
	}
	seen[key] = struct{}{}
	*dst = append(*dst, line)
}

func hoursFromSections(sections []headingSection, vocab Vocabulary) string {
	for _, hs := range sections {
		if !matchesAny(hs.title, vocab.HourKeywords) {
			continue
		}
		if m := bareTimeRangeRe.FindString(Sanitize(hs.body)); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

var codeFragmentHints = []string{"function(", "=>", "queryselector", "addeventlistener", "{", "}", "</", "var ", "const ", "let "}

func looksLikeCode(text string) bool {
	lower := strings.ToLower(text)
	for _, hint := range codeFragmentHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
