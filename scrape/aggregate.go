package scrape

import "strings"

// Post-merge caps for the aggregate. Tighter than the per-page caps so the
// final context stays bounded regardless of how many pages were fetched.
const (
	MaxOfferings         = 10
	MaxProductHighlights = 8
	MaxPricingHighlights = 6
	MaxFAQHighlights     = 6
	MaxPhones            = 3
	MaxEmails            = 2
)

// Highlight is one curated line plus the path of the page it came from.
type Highlight struct {
	Text   string
	Source string
}

// AggregatedContext is the fold of all ScrapedSections for one site:
// single-valued fields take the first non-empty value in page order,
// list fields are the deduplicated, capped union across pages.
type AggregatedContext struct {
	Title       string
	Description string
	Hero        string

	Offerings         []string
	ProductHighlights []Highlight
	PricingHighlights []Highlight
	FAQHighlights     []Highlight

	Phones        []string
	Emails        []string
	Address       string
	BusinessHours string

	Text string
}

// MergeSections folds per-page sections into one aggregate. Input order is
// fetch order; the origin page is fetched first, so first-wins semantics
// keep it authoritative for single-valued fields. Nil sections are skipped.
func MergeSections(sections []*ScrapedSection) *AggregatedContext {
	agg := &AggregatedContext{}
	offerings := newBoundedSet(MaxOfferings)
	phones := newBoundedSet(MaxPhones)
	emails := newBoundedSet(MaxEmails)
	product := newBoundedHighlights(MaxProductHighlights)
	pricing := newBoundedHighlights(MaxPricingHighlights)
	faq := newBoundedHighlights(MaxFAQHighlights)

	for _, sec := range sections {
		if sec == nil {
			continue
		}
		takeFirst(&agg.Title, sec.Title)
		takeFirst(&agg.Description, sec.Description)
		takeFirst(&agg.Hero, sec.Hero)
		takeFirst(&agg.Address, sec.Address)
		takeFirst(&agg.BusinessHours, sec.BusinessHours)
		takeFirst(&agg.Text, sec.Text)

		offerings.addAll(sec.Offerings)
		phones.addAll(sec.Phones)
		emails.addAll(sec.Emails)
		product.addAll(sec.ProductHighlights, sec.SourcePath)
		pricing.addAll(sec.PricingHighlights, sec.SourcePath)
		faq.addAll(sec.FAQHighlights, sec.SourcePath)
	}

	agg.Offerings = offerings.values
	agg.Phones = phones.values
	agg.Emails = emails.values
	agg.ProductHighlights = product.values
	agg.PricingHighlights = pricing.values
	agg.FAQHighlights = faq.values
	return agg
}

func takeFirst(dst *string, candidate string) {
	if *dst == "" {
		*dst = strings.TrimSpace(candidate)
	}
}

// boundedSet keeps insertion order, deduplicates case-insensitively and
// stops accepting entries at its cap.
type boundedSet struct {
	max    int
	seen   map[string]struct{}
	values []string
}

func newBoundedSet(max int) *boundedSet {
	return &boundedSet{max: max, seen: make(map[string]struct{})}
}

func (s *boundedSet) addAll(items []string) {
	for _, item := range items {
		if len(s.values) >= s.max {
			return
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		s.values = append(s.values, item)
	}
}

type boundedHighlights struct {
	max    int
	seen   map[string]struct{}
	values []Highlight
}

func newBoundedHighlights(max int) *boundedHighlights {
	return &boundedHighlights{max: max, seen: make(map[string]struct{})}
}

func (s *boundedHighlights) addAll(lines []string, source string) {
	for _, line := range lines {
		if len(s.values) >= s.max {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		s.values = append(s.values, Highlight{Text: line, Source: source})
	}
}
