package scrape

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxExcerptLen bounds the freeform excerpt appended to the Markdown form.
const maxExcerptLen = 1500

// StructuredWebsiteData is the typed, provenance-free view of an aggregate,
// meant for programmatic consumption by the voice-agent knowledge flow.
type StructuredWebsiteData struct {
	Title             string   `json:"title,omitempty"`
	Description       string   `json:"description,omitempty"`
	Hero              string   `json:"hero,omitempty"`
	Offerings         []string `json:"offerings,omitempty"`
	ProductHighlights []string `json:"productHighlights,omitempty"`
	PricingHighlights []string `json:"pricingHighlights,omitempty"`
	FAQHighlights     []string `json:"faqHighlights,omitempty"`
	Phones            []string `json:"phones,omitempty"`
	Emails            []string `json:"emails,omitempty"`
	Address           string   `json:"address,omitempty"`
	BusinessHours     string   `json:"businessHours,omitempty"`
}

// StructuredFromAggregate flattens an aggregate into the typed record,
// dropping the per-line source annotations.
func StructuredFromAggregate(agg *AggregatedContext) *StructuredWebsiteData {
	if agg == nil {
		return nil
	}
	return &StructuredWebsiteData{
		Title:             agg.Title,
		Description:       agg.Description,
		Hero:              agg.Hero,
		Offerings:         agg.Offerings,
		ProductHighlights: highlightTexts(agg.ProductHighlights),
		PricingHighlights: highlightTexts(agg.PricingHighlights),
		FAQHighlights:     highlightTexts(agg.FAQHighlights),
		Phones:            agg.Phones,
		Emails:            agg.Emails,
		Address:           agg.Address,
		BusinessHours:     agg.BusinessHours,
	}
}

func highlightTexts(hs []Highlight) []string {
	if len(hs) == 0 {
		return nil
	}
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Text
	}
	return out
}

// RenderMarkdown produces the free-form context document: fixed named
// sections, each emitted only when it has content, highlight lines annotated
// with the page path they came from, and a bounded freeform excerpt at the
// end.
func RenderMarkdown(agg *AggregatedContext) string {
	if agg == nil {
		return ""
	}
	var b strings.Builder

	if agg.Title != "" || agg.Description != "" || agg.Hero != "" {
		b.WriteString("## Brand snapshot\n")
		writeField(&b, "Name", agg.Title)
		writeField(&b, "Description", agg.Description)
		writeField(&b, "Tagline", agg.Hero)
		b.WriteString("\n")
	}

	if len(agg.Offerings) > 0 {
		b.WriteString("## Offerings\n")
		for _, o := range agg.Offerings {
			fmt.Fprintf(&b, "- %s\n", o)
		}
		b.WriteString("\n")
	}

	writeHighlightSection(&b, "Offer details", agg.ProductHighlights)
	writeHighlightSection(&b, "Pricing", agg.PricingHighlights)

	if agg.BusinessHours != "" {
		b.WriteString("## Business hours\n")
		fmt.Fprintf(&b, "- %s\n\n", agg.BusinessHours)
	}

	if len(agg.Phones) > 0 || len(agg.Emails) > 0 || agg.Address != "" {
		b.WriteString("## Contact\n")
		for _, p := range agg.Phones {
			fmt.Fprintf(&b, "- Phone: %s\n", p)
		}
		for _, e := range agg.Emails {
			fmt.Fprintf(&b, "- Email: %s\n", e)
		}
		writeField(&b, "Address", agg.Address)
		b.WriteString("\n")
	}

	writeHighlightSection(&b, "FAQ", agg.FAQHighlights)

	if agg.Text != "" {
		b.WriteString("## Website excerpt\n")
		b.WriteString(truncate(agg.Text, maxExcerptLen))
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}

func writeHighlightSection(b *strings.Builder, name string, lines []Highlight) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n", name)
	for _, h := range lines {
		if h.Source != "" {
			fmt.Fprintf(b, "- %s (source: %s)\n", h.Text, h.Source)
		} else {
			fmt.Fprintf(b, "- %s\n", h.Text)
		}
	}
	b.WriteString("\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	// Drop a trailing rune the cut sliced in half. At most the last three
	// bytes can belong to a partial sequence; invalid bytes earlier in the
	// text are left alone.
	for i := 0; i < utf8.UTFMax-1 && len(cut) > 0; i++ {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return strings.TrimSpace(cut) + "…"
}
