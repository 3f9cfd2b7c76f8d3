package scrape

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMergeSectionsFirstWins(t *testing.T) {
	sections := []*ScrapedSection{
		nil,
		{
			Title:         "Acme",
			Hero:          "Witamy w Acme",
			BusinessHours: "Pon-Pt 9:00-17:00",
			Text:          "strona główna",
			SourcePath:    "/",
		},
		{
			Title:         "Acme Pricing",
			Description:   "Cennik usług Acme",
			BusinessHours: "Pon-Sob 8:00-20:00",
			Text:          "cennik",
			SourcePath:    "/cennik",
		},
	}

	agg := MergeSections(sections)
	if agg.Title != "Acme" {
		t.Errorf("Title = %q; want first page's value", agg.Title)
	}
	if agg.Description != "Cennik usług Acme" {
		t.Errorf("Description = %q; want first non-empty value", agg.Description)
	}
	if agg.BusinessHours != "Pon-Pt 9:00-17:00" {
		t.Errorf("BusinessHours = %q", agg.BusinessHours)
	}
	if agg.Text != "strona główna" {
		t.Errorf("Text = %q", agg.Text)
	}
}

func TestMergeSectionsDedupeAndCaps(t *testing.T) {
	first := &ScrapedSection{
		Offerings:  []string{"Strzyżenie", "Koloryzacja"},
		Phones:     []string{"+48 123 456 789"},
		SourcePath: "/",
	}
	second := &ScrapedSection{
		Offerings:  []string{"strzyżenie", "Manicure"},
		Phones:     []string{"+48 123 456 789", "+48 600 700 800", "+48 601 701 801", "+48 602 702 802"},
		SourcePath: "/oferta",
	}

	agg := MergeSections([]*ScrapedSection{first, second})

	want := []string{"Strzyżenie", "Koloryzacja", "Manicure"}
	if len(agg.Offerings) != len(want) {
		t.Fatalf("Offerings = %v; want %v", agg.Offerings, want)
	}
	for i, o := range want {
		if agg.Offerings[i] != o {
			t.Errorf("Offerings[%d] = %q; want %q", i, agg.Offerings[i], o)
		}
	}
	if len(agg.Phones) != MaxPhones {
		t.Errorf("Phones = %v; want capped at %d", agg.Phones, MaxPhones)
	}
}

func TestMergeSectionsHighlightProvenance(t *testing.T) {
	sections := []*ScrapedSection{
		{PricingHighlights: []string{"Strzyżenie od 80 zł"}, SourcePath: "/pricing"},
		{PricingHighlights: []string{"strzyżenie od 80 zł", "Koloryzacja od 200 zł"}, SourcePath: "/cennik"},
	}

	agg := MergeSections(sections)
	if len(agg.PricingHighlights) != 2 {
		t.Fatalf("PricingHighlights = %v", agg.PricingHighlights)
	}
	if agg.PricingHighlights[0].Source != "/pricing" {
		t.Errorf("first highlight source = %q", agg.PricingHighlights[0].Source)
	}
	if agg.PricingHighlights[1] != (Highlight{Text: "Koloryzacja od 200 zł", Source: "/cennik"}) {
		t.Errorf("second highlight = %+v", agg.PricingHighlights[1])
	}
}

func TestMergeSectionsEmptyInput(t *testing.T) {
	agg := MergeSections(nil)
	if agg == nil {
		t.Fatal("MergeSections(nil) returned nil")
	}
	if agg.Title != "" || len(agg.Offerings) != 0 {
		t.Errorf("empty merge produced content: %+v", agg)
	}
}

func TestRenderMarkdownSections(t *testing.T) {
	agg := &AggregatedContext{
		Title:             "Salon Iskra",
		Description:       "Fryzjerstwo w Krakowie",
		Hero:              "Piękno zaczyna się u nas",
		Offerings:         []string{"Strzyżenie damskie"},
		PricingHighlights: []Highlight{{Text: "Strzyżenie od 80 zł", Source: "/pricing"}},
		Phones:            []string{"+48 123 456 789"},
		Emails:            []string{"recepcja@iskra.pl"},
		Address:           "ul. Kwiatowa 15, Kraków",
		BusinessHours:     "Pon-Pt 9:00-17:00",
		Text:              "pełny tekst strony",
	}

	md := RenderMarkdown(agg)
	for _, want := range []string{
		"## Brand snapshot",
		"- Name: Salon Iskra",
		"- Tagline: Piękno zaczyna się u nas",
		"## Offerings",
		"- Strzyżenie damskie",
		"## Pricing",
		"- Strzyżenie od 80 zł (source: /pricing)",
		"## Business hours",
		"- Pon-Pt 9:00-17:00",
		"## Contact",
		"- Phone: +48 123 456 789",
		"- Email: recepcja@iskra.pl",
		"- Address: ul. Kwiatowa 15, Kraków",
		"## Website excerpt",
		"pełny tekst strony",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## FAQ") || strings.Contains(md, "## Offer details") {
		t.Errorf("markdown contains empty sections:\n%s", md)
	}
}

func TestRenderMarkdownTruncatesExcerpt(t *testing.T) {
	agg := &AggregatedContext{Text: strings.Repeat("ż", 2000)}
	md := RenderMarkdown(agg)

	if !strings.HasSuffix(md, "…") {
		t.Fatalf("truncated excerpt has no ellipsis: %q", md[len(md)-20:])
	}
	excerpt := strings.TrimPrefix(md, "## Website excerpt\n")
	if len(excerpt) > maxExcerptLen+len("…") {
		t.Errorf("excerpt length %d exceeds limit", len(excerpt))
	}
	if !strings.HasPrefix(excerpt, "ż") {
		t.Errorf("excerpt mangled: %q", excerpt[:10])
	}
}

func TestRenderMarkdownExcerptKeepsTextAfterInvalidByte(t *testing.T) {
	// Mis-encoded pages (e.g. ISO-8859-2 served as UTF-8) carry stray
	// invalid bytes; they must not eat the rest of the excerpt budget.
	agg := &AggregatedContext{Text: "aaaaaaaaaa" + "\xff" + strings.Repeat("b", 2000)}
	md := RenderMarkdown(agg)

	excerpt := strings.TrimPrefix(md, "## Website excerpt\n")
	if len(excerpt) < maxExcerptLen-4 {
		t.Fatalf("excerpt length %d; want close to %d", len(excerpt), maxExcerptLen)
	}
	if !strings.Contains(excerpt, "bbbbbbbbbb") {
		t.Errorf("text after the invalid byte was dropped: %q", excerpt[:40])
	}
}

func TestRenderMarkdownTruncateSplitRune(t *testing.T) {
	agg := &AggregatedContext{Text: strings.Repeat("a", maxExcerptLen-1) + strings.Repeat("ż", 10)}
	md := RenderMarkdown(agg)

	excerpt := strings.TrimPrefix(md, "## Website excerpt\n")
	if !utf8.ValidString(excerpt) {
		t.Fatalf("excerpt contains a split rune: %q", excerpt[len(excerpt)-10:])
	}
	if !strings.HasSuffix(excerpt, "…") {
		t.Errorf("excerpt not marked truncated: %q", excerpt[len(excerpt)-10:])
	}
}

func TestStructuredFromAggregate(t *testing.T) {
	agg := &AggregatedContext{
		Title:             "Acme",
		ProductHighlights: []Highlight{{Text: "Szybka realizacja zamówień", Source: "/o-nas"}},
		Phones:            []string{"+48 123 456 789"},
	}

	data := StructuredFromAggregate(agg)
	if data.Title != "Acme" {
		t.Errorf("Title = %q", data.Title)
	}
	if len(data.ProductHighlights) != 1 || data.ProductHighlights[0] != "Szybka realizacja zamówień" {
		t.Errorf("ProductHighlights = %v; want bare text without source", data.ProductHighlights)
	}
	if data.PricingHighlights != nil {
		t.Errorf("PricingHighlights = %v; want nil for empty input", data.PricingHighlights)
	}

	if StructuredFromAggregate(nil) != nil {
		t.Error("StructuredFromAggregate(nil) != nil")
	}
}
