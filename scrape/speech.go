package scrape

import (
	"fmt"
	"regexp"
	"strings"
)

// SpeechLocale holds the spoken replacements for email punctuation. The
// product is Polish-first, so the default table speaks Polish.
type SpeechLocale struct {
	At         string
	Dot        string
	Hyphen     string
	Underscore string
}

// PolishSpeech returns the spoken-token table for Polish.
func PolishSpeech() SpeechLocale {
	return SpeechLocale{At: "małpa", Dot: "kropka", Hyphen: "myślnik", Underscore: "podkreślnik"}
}

// EnglishSpeech returns the spoken-token table for English.
func EnglishSpeech() SpeechLocale {
	return SpeechLocale{At: "at", Dot: "dot", Hyphen: "dash", Underscore: "underscore"}
}

var digitGroupRe = regexp.MustCompile(`\d{3}`)

// SpeakablePhone inserts a pause marker after every run of three digits so a
// speech synthesizer reads the number in groups instead of one long string.
// Digits are not spelled out as words; the synthesizer verbalizes them.
func SpeakablePhone(phone string) string {
	s := digitGroupRe.ReplaceAllString(phone, "$0, ")
	s = strings.TrimRight(s, ", ")
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// SpeakableEmail rewrites an address into spoken tokens, e.g.
// "biuro@firma.pl" -> "biuro małpa firma kropka pl" for the Polish table.
func SpeakableEmail(email string, loc SpeechLocale) string {
	r := strings.NewReplacer(
		"@", " "+loc.At+" ",
		".", " "+loc.Dot+" ",
		"-", " "+loc.Hyphen+" ",
		"_", " "+loc.Underscore+" ",
	)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(r.Replace(email), " "))
}

// BuildReceptionistKnowledgeContext assembles the TTS-friendly knowledge
// document handed to the conversational agent's prompt. Pure formatting, no
// I/O; phones and emails pass through the speech rewriting above.
func BuildReceptionistKnowledgeContext(data *StructuredWebsiteData, loc SpeechLocale) string {
	if data == nil {
		return ""
	}
	var b strings.Builder

	if data.Title != "" {
		fmt.Fprintf(&b, "# %s\n", data.Title)
	}
	if data.Description != "" {
		fmt.Fprintf(&b, "%s\n", data.Description)
	}
	if data.Hero != "" {
		fmt.Fprintf(&b, "%s\n", data.Hero)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}

	writeLines(&b, "Oferta", data.Offerings)
	writeLines(&b, "Szczegóły oferty", data.ProductHighlights)
	writeLines(&b, "Cennik", data.PricingHighlights)
	writeLines(&b, "Najczęstsze pytania", data.FAQHighlights)

	if data.BusinessHours != "" {
		fmt.Fprintf(&b, "## Godziny otwarcia\n- %s\n\n", data.BusinessHours)
	}

	if len(data.Phones) > 0 || len(data.Emails) > 0 || data.Address != "" {
		b.WriteString("## Kontakt\n")
		for _, p := range data.Phones {
			fmt.Fprintf(&b, "- Telefon: %s\n", SpeakablePhone(p))
		}
		for _, e := range data.Emails {
			fmt.Fprintf(&b, "- E-mail: %s\n", SpeakableEmail(e, loc))
		}
		if data.Address != "" {
			fmt.Fprintf(&b, "- Adres: %s\n", data.Address)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

func writeLines(b *strings.Builder, name string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n", name)
	for _, l := range lines {
		fmt.Fprintf(b, "- %s\n", l)
	}
	b.WriteString("\n")
}
