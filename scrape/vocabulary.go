package scrape

import "strings"

// Vocabulary carries the locale-specific keyword sets that drive section
// bucketing, nav-label exclusion and the hour-heading fallback. The default
// set is Polish-first with English equivalents; callers targeting other
// locales supply their own.
type Vocabulary struct {
	// OfferKeywords mark a heading-bounded section as product/service copy.
	OfferKeywords []string
	// PriceKeywords mark a section as pricing copy.
	PriceKeywords []string
	// FAQKeywords mark a section as question/answer copy.
	FAQKeywords []string
	// HourKeywords mark a section likely to contain opening hours.
	HourKeywords []string
	// NavExclusions are generic navigation labels dropped from offerings.
	NavExclusions []string
	// StreetTokens are street designators used for address detection.
	StreetTokens []string
}

// DefaultVocabulary returns the built-in Polish + English keyword sets.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		OfferKeywords: []string{
			"oferta", "usługi", "uslugi", "produkty", "funkcje", "możliwości", "mozliwosci",
			"rozwiązania", "rozwiazania", "dla kogo", "co oferujemy", "zakres",
			"services", "products", "features", "solutions", "what we do", "offerings",
		},
		PriceKeywords: []string{
			"cennik", "cena", "ceny", "koszt", "abonament", "pakiet", "plan",
			"pricing", "price", "plans", "cost", "subscription", "tariff",
		},
		FAQKeywords: []string{
			"faq", "pytania", "najczęściej zadawane", "najczesciej zadawane", "pomoc",
			"questions", "q&a", "help",
		},
		HourKeywords: []string{
			"godziny", "otwarcia", "czynne", "pracujemy",
			"hours", "opening", "open",
		},
		NavExclusions: []string{
			"produkty", "oferta", "o nas", "kontakt", "blog", "strona główna", "strona glowna",
			"menu", "regulamin", "polityka prywatności", "polityka prywatnosci", "zaloguj", "rejestracja",
			"products", "about", "about us", "contact", "home", "login", "sign up", "sign in",
			"privacy policy", "terms", "cookies",
		},
		StreetTokens: []string{
			"ul", "ulica", "al", "aleja", "pl", "plac", "os", "osiedle",
			"street", "st", "ave", "avenue", "road", "rd", "lane", "blvd",
		},
	}
}

// matchesAny reports whether the lowercased text contains any keyword.
func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// isNavLabel reports whether a heading or list item is a bare navigation
// label rather than content. Exact matches always count; short fragments
// that merely contain an excluded label count too.
func (v Vocabulary) isNavLabel(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, ex := range v.NavExclusions {
		if lower == ex {
			return true
		}
		if len(strings.Fields(lower)) <= 2 && strings.Contains(lower, ex) {
			return true
		}
	}
	return false
}
