package scrape

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractPhonesAndEmails(t *testing.T) {
	text := "Zadzwoń: +48 123 456 789 lub napisz na kontakt@firma.pl"

	phones := ExtractPhones(text)
	if len(phones) != 1 || phones[0] != "+48 123 456 789" {
		t.Errorf("ExtractPhones = %v; want [+48 123 456 789]", phones)
	}

	emails := ExtractEmails(text)
	if len(emails) != 1 || emails[0] != "kontakt@firma.pl" {
		t.Errorf("ExtractEmails = %v; want [kontakt@firma.pl]", emails)
	}
}

func TestExtractPhonesCapAndDedupe(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "tel %d: 600 100 20%d ", i, i)
	}
	b.WriteString("i jeszcze raz 600 100 200 ")

	phones := ExtractPhones(b.String())
	if len(phones) > maxPhonesPerPage {
		t.Errorf("got %d phones, cap is %d", len(phones), maxPhonesPerPage)
	}
	seen := make(map[string]struct{})
	for _, p := range phones {
		if _, dup := seen[p]; dup {
			t.Errorf("duplicate phone %q in %v", p, phones)
		}
		seen[p] = struct{}{}
	}
}

func TestExtractEmailsDedupeCaseInsensitive(t *testing.T) {
	emails := ExtractEmails("Biuro@Firma.pl oraz biuro@firma.pl oraz info@firma.pl oraz extra@firma.pl")
	if len(emails) != maxEmailsPerPage {
		t.Fatalf("got %v; want exactly %d entries", emails, maxEmailsPerPage)
	}
	if emails[0] != "Biuro@Firma.pl" {
		t.Errorf("first spelling not preserved: %v", emails)
	}
}

func TestExtractBusinessHours(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "polish day range beats bare time",
			in:   "Pon-Pt 9:00-17:00, Sob 10:00-14:00",
			want: "Pon-Pt 9:00-17:00",
		},
		{
			name: "english day range",
			in:   "We are open Mon-Fri 8:30-16:00 every week",
			want: "Mon-Fri 8:30-16:00",
		},
		{
			name: "bare time range fallback",
			in:   "Zapraszamy codziennie 10:00-18:00 bez wyjątku",
			want: "10:00-18:00",
		},
		{
			name: "nothing found",
			in:   "Zadzwoń do nas w godzinach pracy",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBusinessHours(tt.in); got != tt.want {
				t.Errorf("ExtractBusinessHours(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractAddress(t *testing.T) {
	vocab := DefaultVocabulary()

	tests := []struct {
		name string
		in   string
		want bool
		frag string
	}{
		{
			name: "polish street designator",
			in:   "Znajdziesz nas pod adresem ul. Kwiatowa 15, 00-001 Warszawa. Zapraszamy!",
			want: true,
			frag: "Kwiatowa 15",
		},
		{
			name: "english street",
			in:   "Visit us at 12 Baker Street London any time. See you soon.",
			want: true,
			frag: "Baker Street",
		},
		{
			name: "no address",
			in:   "Najlepsza kawa w mieście. Zapraszamy serdecznie.",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAddress(tt.in, vocab.StreetTokens)
			if tt.want && (got == "" || !strings.Contains(got, tt.frag)) {
				t.Errorf("ExtractAddress(%q) = %q; want a line containing %q", tt.in, got, tt.frag)
			}
			if !tt.want && got != "" {
				t.Errorf("ExtractAddress(%q) = %q; want empty", tt.in, got)
			}
		})
	}
}
