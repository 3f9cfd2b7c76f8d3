package sitecontext

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var origin string

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<urlset>
<url><loc>%s/</loc></url>
<url><loc>%s/cennik</loc></url>
<url><loc>%s/kontakt</loc></url>
</urlset>`, origin, origin, origin)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Salon Iskra</title>
<meta name="description" content="Fryzjerstwo w Krakowie"></head>
<body><h1>Piękno zaczyna się u nas</h1>
<h2>Nasze usługi</h2><ul><li>Strzyżenie damskie i modelowanie włosów</li></ul>
</body></html>`)
	})
	mux.HandleFunc("/cennik", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Cennik - Salon Iskra</title></head>
<body><h2>Cennik usług</h2><ul><li>Strzyżenie damskie od 80 zł</li></ul></body></html>`)
	})
	mux.HandleFunc("/kontakt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h2>Kontakt</h2>
<p>Telefon: +48 123 456 789, mail: recepcja@iskra.pl</p>
<p>Czynne Pon-Pt 9:00-17:00</p></body></html>`)
	})

	srv := httptest.NewServer(mux)
	origin = srv.URL
	t.Cleanup(srv.Close)
	return srv
}

func TestBuildWebsiteContext(t *testing.T) {
	srv := newTestSite(t)
	svc := New(Options{})

	md, err := svc.BuildWebsiteContext(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("BuildWebsiteContext: %v", err)
	}

	for _, want := range []string{
		"- Name: Salon Iskra",
		"- Tagline: Piękno zaczyna się u nas",
		"- Strzyżenie damskie i modelowanie włosów",
		"- Strzyżenie damskie od 80 zł (source: /cennik)",
		"- Phone: +48 123 456 789",
		"- Email: recepcja@iskra.pl",
		"- Pon-Pt 9:00-17:00",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestGetStructuredWebsiteData(t *testing.T) {
	srv := newTestSite(t)
	svc := New(Options{})

	data, err := svc.GetStructuredWebsiteData(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetStructuredWebsiteData: %v", err)
	}
	if data.Title != "Salon Iskra" {
		t.Errorf("Title = %q; want origin page's title", data.Title)
	}
	if len(data.Phones) != 1 || data.Phones[0] != "+48 123 456 789" {
		t.Errorf("Phones = %v", data.Phones)
	}
	if data.BusinessHours != "Pon-Pt 9:00-17:00" {
		t.Errorf("BusinessHours = %q", data.BusinessHours)
	}
}

func TestBuildWebsiteContextUnreachableSite(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	svc := New(Options{})
	if _, err := svc.BuildWebsiteContext(context.Background(), srv.URL); !errors.Is(err, ErrNoContent) {
		t.Errorf("err = %v; want ErrNoContent", err)
	}
	if _, err := svc.GetStructuredWebsiteData(context.Background(), srv.URL); !errors.Is(err, ErrNoContent) {
		t.Errorf("structured err = %v; want ErrNoContent", err)
	}
}

func TestBuildWebsiteContextBadURL(t *testing.T) {
	svc := New(Options{})
	if _, err := svc.BuildWebsiteContext(context.Background(), ""); err == nil {
		t.Error("want error for empty URL")
	}
	if _, err := svc.BuildWebsiteContext(context.Background(), "ftp://firma.pl"); err == nil {
		t.Error("want error for unsupported scheme")
	}
}

func TestBuildReceptionistKnowledgeContextService(t *testing.T) {
	svc := New(Options{})
	out := svc.BuildReceptionistKnowledgeContext(&StructuredWebsiteData{
		Title:  "Salon Iskra",
		Emails: []string{"recepcja@iskra.pl"},
	})
	if !strings.Contains(out, "recepcja małpa iskra kropka pl") {
		t.Errorf("default speech table not applied:\n%s", out)
	}
}
