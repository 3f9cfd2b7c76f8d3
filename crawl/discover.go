package crawl

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/tjelz/sitecontext/pkg/urlutil"
)

// MaxPages is the hard cap on URLs selected for one crawl.
const MaxPages = 10

// maxGeneralPages is how many arbitrary same-origin URLs are added on top of
// the keyword groups, so sites with unhelpful paths still get coverage.
const maxGeneralPages = 3

// pathGroup is one keyword-prioritized bucket of the crawl budget.
type pathGroup struct {
	name     string
	max      int
	keywords []string
}

// Path keyword groups in selection order, Polish + English tokens.
var pathGroups = []pathGroup{
	{name: "pricing", max: 2, keywords: []string{"cennik", "cena", "abonament", "pakiety", "pricing", "price", "plans", "plan"}},
	{name: "offerings", max: 3, keywords: []string{"oferta", "uslugi", "usługi", "produkty", "funkcje", "services", "products", "features", "solutions"}},
	{name: "faq", max: 2, keywords: []string{"faq", "pytania", "pomoc", "help", "questions", "support"}},
	{name: "testimonials", max: 1, keywords: []string{"opinie", "referencje", "realizacje", "testimonials", "reviews", "case-stud", "case_stud"}},
	{name: "contact", max: 1, keywords: []string{"kontakt", "contact"}},
}

// Crawler resolves a site's sitemap and selects the bounded page set to
// fetch. It holds no per-site state; one Crawler serves any number of
// concurrent discoveries.
type Crawler struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// NewCrawler wires a Crawler around a Fetcher. A nil logger is replaced
// with a no-op one.
func NewCrawler(fetcher *Fetcher, logger *zap.Logger) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{fetcher: fetcher, logger: logger}
}

// DiscoverPages returns the same-origin URLs worth fetching for a site, the
// origin page always first, keyword-matched pages next, hard-capped at
// MaxPages. With no discoverable sitemap the origin alone is returned.
func (c *Crawler) DiscoverPages(ctx context.Context, origin *url.URL) []string {
	discovered := c.resolveSitemap(ctx, origin)
	return c.selectPages(origin, discovered)
}

func (c *Crawler) selectPages(origin *url.URL, discovered []string) []string {
	picked := []string{origin.String()}
	seen := map[string]struct{}{normalizeKey(origin.String()): {}}

	sameOrigin := make([]string, 0, len(discovered))
	for _, raw := range discovered {
		if urlutil.SameOrigin(origin, raw) {
			sameOrigin = append(sameOrigin, raw)
		}
	}

	for _, group := range pathGroups {
		taken := 0
		for _, raw := range sameOrigin {
			if taken == group.max || len(picked) == MaxPages {
				break
			}
			if _, dup := seen[normalizeKey(raw)]; dup {
				continue
			}
			if !pathMatches(raw, group.keywords) {
				continue
			}
			seen[normalizeKey(raw)] = struct{}{}
			picked = append(picked, raw)
			taken++
		}
	}

	general := 0
	for _, raw := range sameOrigin {
		if general == maxGeneralPages || len(picked) == MaxPages {
			break
		}
		if _, dup := seen[normalizeKey(raw)]; dup {
			continue
		}
		seen[normalizeKey(raw)] = struct{}{}
		picked = append(picked, raw)
		general++
	}

	c.logger.Debug("pages selected",
		zap.String("origin", origin.String()),
		zap.Int("discovered", len(discovered)),
		zap.Int("selected", len(picked)))
	return picked
}

func pathMatches(raw string, keywords []string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, kw := range keywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

// normalizeKey makes dedup insensitive to trailing slashes and case in the
// host part.
func normalizeKey(raw string) string {
	return strings.TrimSuffix(strings.ToLower(raw), "/")
}
