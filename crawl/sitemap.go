package crawl

import (
	"bufio"
	"context"
	"encoding/xml"
	"io"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/tjelz/sitecontext/pkg/urlutil"
)

var robotsSitemapRe = regexp.MustCompile(`(?i)^\s*sitemap:\s*(\S+)`)

// sitemapCandidates returns the sitemap URLs to try, in priority order:
// the conventional /sitemap.xml first, then every Sitemap: line found in
// robots.txt. robots.txt being unreachable is not an error.
func (c *Crawler) sitemapCandidates(ctx context.Context, origin string) []string {
	candidates := []string{origin + "/sitemap.xml"}

	robots, err := c.fetcher.Fetch(ctx, origin+"/robots.txt")
	if err != nil {
		c.logger.Debug("robots.txt unavailable", zap.String("origin", origin), zap.Error(err))
		return candidates
	}

	scanner := bufio.NewScanner(strings.NewReader(robots))
	for scanner.Scan() {
		if m := robotsSitemapRe.FindStringSubmatch(scanner.Text()); m != nil {
			candidate := strings.TrimSpace(m[1])
			if candidate != "" && candidate != candidates[0] {
				candidates = append(candidates, candidate)
			}
		}
	}
	return candidates
}

// resolveSitemap fetches candidates in order and returns the <loc> entries
// of the first one that yields at least one URL. Candidates are not merged;
// the first usable sitemap wins. An empty result means no sitemap was
// discoverable, which callers treat as "crawl the origin alone".
func (c *Crawler) resolveSitemap(ctx context.Context, origin *url.URL) []string {
	for _, candidate := range c.sitemapCandidates(ctx, origin.String()) {
		body, err := c.fetcher.Fetch(ctx, candidate)
		if err != nil {
			continue
		}
		if locs := parseSitemapLocs(body); len(locs) > 0 {
			c.logger.Debug("sitemap resolved",
				zap.String("sitemap", candidate), zap.Int("urls", len(locs)))
			return absoluteLocs(origin, locs)
		}
	}
	return nil
}

// absoluteLocs resolves <loc> entries against the origin. Real sitemaps
// occasionally carry path-only entries; absolute ones pass through as-is.
func absoluteLocs(origin *url.URL, locs []string) []string {
	out := make([]string, 0, len(locs))
	for _, loc := range locs {
		abs, err := urlutil.ToAbsoluteURL(origin, loc)
		if err != nil {
			continue
		}
		out = append(out, abs)
	}
	return out
}

// parseSitemapLocs extracts every <loc> value from sitemap XML. A lenient
// token scan handles both <urlset> and <sitemapindex> documents, and a regex
// fallback covers feeds too broken for the XML decoder.
func parseSitemapLocs(body string) []string {
	var locs []string

	dec := xml.NewDecoder(strings.NewReader(body))
	dec.Strict = false
	inLoc := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			locs = nil
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inLoc = t.Name.Local == "loc"
		case xml.CharData:
			if inLoc {
				if loc := strings.TrimSpace(string(t)); loc != "" {
					locs = append(locs, loc)
				}
			}
		case xml.EndElement:
			inLoc = false
		}
	}

	if len(locs) == 0 {
		for _, m := range sitemapLocFallbackRe.FindAllStringSubmatch(body, -1) {
			if loc := strings.TrimSpace(m[1]); loc != "" {
				locs = append(locs, loc)
			}
		}
	}
	return locs
}

var sitemapLocFallbackRe = regexp.MustCompile(`(?is)<loc>\s*(.*?)\s*</loc>`)
