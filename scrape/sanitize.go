package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	scriptBlockRe   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRe    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptBlockRe = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	commentRe       = regexp.MustCompile(`(?s)<!--.*?-->`)

	// dataURIRe catches inlined base64/charset image payloads that survive tag stripping.
	dataURIRe   = regexp.MustCompile(`(?i)data:[a-z0-9.+-]+/[a-z0-9.+-]+(?:;[a-z0-9=.+-]+)*,[^\s"'<>)]*`)
	nextImageRe = regexp.MustCompile(`/_next/image\?[^\s"'<>]*`)

	linkAttrRe  = regexp.MustCompile(`(?i)\b(?:src|srcset|href)\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>]+)`)
	eventAttrRe = regexp.MustCompile(`(?i)\bon[a-z]+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>]+)`)
	classAttrRe = regexp.MustCompile(`(?i)\b(?:classname|class)\s*=\s*(?:"[^"]*"|'[^']*')`)

	// Framework code that leaks into text nodes of partial/malformed markup.
	// Stripped by pattern because the source HTML is frequently not parseable.
	jsFragmentRes = []*regexp.Regexp{
		regexp.MustCompile(`function\s*[\w$]*\s*\([^()]*\)\s*\{[^{}]*\}`),
		regexp.MustCompile(`\([^()]*\)\s*=>\s*\{[^{}]*\}`),
		regexp.MustCompile(`[\w$]+\s*=>\s*\{[^{}]*\}`),
		regexp.MustCompile(`document\.[\w$]+\([^()]*\)(?:\s*\.[\w$]+\([^()]*\))*\s*;?`),
		regexp.MustCompile(`[\w$.]+\.(?:addEventListener|removeEventListener|attachEvent)\([^()]*\)\s*;?`),
		regexp.MustCompile(`(?:window|document)\.[\w$]+\s*=\s*[^;<]{1,80};`),
	}

	tagRe        = regexp.MustCompile(`<[^>]*>`)
	entityRe     = regexp.MustCompile(`&(#[xX]?[0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)
	bareURLRe    = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"']+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

var namedEntities = map[string]string{
	"amp":    "&",
	"lt":     "<",
	"gt":     ">",
	"quot":   `"`,
	"apos":   "'",
	"nbsp":   " ",
	"copy":   "©",
	"reg":    "®",
	"trade":  "™",
	"ndash":  "–",
	"mdash":  "—",
	"hellip": "…",
	"laquo":  "«",
	"raquo":  "»",
	"bull":   "•",
	"middot": "·",
	"oacute": "ó",
	"eacute": "é",
	"Oacute": "Ó",
	"zwnj":   "",
	"shy":    "",
}

// Sanitize converts raw page markup into plain text. It removes script,
// style and noscript blocks, comments, inlined data URIs, link attribute
// values, leaked framework code fragments and class attribute noise, strips
// the remaining tags, decodes entities and collapses whitespace.
//
// An empty result means the page had no usable content; it is not an error.
func Sanitize(raw string) string {
	s := scriptBlockRe.ReplaceAllString(raw, " ")
	s = styleBlockRe.ReplaceAllString(s, " ")
	s = noscriptBlockRe.ReplaceAllString(s, " ")
	s = commentRe.ReplaceAllString(s, " ")
	s = dataURIRe.ReplaceAllString(s, " ")
	s = nextImageRe.ReplaceAllString(s, " ")
	s = linkAttrRe.ReplaceAllString(s, " ")
	s = eventAttrRe.ReplaceAllString(s, " ")
	s = stripCodeFragments(s)
	s = classAttrRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = decodeEntities(s)
	s = bareURLRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripTags is the light variant of Sanitize used for single heading or
// list-item fragments. Same noise categories, no block-level passes.
func StripTags(fragment string) string {
	s := commentRe.ReplaceAllString(fragment, " ")
	s = dataURIRe.ReplaceAllString(s, " ")
	s = nextImageRe.ReplaceAllString(s, " ")
	s = stripCodeFragments(s)
	s = tagRe.ReplaceAllString(s, " ")
	s = decodeEntities(s)
	s = bareURLRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func stripCodeFragments(s string) string {
	for _, re := range jsFragmentRes {
		s = re.ReplaceAllString(s, " ")
	}
	return s
}

// decodeEntities handles numeric (decimal and hex) and common named HTML
// entities. Unknown named entities are replaced with a space rather than
// kept, so broken markup cannot leak "&weirdtoken;" into agent context.
func decodeEntities(s string) string {
	return entityRe.ReplaceAllStringFunc(s, func(m string) string {
		body := m[1 : len(m)-1]
		if strings.HasPrefix(body, "#") {
			digits := body[1:]
			base := 10
			if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
				digits = digits[1:]
				base = 16
			}
			n, err := strconv.ParseInt(digits, base, 32)
			if err != nil || n <= 0 {
				return " "
			}
			return string(rune(n))
		}
		if rep, ok := namedEntities[body]; ok {
			return rep
		}
		if rep, ok := namedEntities[strings.ToLower(body)]; ok {
			return rep
		}
		return " "
	})
}
