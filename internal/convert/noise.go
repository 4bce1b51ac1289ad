package convert

import "regexp"

var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<head\b[^>]*>.*?</head>`),
	regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`),
	regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`),
	regexp.MustCompile(`(?is)<nav\b[^>]*>.*?</nav>`),
	regexp.MustCompile(`(?s)<!--.*?-->`),
	regexp.MustCompile(`(?i)<!DOCTYPE[^>]*>`),
	regexp.MustCompile(`(?i)</?html\b[^>]*>`),
	regexp.MustCompile(`(?i)</?body\b[^>]*>`),
}

// RemoveNoise drops the document head, scripts, styles, navigation, comments,
// the doctype and the html/body wrappers.
func RemoveNoise(doc string) string {
	for _, re := range noisePatterns {
		doc = re.ReplaceAllString(doc, "")
	}
	return doc
}
