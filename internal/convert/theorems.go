package convert

import (
	"regexp"
	"strings"
)

var (
	divEl          = newElement("div")
	theoremHeading = regexp.MustCompile(`(?is)<h6\b[^>]*>(.*?)</h6>`)
	// The same heading after ConvertSemantic has already run.
	theoremMDHeading = regexp.MustCompile(`(?m)^###### (.+)$`)
	paragraphEl      = regexp.MustCompile(`(?s)<p\b[^>]*>(.*?)</p>`)
)

// ConvertTheorems renders theorem-class blocks (definitions, lemmas, proofs
// and the like) as a bold title followed by the block's paragraphs separated
// by blank lines. Paragraph bodies keep their markup for StripTags. Pipe
// tables and display math lying between paragraphs are kept in place.
func ConvertTheorems(doc string) string {
	return divEl.rewrite(doc, func(attrs map[string]string) bool {
		return hasClassPrefix(attrs, "ltx_theorem")
	}, renderTheorem)
}

func renderTheorem(_ map[string]string, inner string) string {
	var title string
	if m := theoremHeading.FindStringSubmatchIndex(inner); m != nil {
		title = flatten(inner[m[2]:m[3]])
		inner = inner[:m[0]] + inner[m[1]:]
	} else if m := theoremMDHeading.FindStringSubmatchIndex(inner); m != nil {
		title = strings.TrimSpace(inner[m[2]:m[3]])
		inner = inner[:m[0]] + inner[m[1]:]
	}

	var bodies []string
	pos := 0
	for _, m := range paragraphEl.FindAllStringSubmatchIndex(inner, -1) {
		bodies = append(bodies, blocksBetween(inner[pos:m[0]])...)
		bodies = append(bodies, inner[m[2]:m[3]])
		pos = m[1]
	}
	bodies = append(bodies, blocksBetween(inner[pos:])...)

	body := strings.Join(bodies, "\n\n")
	if title != "" {
		return "\n\n**" + title + "**\n\n" + body + "\n"
	}
	return "\n" + body + "\n"
}

// blocksBetween collects the Markdown blocks earlier stages left between
// paragraphs: runs of pipe-table lines and display math lines.
func blocksBetween(s string) []string {
	var blocks, run []string
	flush := func() {
		if len(run) > 0 {
			blocks = append(blocks, strings.Join(run, "\n"))
			run = nil
		}
	}
	for _, line := range strings.Split(s, "\n") {
		t := strings.TrimSpace(stripMarkup(line))
		if strings.HasPrefix(t, "|") || strings.HasPrefix(t, "$$") {
			run = append(run, t)
			continue
		}
		flush()
	}
	flush()
	return blocks
}
