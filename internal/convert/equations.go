package convert

import (
	"regexp"
	"strings"
)

// Row shapes ConvertTables produces for LaTeXML equation tables once math has
// been extracted: an empty pad cell, the formula cell(s), another empty pad
// cell and the "(N)" number cell.
var (
	// | | $$F$$ | | (N) |
	blockEquationRow = regexp.MustCompile(`^\|\s*\|\s*\$\$([^$]+)\$\$\s*\|\s*\|\s*\((\d+)\)\s*\|$`)
	// | | $\displaystyle L$ | $\displaystyle R$ | | (N) |
	alignedHeadRow = regexp.MustCompile(`^\|\s*\|\s*\$\\displaystyle\s*([^$]+)\$\s*\|\s*\$\\displaystyle\s*([^$]+)\$\s*\|\s*\|\s*\((\d+)\)\s*\|`)
	// | | | $\displaystyle R$ | | (N) |
	alignedContinuationRow = regexp.MustCompile(`^\|\s*\|\s*\|\s*\$\\displaystyle\s*([^$]+)\$\s*\|\s*\|\s*\((\d+)\)\s*\|`)
	// | | $\displaystyle F$ | | (N) |
	displayEquationRow = regexp.MustCompile(`^\|\s*\|\s*\$\\displaystyle\s*([^$]+)\$\s*\|\s*\|\s*\((\d+)\)\s*\|`)
)

type equationState int

const (
	scanning equationState = iota
	accumulatingAlignedBlock
)

// alignedRow is one line of an aligned block. lhs is empty on continuation
// rows.
type alignedRow struct {
	lhs, rhs, num string
}

type equationScanner struct {
	lines []string
	i     int
	state equationState
	block []alignedRow
	out   []string
}

// RebuildEquations turns the pipe-table rows left behind by numbered display
// equations back into display math tagged with the equation number. A
// two-cell row followed by one-cell continuation rows becomes a single
// aligned block with one \tag per line. Table separators belonging to a
// rebuilt equation are dropped; every other line passes through.
func RebuildEquations(doc string) string {
	s := &equationScanner{lines: strings.Split(doc, "\n")}
	return strings.Join(s.run(), "\n")
}

func (s *equationScanner) run() []string {
	for s.i < len(s.lines) {
		switch s.state {
		case scanning:
			s.scan()
		case accumulatingAlignedBlock:
			s.accumulate()
		}
	}
	if s.state == accumulatingAlignedBlock {
		s.emitAligned()
	}
	return s.out
}

func (s *equationScanner) scan() {
	line := s.lines[s.i]
	t := strings.TrimSpace(line)

	if m := blockEquationRow.FindStringSubmatch(t); m != nil {
		s.emitTagged(strings.TrimSpace(m[1]), m[2])
		return
	}
	if m := alignedHeadRow.FindStringSubmatch(t); m != nil {
		s.block = append(s.block[:0], alignedRow{
			lhs: strings.TrimSpace(m[1]),
			rhs: stripCommentArtifacts(m[2]),
			num: m[3],
		})
		s.i++
		s.skipSeparator()
		s.state = accumulatingAlignedBlock
		return
	}
	if m := displayEquationRow.FindStringSubmatch(t); m != nil {
		s.emitTagged(stripCommentArtifacts(m[1]), m[2])
		return
	}
	if isSeparatorLine(t) && s.lastWasEquation() {
		s.i++
		return
	}
	s.out = append(s.out, line)
	s.i++
}

func (s *equationScanner) accumulate() {
	m := alignedContinuationRow.FindStringSubmatch(strings.TrimSpace(s.lines[s.i]))
	if m == nil {
		s.emitAligned()
		return
	}
	s.block = append(s.block, alignedRow{rhs: stripCommentArtifacts(m[1]), num: m[2]})
	s.i++
}

func (s *equationScanner) emitTagged(formula, num string) {
	s.out = append(s.out, "$$"+formula+"$$ \\tag{"+num+"}")
	s.i++
	s.skipSeparator()
}

func (s *equationScanner) emitAligned() {
	s.out = append(s.out, "$$", `\begin{aligned}`)
	last := len(s.block) - 1
	for j, r := range s.block {
		line := "&" + r.rhs + ` \tag{` + r.num + `}`
		if j == 0 {
			line = r.lhs + " " + line
		}
		if j < last {
			line += ` \\`
		}
		s.out = append(s.out, line)
	}
	s.out = append(s.out, `\end{aligned}`, "$$")
	s.block = s.block[:0]
	s.state = scanning
}

func (s *equationScanner) skipSeparator() {
	if s.i < len(s.lines) && strings.HasPrefix(strings.TrimSpace(s.lines[s.i]), "|---") {
		s.i++
	}
}

func (s *equationScanner) lastWasEquation() bool {
	if len(s.out) == 0 {
		return false
	}
	last := s.out[len(s.out)-1]
	return strings.Contains(last, `\tag{`) || last == "$$"
}

func isSeparatorLine(t string) bool {
	return strings.HasPrefix(t, "|---")
}

// stripCommentArtifacts drops unescaped LaTeX comment characters (and the
// whitespace after them) that LaTeXML leaves at aligned line ends. An escaped
// \% is kept.
func stripCommentArtifacts(tex string) string {
	var b strings.Builder
	for i := 0; i < len(tex); i++ {
		c := tex[i]
		if c == '%' && (i == 0 || tex[i-1] != '\\') {
			for i+1 < len(tex) && isSpace(tex[i+1]) {
				i++
			}
			continue
		}
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
