// Package convert turns LaTeXML-generated HTML (the arXiv HTML rendering of a
// paper) into Markdown by progressive stripping: ten text-to-text stages run
// in a fixed order, each rewriting the markup it recognises and passing
// everything else through untouched.
//
// Stages never fail. Input they do not recognise survives as literal text, so
// the worst outcome of odd markup is imperfect Markdown, not an error.
//
// Later stages depend on the exact text earlier stages emit:
//
//   - ExtractMath writes block math as "\n\n$$TEX$$\n\n" and inline math as "$TEX$".
//   - ConvertSemantic writes level-6 headings as "\n\n###### TITLE\n\n", which
//     ConvertTheorems accepts as a theorem title.
//   - ConvertFigures leaves algorithm floats alone for ConvertAlgorithms and
//     keeps tables nested in figures for ConvertTables.
//   - ConvertTables writes "| a | b |" rows, a "|---|---|" separator sized by
//     the first row, and a single space for empty cells.
//   - StripTags keeps "(N)" equation numbers.
//   - RebuildEquations recognises the rows the three stages above leave behind
//     for LaTeXML equation tables.
package convert

import (
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Stage is one pass of the pipeline.
type Stage struct {
	Name  string
	Apply func(string) string
}

// stages is the fixed pass order. Reordering breaks the textual contracts
// described in the package documentation.
var stages = [...]Stage{
	{Name: "remove unwanted elements", Apply: RemoveNoise},
	{Name: "handle math expressions", Apply: ExtractMath},
	{Name: "convert semantic tags", Apply: ConvertSemantic},
	{Name: "handle figures", Apply: ConvertFigures},
	{Name: "handle tables", Apply: ConvertTables},
	{Name: "handle algorithms", Apply: ConvertAlgorithms},
	{Name: "handle definitions", Apply: ConvertTheorems},
	{Name: "strip remaining tags", Apply: StripTags},
	{Name: "clean equation tables", Apply: RebuildEquations},
	{Name: "final cleanup", Apply: Cleanup},
}

// Stages returns a copy of the ordered stage list.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages[:])
	return out
}

// StageStat is the size of the document after one stage.
type StageStat struct {
	Name  string
	Chars int
	Tags  int
}

// Pipeline runs the stages over a document. It holds no per-document state
// and is safe for concurrent use.
type Pipeline struct {
	log     zerolog.Logger
	verbose bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for stage diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithVerbose reports stage diagnostics at info level instead of debug.
func WithVerbose(v bool) Option {
	return func(p *Pipeline) { p.verbose = v }
}

// New returns a Pipeline logging to the global zerolog logger unless
// WithLogger is given.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{log: log.Logger}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Convert runs every stage over doc and returns the Markdown.
func (p *Pipeline) Convert(doc string) string {
	out, _ := p.ConvertWithStats(doc)
	return out
}

// ConvertWithStats is Convert plus the size and remaining tag count after
// each stage.
func (p *Pipeline) ConvertWithStats(doc string) (string, []StageStat) {
	stats := make([]StageStat, 0, len(stages))
	content := doc
	for i, st := range stages {
		content = st.Apply(content)
		s := StageStat{Name: st.Name, Chars: utf8.RuneCountInString(content), Tags: CountTags(content)}
		stats = append(stats, s)
		ev := p.log.Debug()
		if p.verbose {
			ev = p.log.Info()
		}
		ev.Int("stage", i+1).Str("name", s.Name).Int("chars", s.Chars).Int("tags", s.Tags).Msg("stage done")
	}
	return content, stats
}

// Convert is a one-shot helper around New(WithVerbose(verbose)).Convert.
func Convert(doc string, verbose bool) string {
	return New(WithVerbose(verbose)).Convert(doc)
}

// CountTags counts the tag-shaped tokens left in s.
func CountTags(s string) int {
	return len(markupTag.FindAllStringIndex(s, -1))
}
