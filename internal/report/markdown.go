package report

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"

	"github.com/jpalmerr/sitecheck"
)

// MarkdownWriter renders rounds as GitHub-flavored markdown, suitable for
// pasting into issues or job summaries.
type MarkdownWriter struct {
	output io.Writer
	opts   options
}

// WriteRound renders one section per round.
func (w *MarkdownWriter) WriteRound(round sitecheck.Round) error {
	md := markdown.NewMarkdown(w.output)

	if w.opts.roundHeaders {
		md.H2(fmt.Sprintf("Round %d", round.Number))
	} else {
		md.H2("Site check")
	}
	md.PlainText("")
	md.PlainText(fmt.Sprintf("Started %s, took %d ms.",
		round.StartedAt.Format("2006-01-02 15:04:05 MST"), round.Duration.Milliseconds()))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: columns,
		Rows:   rows(round),
	})
	md.PlainText("")
	md.PlainText("**" + SummaryLine(round) + "**")
	md.PlainText("")

	return md.Build()
}
