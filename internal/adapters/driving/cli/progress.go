package cli

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ingestProgress draws a bar on stderr while files are ingested.
// The zero value, and a nil pointer, draw nothing.
type ingestProgress struct {
	bar *progressbar.ProgressBar
}

// newIngestProgress returns a bar when w is a terminal, otherwise nil.
func newIngestProgress(w io.Writer, total int) *ingestProgress {
	f, ok := w.(*os.File)
	if !ok || total <= 0 || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return &ingestProgress{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(f),
			progressbar.OptionSetDescription("ingesting"),
			progressbar.OptionSetWidth(32),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		),
	}
}

func (p *ingestProgress) step(filename string) {
	if p == nil {
		return
	}
	p.bar.Describe(filename)
	_ = p.bar.Add(1)
}

func (p *ingestProgress) finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
