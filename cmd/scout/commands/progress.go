package commands

import (
	"fmt"
	"io"

	"github.com/productscout/backend/internal/domain"
	"github.com/schollz/progressbar/v3"
)

// progress renders one step per processed query
type progress struct {
	bar     *progressbar.ProgressBar
	matched int
}

func newProgress(w io.Writer, total int, disabled bool) *progress {
	if disabled {
		return &progress{}
	}
	bar := progressbar.NewOptions(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("matching"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("queries"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &progress{bar: bar}
}

func (p *progress) Add(r *domain.ProductReport) {
	if r.Matched {
		p.matched++
	}
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("matching (%d found)", p.matched))
	_ = p.bar.Add(1)
}

func (p *progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
