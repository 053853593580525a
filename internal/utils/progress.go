package utils

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Progress bar descriptions of the two pipeline stages
const (
	DescExtracting = "Extracting"
	DescProcessing = "Processing"
)

// NewProgressBarTo creates a progress bar rendering to w. A nil writer
// yields a silent bar that still counts. A negative total switches to
// spinner mode.
func NewProgressBarTo(w io.Writer, total int, description string) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultSilent(int64(total), description)
	}

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}
	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts, progressbar.OptionShowIts())
	}

	return progressbar.NewOptions(total, opts...)
}
