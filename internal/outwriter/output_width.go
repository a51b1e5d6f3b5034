package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/huangsam/blameshare/internal/contract"
)

// GetMaxTableAuthorWidth calculates the maximum width for author identities in
// table output based on terminal width and table configuration.
func GetMaxTableAuthorWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Lines + Percent + Label with borders and padding
	baseWidth := 45

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
