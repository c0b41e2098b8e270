package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// WkhtmltopdfAdapter shells out to the wkhtmltopdf binary, the engine of
// choice for very large self-contained documents. It is only attempted when
// the binary is present, with generous timeouts and every sub-resource load
// error ignored: the HTML carries no external resources worth waiting for.
type WkhtmltopdfAdapter struct {
	// Timeout for one conversion (default 600s; huge filings take minutes).
	Timeout time.Duration
}

// NewWkhtmltopdfAdapter returns an adapter with default settings.
func NewWkhtmltopdfAdapter() *WkhtmltopdfAdapter {
	return &WkhtmltopdfAdapter{Timeout: 600 * time.Second}
}

// IsAvailable probes for the binary.
func (w *WkhtmltopdfAdapter) IsAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "wkhtmltopdf", "--version").Run() == nil
}

// Render converts htmlDoc to a PDF at outPath. The HTML goes through a temp
// file because wkhtmltopdf wants a file argument for local rendering.
func (w *WkhtmltopdfAdapter) Render(htmlDoc, outPath string) error {
	timeout := w.Timeout
	if timeout == 0 {
		timeout = 600 * time.Second
	}

	tmp, err := os.CreateTemp("", "secdl-*.html")
	if err != nil {
		return fmt.Errorf("create temp HTML: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(htmlDoc); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp HTML: %w", err)
	}
	tmp.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "wkhtmltopdf",
		"--page-size", "A4",
		"--margin-top", "20mm",
		"--margin-right", "20mm",
		"--margin-bottom", "20mm",
		"--margin-left", "20mm",
		"--encoding", "UTF-8",
		"--print-media-type",
		"--disable-smart-shrinking",
		"--enable-local-file-access",
		"--load-error-handling", "ignore",
		"--load-media-error-handling", "ignore",
		"--no-stop-slow-scripts",
		"--javascript-delay", "1000",
		"--lowquality",
		tmp.Name(),
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("wkhtmltopdf timeout after %v", timeout)
		}
		return fmt.Errorf("wkhtmltopdf failed: %v, stderr: %s", err, stderr.String())
	}
	return nil
}
