// Package clipboard delivers extracted text to the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// FailureMessage is the user-facing message of a failed delivery.
const FailureMessage = "Could not copy to clipboard. Please try again."

// Writer writes text to a clipboard.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

func (f WriterFunc) Write(ctx context.Context, text string) error {
	return f(ctx, text)
}

// System writes through the platform clipboard utilities and falls back to
// an OSC 52 escape sequence on Terminal, which most terminal emulators turn
// into a clipboard write. A nil Terminal disables the fallback.
type System struct {
	Terminal io.Writer
}

// NewSystem returns a System writer falling back to stderr.
func NewSystem() *System {
	return &System{Terminal: os.Stderr}
}

func (s *System) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	primary := clipboard.WriteAll(text)
	if primary == nil {
		return nil
	}
	if s.Terminal == nil {
		return fmt.Errorf("clipboard write failed: %w", primary)
	}

	if _, err := osc52.New(text).WriteTo(s.Terminal); err != nil {
		return errors.Join(
			fmt.Errorf("clipboard write failed: %w", primary),
			fmt.Errorf("osc52 fallback failed: %w", err),
		)
	}
	return nil
}

// Result reports the outcome of a delivery.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Err is the underlying failure.
	Err error `json:"-"`
}

// Deliver writes text with w and reports the outcome.
func Deliver(ctx context.Context, w Writer, text string) Result {
	if err := w.Write(ctx, text); err != nil {
		return Result{Error: FailureMessage, Err: err}
	}
	return Result{Success: true}
}
