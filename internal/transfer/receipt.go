package transfer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrShareUnavailable signals that no share target accepted the receipt.
var ErrShareUnavailable = errors.New("transfer: no share target available")

// Receipt is what a terminal workflow state hands to the success or failure
// view. Reason is set only on failure.
type Receipt struct {
	To     string
	Amount decimal.Decimal
	Mode   Type
	Time   time.Time
	Reason string
}

// Succeeded reports whether this receipt belongs to a successful transfer.
func (r Receipt) Succeeded() bool {
	return r.Reason == ""
}

// Text renders the receipt as the downloadable artifact.
func (r Receipt) Text() string {
	var b strings.Builder
	b.WriteString("FinVault Transfer Receipt\n")
	b.WriteString("-------------------------\n")
	fmt.Fprintf(&b, "To:     %s\n", r.To)
	fmt.Fprintf(&b, "Amount: %s\n", r.Amount.StringFixed(2))
	fmt.Fprintf(&b, "Mode:   %s\n", r.Mode)
	fmt.Fprintf(&b, "Time:   %s\n", r.Time.Format(time.RFC3339))
	if r.Succeeded() {
		b.WriteString("Status: SUCCESS\n")
	} else {
		fmt.Fprintf(&b, "Status: FAILED (%s)\n", r.Reason)
	}
	return b.String()
}

// ExportText writes the downloadable receipt artifact to w.
func (r Receipt) ExportText(w io.Writer) error {
	if _, err := io.WriteString(w, r.Text()); err != nil {
		return fmt.Errorf("transfer: exporting receipt: %w", err)
	}
	return nil
}

// Sharer delivers receipt text to a share target (native share sheet,
// clipboard, and so on).
type Sharer interface {
	Share(text string) error
}

// ShareFunc adapts a function to the Sharer interface.
type ShareFunc func(text string) error

func (f ShareFunc) Share(text string) error { return f(text) }

// Share offers the rendered receipt to each sharer in order and stops at the
// first that accepts. Best-effort: a native sharer that declines falls
// through to the next target (typically a clipboard copy), and only when
// every target declines does the caller get ErrShareUnavailable.
func (r Receipt) Share(sharers ...Sharer) error {
	text := r.Text()
	for _, s := range sharers {
		if s == nil {
			continue
		}
		if err := s.Share(text); err == nil {
			return nil
		}
	}
	return ErrShareUnavailable
}
