package trackers

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// renderer owns the byte-level output of a single tracker: formatting,
// terminal detection, carriage-return rewriting, and optional color.
type renderer struct {
	w      io.Writer
	tty    bool
	prefix *color.Color
	wrote  bool
}

func newRenderer(o Options) *renderer {
	r := &renderer{w: o.Writer, tty: o.ForceTTY}
	if !r.tty {
		if f, ok := o.Writer.(*os.File); ok {
			r.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	if o.Color {
		r.prefix = color.New(color.FgCyan)
		r.prefix.EnableColor()
	}
	return r
}

// countPrefix renders the leading count, with the total when it is known.
func countPrefix(index, total int64) string {
	if total > 0 {
		return fmt.Sprintf("(%d/%d)", index, total)
	}
	return fmt.Sprintf("(%d)", index)
}

// step writes one progress line. On terminals the previous line is rewritten
// in place; otherwise each step is newline-terminated.
func (r *renderer) step(prefix, body string, elapsed time.Duration) {
	if r.prefix != nil {
		prefix = r.prefix.Sprint(prefix)
	}
	line := fmt.Sprintf("%s %s - %.2fs", prefix, body, elapsed.Seconds())
	if r.tty {
		fmt.Fprint(r.w, "\r", line)
	} else {
		fmt.Fprintln(r.w, line)
	}
	r.wrote = true
}

// finish terminates the in-place line on terminals. Plain writers need
// nothing: every step already ended with a newline.
func (r *renderer) finish() {
	if r.tty && r.wrote {
		fmt.Fprintln(r.w)
	}
}
