// Package term drives a character terminal with relative cursor motion.
//
// A Term tracks the cursor inside a width x height drawing area and emits
// ANSI escape sequences to move it, print characters and change colours.
// Output is staged in a queue.RingQueue and written to the device on Flush.
//
// Term is not safe for concurrent use.
package term

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	xterm "golang.org/x/term"
	"golang.org/x/xerrors"

	"github.com/randomizedcoder/ringqueue/internal/queue"
)

// Sizes used when the device reports zero rows or columns.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// ErrNotTerminal is returned by Open for a file that is not a terminal.
var ErrNotTerminal = errors.New("term: not a terminal")

type options struct {
	step    int
	flushAt int
	chunk   int
	log     *slog.Logger
}

// Option configures a Term.
type Option func(*options)

// WithGrowthStep sets the growth step of the output queue.
func WithGrowthStep(n int) Option {
	return func(o *options) { o.step = n }
}

// WithFlushThreshold flushes automatically once n bytes are pending.
// Zero disables automatic flushing.
func WithFlushThreshold(n int) Option {
	return func(o *options) { o.flushAt = n }
}

// WithChunkSize sets the size of each device write made by Flush.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunk = n
		}
	}
}

// WithLogger sets the logger for the Term and its output queue.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Term is a terminal drawing area.
type Term struct {
	out    io.Writer
	width  int
	height int

	row int
	col int

	fg   Color
	bg   Color
	mood Mood

	pending *queue.RingQueue[byte]
	chunk   []byte
	flushAt int
	err     error

	restore func() error
	log     *slog.Logger
}

// New creates a Term writing to w with a fixed drawing area.
// The device is not touched until the first Flush.
func New(w io.Writer, width, height int, opts ...Option) (*Term, error) {
	o := options{
		step:    queue.DefaultGrowthStep,
		flushAt: 4096,
		chunk:   1024,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	pending, err := queue.New[byte](queue.WithGrowthStep(o.step), queue.WithLogger(o.log))
	if err != nil {
		return nil, xerrors.Errorf("output queue: %w", err)
	}
	return &Term{
		out:     w,
		width:   width,
		height:  height,
		pending: pending,
		chunk:   make([]byte, o.chunk),
		flushAt: o.flushAt,
		log:     o.log,
	}, nil
}

// Open takes over the terminal on f.
//
// Echo and canonical input are switched off, the drawing area is reserved
// below the current line and the cursor is moved to its top-left corner.
// The usable width is one less than the device width so a full row never
// triggers the terminal's own line wrap. Close restores the device.
func Open(f *os.File, opts ...Option) (*Term, error) {
	fd := int(f.Fd())
	if !xterm.IsTerminal(fd) {
		return nil, xerrors.Errorf("%s: %w", f.Name(), ErrNotTerminal)
	}

	cols, rows, err := xterm.GetSize(fd)
	if err != nil {
		return nil, xerrors.Errorf("get terminal size: %w", err)
	}
	if cols <= 0 {
		cols = DefaultWidth
	}
	if rows <= 0 {
		rows = DefaultHeight
	}

	t, err := New(f, cols-1, rows, opts...)
	if err != nil {
		return nil, err
	}

	restore, err := enterCbreak(fd)
	if err != nil {
		return nil, xerrors.Errorf("set terminal mode: %w", err)
	}
	t.restore = restore
	t.log.Debug("terminal opened", "fd", fd, "width", t.width, "height", t.height)

	t.ReserveArea()
	t.SetCursorCol(0)
	t.SetCursorRow(0)
	if err := t.Flush(); err != nil {
		_ = t.restoreMode()
		return nil, err
	}
	return t, nil
}

// Width returns the number of usable columns.
func (t *Term) Width() int { return t.width }

// Height returns the number of rows.
func (t *Term) Height() int { return t.height }

// CursorRow returns the tracked cursor row.
func (t *Term) CursorRow() int { return t.row }

// CursorCol returns the tracked cursor column.
func (t *Term) CursorCol() int { return t.col }

// Pending returns the number of bytes waiting for Flush.
func (t *Term) Pending() int { return t.pending.Size() }

// Err returns the first write error, if any.
func (t *Term) Err() error { return t.err }

// ReserveArea scrolls the device to make room for the drawing area and
// leaves the cursor on its last row, one past the last column.
func (t *Term) ReserveArea() {
	blank := strings.Repeat(" ", t.width)
	for r := 0; r < t.height; r++ {
		t.writeString("\n")
		t.writeString(blank)
	}
	t.row = t.height - 1
	t.col = t.width
}

// SetCursorRow moves the cursor to row, clamped to the drawing area.
func (t *Term) SetCursorRow(row int) {
	row = clamp(row, t.height-1)
	if row == t.row {
		return
	}
	if row > t.row {
		t.printf("\x1b[%dB", row-t.row)
	} else {
		t.printf("\x1b[%dA", t.row-row)
	}
	t.row = row
}

// SetCursorCol moves the cursor to col, clamped to the drawing area.
func (t *Term) SetCursorCol(col int) {
	col = clamp(col, t.width-1)
	if col == t.col {
		return
	}
	if col > t.col {
		t.printf("\x1b[%dC", col-t.col)
	} else {
		t.printf("\x1b[%dD", t.col-col)
	}
	t.col = col
}

// MoveCursorLeft moves the cursor n columns left; negative n moves right.
func (t *Term) MoveCursorLeft(n int) {
	if n < 0 {
		t.MoveCursorRight(-n)
		return
	}
	t.SetCursorCol(t.col - n)
}

// MoveCursorRight moves the cursor n columns right; negative n moves left.
func (t *Term) MoveCursorRight(n int) {
	if n < 0 {
		t.MoveCursorLeft(-n)
		return
	}
	t.SetCursorCol(t.col + n)
}

// MoveCursorUp moves the cursor n rows up; negative n moves down.
func (t *Term) MoveCursorUp(n int) {
	if n < 0 {
		t.MoveCursorDown(-n)
		return
	}
	t.SetCursorRow(t.row - n)
}

// MoveCursorDown moves the cursor n rows down; negative n moves up.
func (t *Term) MoveCursorDown(n int) {
	if n < 0 {
		t.MoveCursorUp(-n)
		return
	}
	t.SetCursorRow(t.row + n)
}

// PutChar prints c at the cursor. Non-printable bytes are ignored.
// Past the last column the cursor wraps to the next row, and from the
// last row back to the first.
func (t *Term) PutChar(c byte) {
	if c < ' ' || c > '~' {
		return
	}
	if t.col >= t.width {
		if t.row+1 == t.height {
			t.SetCursorRow(0)
		} else {
			t.MoveCursorDown(1)
		}
		t.SetCursorCol(0)
	}
	t.write([]byte{c})
	t.col++
}

// PutString prints each byte of s with PutChar.
func (t *Term) PutString(s string) {
	for i := 0; i < len(s); i++ {
		t.PutChar(s[i])
	}
}

// Clear blanks the drawing area and puts the cursor back where it was.
func (t *Term) Clear() {
	row, col := t.row, t.col
	blank := strings.Repeat(" ", t.width)
	for r := 0; r < t.height; r++ {
		t.SetCursorRow(r)
		t.SetCursorCol(0)
		t.writeString(blank)
		t.col = t.width
	}
	t.SetCursorCol(col)
	t.SetCursorRow(row)
}

// Flush writes all pending output to the device.
//
// After a write error every later Flush returns the same error.
func (t *Term) Flush() error {
	if t.err != nil {
		return t.err
	}
	for t.pending.Size() > 0 {
		n := 0
		for n < len(t.chunk) {
			b, ok := t.pending.Pop()
			if !ok {
				break
			}
			t.chunk[n] = b
			n++
		}
		if _, err := t.out.Write(t.chunk[:n]); err != nil {
			t.err = xerrors.Errorf("write terminal: %w", err)
			return t.err
		}
	}
	return nil
}

// Close homes the cursor, flushes output and restores the terminal mode.
func (t *Term) Close() error {
	t.SetCursorCol(0)
	t.SetCursorRow(0)
	err := t.Flush()
	if rerr := t.restoreMode(); err == nil {
		err = rerr
	}
	return err
}

func (t *Term) restoreMode() error {
	if t.restore == nil {
		return nil
	}
	restore := t.restore
	t.restore = nil
	if err := restore(); err != nil {
		return xerrors.Errorf("restore terminal mode: %w", err)
	}
	return nil
}

func (t *Term) printf(format string, args ...any) {
	t.writeString(fmt.Sprintf(format, args...))
}

func (t *Term) writeString(s string) {
	t.write([]byte(s))
}

// write stages p in the output queue. Errors are sticky and reported by
// Flush.
func (t *Term) write(p []byte) {
	if t.err != nil {
		return
	}
	for _, b := range p {
		if err := t.pending.PushElement(b); err != nil {
			t.err = xerrors.Errorf("stage output: %w", err)
			return
		}
	}
	if t.flushAt > 0 && t.pending.Size() >= t.flushAt {
		_ = t.Flush()
	}
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
