// Package console implements the text screen used by the desktop runner.
//
// A Terminal is an io.Writer for DISPLAY output and, through Input, an
// io.Reader for SCAN. Keys pushed from the UI thread are echoed on screen
// and handed to the reader one line at a time when Enter is pressed.
package console

import (
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"codelang/pkg/grid"
)

// Control keys understood by PushKey.
const (
	KeyEnter     = '\n'
	KeyBackspace = '\b'
)

// maxPendingLines bounds typed lines not yet consumed by SCAN.
const maxPendingLines = 64

// Terminal is a Cols x Rows character screen stored row-major, like the
// text VRAM of a character display. Zero cells are blank.
type Terminal struct {
	Cols int
	Rows int

	mu      sync.Mutex
	cells   []rune
	cursor  int
	wrapped bool   // last rune filled its row
	edit    []rune // line being typed, not yet submitted
	partial []byte // incomplete UTF-8 sequence from the last Write

	lines  chan string
	closed chan struct{}
	once   sync.Once
}

func NewTerminal(cols, rows int) *Terminal {
	return &Terminal{
		Cols:   cols,
		Rows:   rows,
		cells:  make([]rune, cols*rows),
		lines:  make(chan string, maxPendingLines),
		closed: make(chan struct{}),
	}
}

// Write puts p on screen at the cursor. '\n' starts a new line, '\t'
// prints as a space and output past the last row scrolls the screen.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	buf := append(t.partial, p...)
	t.partial = nil
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size <= 1 && !utf8.FullRune(buf) {
			t.partial = append([]byte(nil), buf...)
			break
		}
		t.put(r)
		buf = buf[size:]
	}
	return len(p), nil
}

// put writes one rune; the caller holds mu. The cursor may rest one past
// the last cell; the screen scrolls when the next rune needs room. A '\n'
// right after a rune that filled its row only ends the wrap.
func (t *Terminal) put(r rune) {
	wrapped := t.wrapped
	t.wrapped = false

	switch r {
	case '\n':
		if wrapped {
			return
		}
		_, y := grid.GetGridCoords(t.cursor, t.Cols)
		t.cursor = grid.GetGridIndex(0, y+1, t.Cols)
		for t.cursor > len(t.cells) {
			t.scroll()
		}
	case '\r':
		if wrapped {
			t.cursor -= t.Cols
			return
		}
		_, y := grid.GetGridCoords(t.cursor, t.Cols)
		t.cursor = grid.GetGridIndex(0, y, t.Cols)
	case '\t':
		t.put(' ')
	default:
		if t.cursor >= len(t.cells) {
			t.scroll()
		}
		t.cells[t.cursor] = r
		t.cursor++
		t.wrapped = t.cursor%t.Cols == 0
	}
}

// scroll drops the top row.
func (t *Terminal) scroll() {
	copy(t.cells, t.cells[t.Cols:])
	last := t.cells[len(t.cells)-t.Cols:]
	for i := range last {
		last[i] = 0
	}
	t.cursor -= t.Cols
}

// PushKey handles one key from the UI: printable runes are echoed and
// buffered, KeyBackspace erases the last buffered rune and KeyEnter
// submits the buffered line to Input.
func (t *Terminal) PushKey(r rune) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch r {
	case KeyEnter:
		line := string(t.edit)
		t.edit = t.edit[:0]
		t.put('\n')
		select {
		case t.lines <- line:
		default:
			// SCAN is not keeping up; the line is dropped
		}
	case KeyBackspace:
		if len(t.edit) == 0 || t.cursor == 0 {
			return
		}
		t.edit = t.edit[:len(t.edit)-1]
		t.wrapped = false
		t.cursor--
		t.cells[t.cursor] = 0
	default:
		if r < ' ' {
			return
		}
		t.edit = append(t.edit, r)
		t.put(r)
	}
}

// Input returns the reader side fed by PushKey. Reads block until a line
// is submitted or the terminal is closed.
func (t *Terminal) Input() io.Reader {
	return &inputReader{t: t}
}

// Close ends Input with io.EOF once pending lines are drained.
func (t *Terminal) Close() error {
	t.once.Do(func() { close(t.closed) })
	return nil
}

// Cells returns a copy of the screen and the cursor index.
func (t *Terminal) Cells() ([]rune, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]rune, len(t.cells))
	copy(out, t.cells)
	return out, t.cursor
}

// Text renders the screen as lines with trailing blanks removed and
// trailing empty rows dropped.
func (t *Terminal) Text() string {
	cells, _ := t.Cells()
	rows := make([]string, t.Rows)
	for y := 0; y < t.Rows; y++ {
		row := make([]rune, t.Cols)
		for x := 0; x < t.Cols; x++ {
			r := cells[grid.GetGridIndex(x, y, t.Cols)]
			if r == 0 {
				r = ' '
			}
			row[x] = r
		}
		rows[y] = strings.TrimRight(string(row), " ")
	}
	return strings.TrimRight(strings.Join(rows, "\n"), "\n")
}

// Clear blanks the screen and homes the cursor.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.cells {
		t.cells[i] = 0
	}
	t.cursor = 0
	t.wrapped = false
	t.edit = t.edit[:0]
}

type inputReader struct {
	t       *Terminal
	pending []byte
}

func (r *inputReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		select {
		case line := <-r.t.lines:
			r.pending = []byte(line + "\n")
		case <-r.t.closed:
			select {
			case line := <-r.t.lines:
				r.pending = []byte(line + "\n")
			default:
				return 0, io.EOF
			}
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
