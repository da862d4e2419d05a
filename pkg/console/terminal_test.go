package console

import (
	"bufio"
	"io"
	"testing"
	"time"
)

func TestTerminalWrite(t *testing.T) {
	tests := []struct {
		name  string
		cols  int
		rows  int
		input []string
		want  string
	}{
		{"plain", 10, 3, []string{"hello"}, "hello"},
		{"newline", 10, 3, []string{"ab\ncd"}, "ab\ncd"},
		{"split writes", 10, 3, []string{"ab", "c", "\n", "d"}, "abc\nd"},
		{"wrap", 4, 3, []string{"abcdef"}, "abcd\nef"},
		{"newline after full row", 4, 3, []string{"abcd\nef"}, "abcd\nef"},
		{"scroll on newline", 4, 2, []string{"a\nb\nc"}, "b\nc"},
		{"scroll on wrap", 2, 2, []string{"abcdef"}, "cd\nef"},
		{"tab", 10, 1, []string{"a\tb"}, "a b"},
		{"carriage return", 10, 1, []string{"abc\rX"}, "Xbc"},
		{"multibyte", 10, 1, []string{"\xc3", "\xa9t\xc3\xa9"}, "été"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := NewTerminal(tt.cols, tt.rows)
			for _, s := range tt.input {
				n, err := term.Write([]byte(s))
				if err != nil || n != len(s) {
					t.Fatalf("Write(%q) = %d, %v", s, n, err)
				}
			}
			if got := term.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTerminalCursor(t *testing.T) {
	term := NewTerminal(4, 2)
	term.Write([]byte("ab\nc"))
	cells, cursor := term.Cells()
	if cursor != 5 {
		t.Errorf("cursor = %d, want 5", cursor)
	}
	if cells[4] != 'c' || cells[2] != 0 {
		t.Errorf("cells = %q", cells)
	}

	term.Clear()
	if _, cursor := term.Cells(); cursor != 0 || term.Text() != "" {
		t.Errorf("Clear left cursor %d text %q", cursor, term.Text())
	}
}

func TestTerminalKeys(t *testing.T) {
	term := NewTerminal(20, 4)
	term.Write([]byte("name? "))

	for _, r := range "Jox" {
		term.PushKey(r)
	}
	term.PushKey(KeyBackspace)
	term.PushKey('e')
	term.PushKey(0x1b) // ignored control key
	term.PushKey(KeyEnter)

	if got, want := term.Text(), "name? Joe"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	line, err := bufio.NewReader(term.Input()).ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString() error = %v", err)
	}
	if line != "Joe\n" {
		t.Errorf("line = %q, want %q", line, "Joe\n")
	}

	// backspace never erases program output
	term.PushKey(KeyBackspace)
	if got := term.Text(); got != "name? Joe" {
		t.Errorf("Text() after stray backspace = %q", got)
	}
}

func TestTerminalInputBlocksUntilEnter(t *testing.T) {
	term := NewTerminal(20, 4)
	got := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(term.Input()).ReadString('\n')
		got <- line
	}()

	term.PushKey('4')
	term.PushKey('2')
	select {
	case line := <-got:
		t.Fatalf("read %q before Enter", line)
	case <-time.After(20 * time.Millisecond):
	}

	term.PushKey(KeyEnter)
	select {
	case line := <-got:
		if line != "42\n" {
			t.Errorf("line = %q, want %q", line, "42\n")
		}
	case <-time.After(time.Second):
		t.Fatal("reader not woken by Enter")
	}
}

func TestTerminalClose(t *testing.T) {
	term := NewTerminal(20, 4)
	term.PushKey('x')
	term.PushKey(KeyEnter)
	term.Close()
	term.Close()

	data, err := io.ReadAll(term.Input())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "x\n" {
		t.Errorf("drained %q, want %q", data, "x\n")
	}
}
