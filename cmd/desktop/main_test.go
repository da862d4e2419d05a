package main

import (
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"codelang/pkg/console"
	"codelang/pkg/lang"
)

func waitResult(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("program did not finish")
		return nil
	}
}

func TestStartProgramScan(t *testing.T) {
	src := "BEGIN CODE\nCHAR name\nINT score\nSCAN: name, score\nDISPLAY: name & \"=\" & score\nEND CODE"

	term := console.NewTerminal(cols, rows)
	term.Write([]byte("previous run\n"))
	done := startProgram(src, lang.Options{StrictLines: true}, term)

	for _, r := range "Q, 77" {
		term.PushKey(r)
	}
	term.PushKey(console.KeyEnter)

	if err := waitResult(t, done); err != nil {
		t.Fatalf("program failed: %v", err)
	}
	if got, want := term.Text(), "Q, 77\nQ=77"; got != want {
		t.Errorf("screen = %q, want %q", got, want)
	}
}

func TestStartProgramClosedInput(t *testing.T) {
	src := "BEGIN CODE\nINT x\nSCAN: x\nEND CODE"

	term := console.NewTerminal(cols, rows)
	done := startProgram(src, lang.Options{}, term)
	term.Close()

	err := waitResult(t, done)
	if !errors.Is(err, lang.ErrScannedInput) {
		t.Errorf("error = %v, want ErrScannedInput", err)
	}
}

func TestGamePoll(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "[program finished]"},
		{"fault", &lang.Fault{Kind: lang.ArithmeticFault, Line: 3, Msg: "Division by zero"}, "ERROR: Division by zero at line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan error, 1)
			g := &Game{term: console.NewTerminal(cols, rows), done: done}

			g.poll()
			if g.term.Text() != "" {
				t.Fatalf("status written before the program finished")
			}

			done <- tt.err
			g.poll()
			if g.done != nil {
				t.Error("done channel not cleared")
			}
			if !strings.Contains(g.term.Text(), tt.want) {
				t.Errorf("screen = %q, want %q", g.term.Text(), tt.want)
			}
		})
	}
}

func TestGameLayout(t *testing.T) {
	g := &Game{}
	w, h := g.Layout(1920, 1080)
	if w != screenWidth || h != screenHeight {
		t.Errorf("Layout() = %dx%d", w, h)
	}
}

func TestRootCmdArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error without a program file")
	}
}

// cellHasColor reports whether any pixel of cell index has color c.
func cellHasColor(img *image.RGBA, index int, c image.Image) bool {
	want := c.At(0, 0)
	x0, y0 := (index%cols)*charWidth, (index/cols)*charHeight
	for y := y0; y < y0+charHeight; y++ {
		for x := x0; x < x0+charWidth; x++ {
			if img.At(x, y) == want {
				return true
			}
		}
	}
	return false
}

func TestRenderTerminal(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))
	cells := make([]rune, cols*rows)
	cells[0] = 'A'
	cells[cols+2] = '#'

	renderTerminal(img, cells, 5, true)

	tests := []struct {
		name  string
		index int
		color image.Image
		want  bool
	}{
		{"glyph", 0, image.NewUniform(colorText), true},
		{"second row glyph", cols + 2, image.NewUniform(colorText), true},
		{"blank cell", 1, image.NewUniform(colorText), false},
		{"cursor", 5, image.NewUniform(colorCursor), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellHasColor(img, tt.index, tt.color); got != tt.want {
				t.Errorf("cell %d has color = %v, want %v", tt.index, got, tt.want)
			}
		})
	}
	if img.At(screenWidth-1, screenHeight-1) != colorBg {
		t.Errorf("background = %v, want %v", img.At(screenWidth-1, screenHeight-1), colorBg)
	}

	renderTerminal(img, cells, 5, false)
	if cellHasColor(img, 5, image.NewUniform(colorCursor)) {
		t.Error("cursor drawn while hidden")
	}
}
