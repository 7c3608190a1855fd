package syntax

import "testing"

func TestPlainTextIsNeverHighlighted(t *testing.T) {
	h := New("notes.txt", DefaultColors())
	h.SetEnabled(true)
	if spans := h.Line("func main() {}"); spans != nil {
		t.Errorf("Line() on .txt = %v, want nil", spans)
	}
}

func TestDisabledReturnsNil(t *testing.T) {
	h := New("main.go", DefaultColors())
	if h.Active() {
		t.Fatal("new highlighter should start disabled")
	}
	if spans := h.Line("package main"); spans != nil {
		t.Errorf("Line() while disabled = %v, want nil", spans)
	}
}

func TestGoKeywordColoured(t *testing.T) {
	colors := DefaultColors()
	h := New("main.go", colors)
	h.SetEnabled(true)
	if h.Language() != "Go" {
		t.Fatalf("Language() = %q, want Go", h.Language())
	}

	spans := h.Line("package main")
	if got := ColorAt(spans, 0); got != colors.Keyword {
		t.Errorf("ColorAt(0) = %q, want keyword colour %q", got, colors.Keyword)
	}
}

func TestSetFileClears(t *testing.T) {
	h := New("main.go", DefaultColors())
	h.SetEnabled(true)
	h.SetFile("")
	if h.Active() {
		t.Error("Active() after SetFile(\"\") = true, want false")
	}
}

func TestColorAt(t *testing.T) {
	spans := []Span{{Start: 0, End: 3, Color: "1"}, {Start: 5, End: 7, Color: "2"}}
	tests := []struct {
		col  int
		want string
	}{
		{0, "1"},
		{2, "1"},
		{3, ""},
		{5, "2"},
		{7, ""},
	}
	for _, tt := range tests {
		if got := ColorAt(spans, tt.col); got != tt.want {
			t.Errorf("ColorAt(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
}
