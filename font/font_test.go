package font

import "testing"

func TestDefault(t *testing.T) {
	f := Default()
	if f.Family != "Lucida Console" || f.Style != Plain || f.Size != 14 {
		t.Errorf("Default() = %+v, want Lucida Console Plain 14", f)
	}
}

func TestDecreaseClampsAtMinimum(t *testing.T) {
	f := New("Consolas", Bold, 2)
	f = f.Decrease()
	if f.Size != 1 {
		t.Errorf("Decrease() from 2 = %d, want 1", f.Size)
	}
	f = f.Decrease()
	if f.Size != 1 {
		t.Errorf("Decrease() from 1 = %d, want 1", f.Size)
	}
	if f.Family != "Consolas" || f.Style != Bold {
		t.Errorf("Decrease() changed family or style: %+v", f)
	}
}

func TestIncrease(t *testing.T) {
	if got := Default().Increase().Increase().Size; got != 16 {
		t.Errorf("Increase() twice = %d, want 16", got)
	}
}

func TestReset(t *testing.T) {
	f := New("Courier New", BoldItalic, 30).Reset()
	if f != Default() {
		t.Errorf("Reset() = %+v, want %+v", f, Default())
	}
}

func TestNewClampsSize(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{14, 14},
		{1, 1},
		{0, 1},
		{-5, 1},
	}

	for _, tt := range tests {
		if got := New("x", Plain, tt.size).Size; got != tt.want {
			t.Errorf("New(size=%d).Size = %d, want %d", tt.size, got, tt.want)
		}
	}
	if got := New("", Plain, 10).Family; got != DefaultFamily {
		t.Errorf("New(family=\"\").Family = %q, want %q", got, DefaultFamily)
	}
}

func TestWithSizeText(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"20", 20},
		{" 9 ", 9},
		{"1", 1},
		{"0", 12},
		{"-3", 12},
		{"abc", 12},
		{"", 12},
		{"12.5", 12},
	}

	for _, tt := range tests {
		f := New("x", Plain, 12)
		if got := f.WithSizeText(tt.text).Size; got != tt.want {
			t.Errorf("WithSizeText(%q).Size = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name    string
		want    Style
		wantErr bool
	}{
		{"Plain", Plain, false},
		{"bold", Bold, false},
		{"ITALIC", Italic, false},
		{"Bold Italic", BoldItalic, false},
		{"bold-italic", BoldItalic, false},
		{"", Plain, false},
		{"heavy", Plain, true},
	}

	for _, tt := range tests {
		got, err := ParseStyle(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStyle(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStyleRoundTrip(t *testing.T) {
	for _, s := range Styles {
		got, err := ParseStyle(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStyle(%q) = %v, %v; want %v", s.String(), got, err, s)
		}
	}
}

func TestStyleAttributes(t *testing.T) {
	if !BoldItalic.IsBold() || !BoldItalic.IsItalic() {
		t.Error("BoldItalic should be bold and italic")
	}
	if Plain.IsBold() || Plain.IsItalic() {
		t.Error("Plain should be neither bold nor italic")
	}
}
