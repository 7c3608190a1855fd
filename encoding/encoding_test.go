package encoding

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		wantID string
	}{
		{"utf-8", "utf-8"},
		{"UTF-8", "utf-8"},
		{"utf8", "utf-8"},
		{"UTF-8 BOM", "utf-8-bom"},
		{"UTF-16LE", "utf-16-le"},
		{"Shift_JIS", "shift-jis"},
		{"SJIS", "shift-jis"},
		{"GB2312", "gbk"},
		{"latin1", "iso-8859-1"},
		{"CP1252", "windows-1252"},
		{"EUC-KR", "euc-kr"},
		{"nonexistent", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := Lookup(tt.name)
			if tt.wantID == "" {
				if cs != nil {
					t.Errorf("Lookup(%q) = %v, want nil", tt.name, cs)
				}
				return
			}
			if cs == nil {
				t.Fatalf("Lookup(%q) = nil, want %q", tt.name, tt.wantID)
			}
			if cs.ID != tt.wantID {
				t.Errorf("Lookup(%q).ID = %q, want %q", tt.name, cs.ID, tt.wantID)
			}
		})
	}
}

func TestDetectBOM(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantID  string
		wantBOM bool
	}{
		{"UTF-8 BOM", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, "utf-8-bom", true},
		{"UTF-16 LE BOM", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "utf-16-le", true},
		{"UTF-16 BE BOM", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "utf-16-be", true},
		{"plain ASCII", []byte("hello"), "utf-8", false},
		{"UTF-8 multibyte", []byte("naïve 世界"), "utf-8", false},
		{"empty", nil, "utf-8", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detect(tt.data)
			if d.Charset == nil {
				t.Fatalf("Detect().Charset = nil, want %q", tt.wantID)
			}
			if d.Charset.ID != tt.wantID {
				t.Errorf("Detect().Charset.ID = %q, want %q", d.Charset.ID, tt.wantID)
			}
			if d.BOM != tt.wantBOM {
				t.Errorf("Detect().BOM = %v, want %v", d.BOM, tt.wantBOM)
			}
		})
	}
}

func TestDetectNonUTF8FallsBackToSupportedCharset(t *testing.T) {
	// Latin-1 "café au lait" is not valid UTF-8.
	data := []byte{'c', 'a', 'f', 0xe9, ' ', 'a', 'u', ' ', 'l', 'a', 'i', 't'}
	d := Detect(data)
	if d.Reported == "" {
		t.Fatal("Detect().Reported is empty")
	}
	if d.Charset != nil && d.Charset.ID == "utf-8" {
		t.Errorf("Detect() = utf-8 for invalid UTF-8 input")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		input []byte
		want  string
	}{
		{"UTF-8 passthrough", "utf-8", []byte("hello"), "hello"},
		{"UTF-8 BOM stripped", "utf-8-bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, "hi"},
		{"UTF-16 LE BOM stripped", "utf-16-le", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"ISO-8859-1", "iso-8859-1", []byte{'c', 'a', 'f', 0xe9}, "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.id).Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	if _, err := UTF8.Decode([]byte{0xff, 0xfe, 0xfd}); err == nil {
		t.Error("UTF8.Decode(invalid) error = nil, want error")
	}
}

func TestEncodeAddsBOM(t *testing.T) {
	got, err := Lookup("utf-8-bom").Encode("hi")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(got) != 5 || got[0] != 0xEF || got[1] != 0xBB || got[2] != 0xBF {
		t.Errorf("Encode() = %v, want BOM-prefixed", got)
	}
}

func TestRoundTrip(t *testing.T) {
	text := "Hello, 世界! café résumé\nsecond line"

	for _, id := range []string{"utf-8", "utf-8-bom", "utf-16-le", "utf-16-be", "gb18030"} {
		t.Run(id, func(t *testing.T) {
			cs := Lookup(id)
			encoded, err := cs.Encode(text)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			decoded, err := cs.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if decoded != text {
				t.Errorf("round trip = %q, want %q", decoded, text)
			}
		})
	}
}

func TestDecodeDetected(t *testing.T) {
	encoded, err := Lookup("utf-16-be").Encode("notes")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	text, cs, err := DecodeDetected(encoded)
	if err != nil {
		t.Fatalf("DecodeDetected() error = %v", err)
	}
	if text != "notes" {
		t.Errorf("DecodeDetected() text = %q, want %q", text, "notes")
	}
	if cs.ID != "utf-16-be" {
		t.Errorf("DecodeDetected() charset = %q, want utf-16-be", cs.ID)
	}
}

func TestUnsupportedIsMatchable(t *testing.T) {
	err := unsupported("Big5")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("errors.Is(%v, ErrUnsupported) = false", err)
	}
}
