package config

import "testing"

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestColorModeString(t *testing.T) {
	tests := []struct {
		mode ColorMode
		want string
	}{
		{Color16, "16 colors"},
		{Color256, "256 colors"},
		{ColorTrueColor, "TrueColor (24-bit)"},
		{ColorMode(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("ColorMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestDetectCapabilities(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantUTF8 bool
		wantMode ColorMode
	}{
		{"empty", nil, false, Color16},
		{"utf8 lang", map[string]string{"LANG": "en_US.UTF-8"}, true, Color16},
		{"lc_all wins", map[string]string{"LC_ALL": "C", "LANG": "en_US.UTF-8"}, false, Color16},
		{"256 color", map[string]string{"TERM": "xterm-256color"}, false, Color256},
		{"colorterm", map[string]string{"COLORTERM": "truecolor", "TERM": "xterm-256color"}, false, ColorTrueColor},
		{"direct", map[string]string{"TERM": "xterm-direct"}, false, ColorTrueColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := DetectCapabilities(envOf(tt.env))
			if caps.UTF8Support != tt.wantUTF8 {
				t.Errorf("UTF8Support = %v, want %v", caps.UTF8Support, tt.wantUTF8)
			}
			if caps.ColorMode != tt.wantMode {
				t.Errorf("ColorMode = %v, want %v", caps.ColorMode, tt.wantMode)
			}
		})
	}
}

func TestShouldUseASCII(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name        string
		utf8Support bool
		override    *bool
		want        bool
	}{
		{"UTF8 supported, no override", true, nil, false},
		{"UTF8 not supported, no override", false, nil, true},
		{"UTF8 supported, override true", true, &yes, true},
		{"UTF8 not supported, override false", false, &no, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := &TermCapabilities{UTF8Support: tt.utf8Support}
			if got := caps.ShouldUseASCII(tt.override); got != tt.want {
				t.Errorf("ShouldUseASCII() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldUseTrueColor(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name      string
		colorMode ColorMode
		override  *bool
		want      bool
	}{
		{"TrueColor, no override", ColorTrueColor, nil, true},
		{"256 color, no override", Color256, nil, false},
		{"256 color, override true", Color256, &yes, true},
		{"TrueColor, override false", ColorTrueColor, &no, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := &TermCapabilities{ColorMode: tt.colorMode}
			if got := caps.ShouldUseTrueColor(tt.override); got != tt.want {
				t.Errorf("ShouldUseTrueColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCapabilitiesIsCached(t *testing.T) {
	if GetCapabilities() != GetCapabilities() {
		t.Error("GetCapabilities() should return the same instance")
	}
}
