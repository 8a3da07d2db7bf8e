package pickle

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"protocol 4", "80049500000000000000", true},
		{"protocol 0 header", "8000", true},
		{"protocol 5 upper case", "80 05 95", true},
		{"unknown protocol", "800695", false},
		{"unknown protocol ending in stop", "80062e", false},
		{"invalid version byte", "80zz2e", false},
		{"short proto", "80", false},
		{"mark", "28lp0", true},
		{"stop", "5d7100612e", true},
		{"stop upper case", "5D 71 00 61 2E", true},
		{"neither", "ffeeaabb", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.input); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestProtocol(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"8002", 2, true},
		{"80 04 95", 4, true},
		{"8009", 0, false},
		{"2e", 0, false},
		{"80", 0, false},
	}

	for _, tt := range tests {
		got, ok := Protocol(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Protocol(%q) = %d, %v, want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestProtocolName(t *testing.T) {
	if got, want := ProtocolName(3), "Pickle v3"; got != want {
		t.Errorf("ProtocolName() = %q, want %q", got, want)
	}
}
