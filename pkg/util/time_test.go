package util

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{65.5, "00:01:05.500"},
		{3661.25, "01:01:01.250"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.seconds); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFilenameTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00m00s"},
		{75.9, "01m15s"},
		{600, "10m00s"},
	}
	for _, tt := range tests {
		if got := FilenameTime(tt.seconds); got != tt.want {
			t.Errorf("FilenameTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"00:00:05.500", 5.5, false},
		{"01:02:03", 3723, false},
		{"02:30", 150, false},
		{"45.25", 45.25, false},
		{"00:01:02,500", 62.5, false}, // SRT comma separator
		{"1:2:3:4", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimestamp(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997002997},
		{"0/0", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := ParseFrameRate(tt.in); got != tt.want {
			t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRounding(t *testing.T) {
	if got := Round1(2.04); got != 2.0 {
		t.Errorf("Round1(2.04) = %v, want 2.0", got)
	}
	if got := Round1(2.16); got != 2.2 {
		t.Errorf("Round1(2.16) = %v, want 2.2", got)
	}
	if got := Round2(1.236); got != 1.24 {
		t.Errorf("Round2(1.236) = %v, want 1.24", got)
	}
	if got := Round3(0.12345); got != 0.123 {
		t.Errorf("Round3(0.12345) = %v, want 0.123", got)
	}
}
