package source

import (
	"errors"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2017-04-28T14:30:00+00:00", 1493389800},
		{"2017-04-28T14:30:00Z", 1493389800},
		{"2017-04-28T14:30:00.250Z", 1493389800},
		{"2017-04-28T14:30:00", 1493389800},
		{"2017-04-28T16:30:00+0200", 1493389800},
		{"2017-04-28T10:30:00.500-0400", 1493389800},
		{"2017-04-28 14:30:00", 1493389800},
		{"2006-01-02 15:04:05 -0700", 1136239445},
		{"Tue, 02 Jan 2024 03:04:05 +0000", 1704164645},
		{"Tue, 02 Jan 2024 03:04:05 UTC", 1704164645},
		{"2024-01-02", 1704153600},
		{"  2024-01-02  ", 1704153600},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "28/04/2017", "1493389800"} {
		if _, err := ParseTimestamp(in); !errors.Is(err, ErrBadTimestamp) {
			t.Errorf("ParseTimestamp(%q) err = %v, want ErrBadTimestamp", in, err)
		}
	}
}
