package timefmt

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatStringContract(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"afternoon", "2015-05-20T13:55:10Z", "Wednesday May 20, 2015 at 1:55:10 PM"},
		{"midnight", "2020-01-01T00:00:00Z", "Wednesday January 1, 2020 at 12:00:00 AM"},
		{"morning single digit hour", "2020-01-02T09:05:03Z", "Thursday January 2, 2020 at 9:05:03 AM"},
		{"no zone offset", "2015-05-20T13:55:10", "Wednesday May 20, 2015 at 1:55:10 PM"},
		{"fractional seconds", "2015-05-20T13:55:10.500Z", "Wednesday May 20, 2015 at 1:55:10 PM"},
		{"fixed offset keeps wall clock", "2015-05-20T13:55:10+02:00", "Wednesday May 20, 2015 at 1:55:10 PM"},
	}
	for _, c := range cases {
		got, err := FormatString(c.raw)
		if err != nil {
			t.Fatalf("%s: FormatString(%q) error: %v", c.name, c.raw, err)
		}
		if got != c.want {
			t.Fatalf("%s: FormatString(%q) = %q, want %q", c.name, c.raw, got, c.want)
		}
		if !strings.Contains(got, " at ") {
			t.Fatalf("%s: output %q missing \" at \" separator", c.name, got)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-date", "2015-13-45T99:99:99Z", "1432302910"} {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidTimestamp) {
			t.Fatalf("Parse(%q) error = %v, want ErrInvalidTimestamp", raw, err)
		}
	}
}

func TestDisplayOr(t *testing.T) {
	if got := DisplayOr("garbage", "unknown time"); got != "unknown time" {
		t.Fatalf("DisplayOr fallback = %q, want %q", got, "unknown time")
	}
	if got := DisplayOr("2015-05-20T13:55:10Z", "unknown time"); got != "Wednesday May 20, 2015 at 1:55:10 PM" {
		t.Fatalf("DisplayOr = %q", got)
	}
}
