package calendar

import (
	"testing"
	"time"
)

// testTable keeps the tests independent of the built-in exchange table.
var testTable = map[string]Hours{
	"XET": {
		Name:  "Test Xetra",
		TZ:    "Europe/Berlin",
		Open:  weekdays("09:00"),
		Close: weekdays("17:30"),
	},
	"NGT": {
		Name:  "Test Overnight",
		TZ:    "Europe/Berlin",
		Open:  weekdays("22:00"),
		Close: weekdays("06:00"),
	},
	"BAD": {
		Name:  "Broken TZ",
		TZ:    "Not/AZone",
		Open:  weekdays("09:00"),
		Close: weekdays("17:00"),
	},
}

// berlin builds a local Berlin time on a weekday (2024-06-12 is a Wednesday).
func berlin(t *testing.T, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return time.Date(2024, 6, 12, hour, min, 0, 0, loc)
}

func TestIsOpenUnknownExchange(t *testing.T) {
	c := New(testTable)

	instants := []time.Time{
		berlin(t, 10, 0),
		berlin(t, 3, 0),
		time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), // Saturday
	}
	for _, at := range instants {
		if got := c.IsOpen("NOPE", at); got != StateUnknown {
			t.Errorf("IsOpen(NOPE, %v) = %v, want unknown", at, got)
		}
		if got := c.IsOpen("", at); got != StateUnknown {
			t.Errorf("IsOpen(empty, %v) = %v, want unknown", at, got)
		}
	}
}

func TestIsOpenDaytimeSession(t *testing.T) {
	c := New(testTable)

	tests := []struct {
		name string
		at   time.Time
		want State
	}{
		{"open boundary inclusive", berlin(t, 9, 0), StateOpen},
		{"mid session", berlin(t, 12, 30), StateOpen},
		{"close boundary inclusive", berlin(t, 17, 30), StateOpen},
		{"minute after close", berlin(t, 17, 31), StateClosed},
		{"minute before open", berlin(t, 8, 59), StateClosed},
		{"midnight", berlin(t, 0, 0), StateClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsOpen("XET", tt.at); got != tt.want {
				t.Errorf("IsOpen(XET, %v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestIsOpenOvernightSession(t *testing.T) {
	c := New(testTable)

	tests := []struct {
		name string
		at   time.Time
		want State
	}{
		{"late evening", berlin(t, 23, 0), StateOpen},
		{"early morning", berlin(t, 5, 0), StateOpen},
		{"open boundary", berlin(t, 22, 0), StateOpen},
		{"close boundary", berlin(t, 6, 0), StateOpen},
		{"noon is closed", berlin(t, 12, 0), StateClosed},
		{"just after close", berlin(t, 6, 1), StateClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsOpen("NGT", tt.at); got != tt.want {
				t.Errorf("IsOpen(NGT, %v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestIsOpenWeekendClosed(t *testing.T) {
	c := New(testTable)

	loc, _ := time.LoadLocation("Europe/Berlin")
	saturday := time.Date(2024, 6, 15, 12, 0, 0, 0, loc)
	sunday := time.Date(2024, 6, 16, 12, 0, 0, 0, loc)

	if got := c.IsOpen("XET", saturday); got != StateClosed {
		t.Errorf("Saturday = %v, want closed", got)
	}
	if got := c.IsOpen("XET", sunday); got != StateClosed {
		t.Errorf("Sunday = %v, want closed", got)
	}
}

func TestIsOpenConvertsTimezone(t *testing.T) {
	c := New(testTable)

	// 08:00 UTC on a Wednesday is 10:00 in Berlin: inside the session even
	// though the UTC clock reads before the open.
	at := time.Date(2024, 6, 12, 8, 0, 0, 0, time.UTC)
	if got := c.IsOpen("XET", at); got != StateOpen {
		t.Errorf("IsOpen at 08:00 UTC = %v, want open", got)
	}
}

func TestIsOpenBrokenTimezone(t *testing.T) {
	c := New(testTable)
	if got := c.IsOpen("BAD", berlin(t, 10, 0)); got != StateUnknown {
		t.Errorf("broken tz = %v, want unknown", got)
	}
}

func TestDefaultTableResolves(t *testing.T) {
	c := Default()

	// Every built-in entry must carry a loadable timezone and parseable
	// open/close pairs, otherwise IsOpen silently degrades to Unknown.
	for code, hours := range defaultHours {
		if _, err := time.LoadLocation(hours.TZ); err != nil {
			t.Errorf("%s: bad timezone %q: %v", code, hours.TZ, err)
		}
		for d := 0; d < 7; d++ {
			if (hours.Open[d] == "") != (hours.Close[d] == "") {
				t.Errorf("%s day %d: open/close must be empty together", code, d)
			}
			if hours.Open[d] == "" {
				continue
			}
			if _, err := minuteOfDay(hours.Open[d]); err != nil {
				t.Errorf("%s day %d: %v", code, d, err)
			}
			if _, err := minuteOfDay(hours.Close[d]); err != nil {
				t.Errorf("%s day %d: %v", code, d, err)
			}
		}
		if _, ok := c.Hours(code); !ok {
			t.Errorf("Hours(%s) missing", code)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateOpen.String() != "open" || StateClosed.String() != "closed" || StateUnknown.String() != "unknown" {
		t.Error("unexpected State string values")
	}
}
