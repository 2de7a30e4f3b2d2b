package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// State is the market state of an exchange at a given instant.
type State int

const (
	// StateUnknown means the exchange has no market-hours entry; the
	// coordinator must not apply market-hour throttling.
	StateUnknown State = iota

	// StateOpen means the exchange is inside its trading session.
	StateOpen

	// StateClosed means the exchange has a known schedule and is outside
	// its trading session.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Hours holds the weekly schedule for one exchange. Open and Close are
// local "HH:MM" strings indexed Monday=0 through Sunday=6; an empty string
// on either side means closed all day.
type Hours struct {
	Name  string    // Display name (e.g., "XETRA")
	TZ    string    // IANA timezone of the exchange's local clock
	Open  [7]string // Opening time per weekday
	Close [7]string // Closing time per weekday
}

// Calendar answers market-state queries against a static hours table.
type Calendar struct {
	table map[string]Hours
}

// New creates a Calendar over the given table. The table is not copied;
// callers must treat it as read-only afterwards.
func New(table map[string]Hours) *Calendar {
	return &Calendar{table: table}
}

// Default returns a Calendar over the built-in exchange table.
func Default() *Calendar {
	return New(defaultHours)
}

// Hours returns the schedule entry for an exchange code, if present.
func (c *Calendar) Hours(exchange string) (Hours, bool) {
	h, ok := c.table[exchange]
	return h, ok
}

// IsOpen returns the market state of the given exchange at instant `at`.
//
// Sessions are inclusive at both boundaries. A close at or before the open
// denotes an overnight session: the market is open when the local time is
// at or after the open OR at or before the close.
func (c *Calendar) IsOpen(exchange string, at time.Time) State {
	if exchange == "" {
		return StateUnknown
	}
	hours, ok := c.table[exchange]
	if !ok {
		return StateUnknown
	}

	loc, err := time.LoadLocation(hours.TZ)
	if err != nil {
		// A broken table entry must not throttle polling.
		return StateUnknown
	}
	local := at.In(loc)
	wd := mondayIndex(local.Weekday())

	openStr := strings.TrimSpace(hours.Open[wd])
	closeStr := strings.TrimSpace(hours.Close[wd])
	if openStr == "" || closeStr == "" {
		return StateClosed // closed all day
	}

	open, err1 := minuteOfDay(openStr)
	cls, err2 := minuteOfDay(closeStr)
	if err1 != nil || err2 != nil {
		return StateUnknown
	}
	now := local.Hour()*60 + local.Minute()

	if cls <= open {
		// Overnight session, e.g. 22:00-06:00.
		if now >= open || now <= cls {
			return StateOpen
		}
		return StateClosed
	}

	if open <= now && now <= cls {
		return StateOpen
	}
	return StateClosed
}

// mondayIndex converts Go's Sunday-based weekday to the Monday-based index
// used by the hours table.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// minuteOfDay parses an "HH:MM" string into minutes since local midnight.
func minuteOfDay(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	hh, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("malformed hour in %q", s)
	}
	mm, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("malformed minute in %q", s)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return hh*60 + mm, nil
}
