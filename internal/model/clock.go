package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidClock    = errors.New("model: invalid clock")
	ErrInvalidHour     = errors.New("model: hour must be within 1..12")
	ErrInvalidMeridiem = errors.New("model: meridiem must be AM or PM")
)

// Clock is a 24-hour wall-clock time without a date.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// ParseClock parses "H:MM" or "HH:MM" in 24-hour form.
func ParseClock(raw string) (Clock, error) {
	raw = strings.TrimSpace(raw)
	h, m, ok := strings.Cut(raw, ":")
	if !ok {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	c := Clock{Hour: hour, Minute: minute}
	if !c.Valid() {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return c, nil
}

type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

func (m Meridiem) IsValid() bool {
	return m == AM || m == PM
}

func (m Meridiem) Toggle() Meridiem {
	if m == PM {
		return AM
	}
	return PM
}

// ParseMeridiem accepts am/pm in any case.
func ParseMeridiem(raw string) (Meridiem, error) {
	switch Meridiem(strings.ToUpper(strings.TrimSpace(raw))) {
	case AM:
		return AM, nil
	case PM:
		return PM, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMeridiem, raw)
	}
}

// Clock12 is the form-side representation of a time.
type Clock12 struct {
	Hour     int
	Minute   int
	Meridiem Meridiem
}

func (c Clock12) String() string {
	return fmt.Sprintf("%d:%02d %s", c.Hour, c.Minute, c.Meridiem)
}

// To24Hour converts a 12-hour time. 12 AM is midnight, 12 PM stays noon.
// The minute is clamped to [0,59].
func To24Hour(hour12, minute int, m Meridiem) (Clock, error) {
	if hour12 < 1 || hour12 > 12 {
		return Clock{}, fmt.Errorf("%w: %d", ErrInvalidHour, hour12)
	}
	if !m.IsValid() {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidMeridiem, m)
	}
	hour := hour12
	switch {
	case m == AM && hour12 == 12:
		hour = 0
	case m == PM && hour12 != 12:
		hour += 12
	}
	return Clock{Hour: hour, Minute: clampMinute(minute)}, nil
}

// To12Hour is the inverse of To24Hour.
func To12Hour(c Clock) Clock12 {
	out := Clock12{Hour: c.Hour, Minute: c.Minute, Meridiem: AM}
	switch {
	case c.Hour == 0:
		out.Hour = 12
	case c.Hour == 12:
		out.Meridiem = PM
	case c.Hour > 12:
		out.Hour = c.Hour - 12
		out.Meridiem = PM
	}
	return out
}

// NormalizeMinuteInput sanitizes a minute field while it is being typed:
// non-digits are dropped, only the last two entered digits are kept and the
// value is clamped to 59.
func NormalizeMinuteInput(raw string) string {
	digits := make([]rune, 0, len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > 2 {
		digits = digits[len(digits)-2:]
	}
	out := string(digits)
	if n, err := strconv.Atoi(out); err == nil && n > 59 {
		return "59"
	}
	return out
}

// PadMinute left-pads a normalized minute to two digits. Empty stays empty.
func PadMinute(raw string) string {
	raw = NormalizeMinuteInput(raw)
	if len(raw) == 1 {
		return "0" + raw
	}
	return raw
}

func clampMinute(m int) int {
	if m < 0 {
		return 0
	}
	if m > 59 {
		return 59
	}
	return m
}
