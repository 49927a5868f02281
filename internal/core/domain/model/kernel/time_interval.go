package kernel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MinutesPerDay bounds the minute-of-day values a TimeInterval may hold.
	MinutesPerDay = 24 * 60

	clockLayout = "15:04"
)

var ErrTimeIntervalIsNotConstructed = errs.NewValueIsRequiredError(
	"time interval must be created via NewTimeInterval or ParseTimeInterval constructors")

// TimeInterval is a wall-clock window of a day, with minute resolution and no date.
// Both bounds are inclusive. Windows never cross midnight, so Start() <= End().
//
// Example:
//
//	iv, err := kernel.ParseTimeInterval("09:00-18:00")
//	if err != nil {
//	    // malformed or reversed window
//	}
//	fmt.Println(iv) // 09:00-18:00
type TimeInterval struct { //nolint:recvcheck //using for validation
	start int
	end   int
	guard guard.ConstructorGuard
}

// NewTimeInterval builds a window from minute-of-day offsets.
func NewTimeInterval(start, end int) (TimeInterval, error) {
	if err := errors.Join(
		validateMinute("start", start),
		validateMinute("end", end),
	); err != nil {
		return TimeInterval{}, err
	}

	if end < start {
		return TimeInterval{}, errs.NewValueIsInvalidErrorWithCause(
			"time interval",
			fmt.Errorf("end %s is before start %s", formatMinute(end), formatMinute(start)),
		)
	}

	return TimeInterval{
		start: start,
		end:   end,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// ParseTimeInterval parses the "HH:MM-HH:MM" form used on the wire.
func ParseTimeInterval(raw string) (TimeInterval, error) {
	startRaw, endRaw, ok := strings.Cut(raw, "-")
	if !ok {
		return TimeInterval{}, errs.NewValueIsInvalidErrorWithCause(
			"time interval", fmt.Errorf("%q is not in HH:MM-HH:MM form", raw))
	}

	start, err := parseMinute(startRaw)
	if err != nil {
		return TimeInterval{}, errs.NewValueIsInvalidErrorWithCause("time interval", err)
	}

	end, err := parseMinute(endRaw)
	if err != nil {
		return TimeInterval{}, errs.NewValueIsInvalidErrorWithCause("time interval", err)
	}

	return NewTimeInterval(start, end)
}

// ParseTimeIntervals parses every window and stops at the first malformed one.
func ParseTimeIntervals(raw []string) ([]TimeInterval, error) {
	out := make([]TimeInterval, 0, len(raw))
	for _, r := range raw {
		iv, err := ParseTimeInterval(r)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

func (t TimeInterval) Start() int {
	return t.start
}

func (t TimeInterval) End() int {
	return t.end
}

func (t TimeInterval) Validate() error {
	return t.guard.Validate(ErrTimeIntervalIsNotConstructed)
}

func (t TimeInterval) IsEqual(other TimeInterval) bool {
	return t.start == other.start && t.end == other.end
}

// Overlaps applies the closed-interval test, so windows sharing a single
// boundary minute are considered overlapping.
func (t TimeInterval) Overlaps(other TimeInterval) bool {
	return t.start <= other.end && other.start <= t.end
}

func (t TimeInterval) String() string {
	return formatMinute(t.start) + "-" + formatMinute(t.end)
}

// AnyOverlap reports whether any courier window overlaps any order window.
// An empty collection on either side means there is no viable window.
func AnyOverlap(courierHours, orderHours []TimeInterval) bool {
	for _, c := range courierHours {
		for _, o := range orderHours {
			if c.Overlaps(o) {
				return true
			}
		}
	}
	return false
}

// Strings renders windows in their wire form, preserving order.
func Strings(intervals []TimeInterval) []string {
	out := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, iv.String())
	}
	return out
}

func parseMinute(raw string) (int, error) {
	parsed, err := time.Parse(clockLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func validateMinute(name string, minute int) error {
	if minute < 0 || minute >= MinutesPerDay {
		return errs.NewValueIsOutOfRangeError(name, minute, 0, MinutesPerDay-1)
	}
	return nil
}

func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
