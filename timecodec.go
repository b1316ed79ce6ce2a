package bustracker

import "time"

// The API stamps responses as "YYYYMMDD HH:MM:SS", except for the
// endpoints that drop the seconds. Both forms are live upstream
// behavior, not a bug to normalize away on the server side.
const (
	timeLayoutSeconds = "20060102 15:04:05"
	timeLayoutMinutes = "20060102 15:04"
)

// ParseTimestamp parses a tracker timestamp, trying the seconds-bearing
// layout first and falling back to the minute-only layout. Times carry
// no zone on the wire and are parsed in the local location so they can
// be compared against time.Now.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(timeLayoutSeconds, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(timeLayoutMinutes, s, time.Local)
	if err != nil {
		return time.Time{}, &TimeFormatError{Value: s}
	}
	return t, nil
}
