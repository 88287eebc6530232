package race

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedDuration reports a time cell that matches none of the
// accepted formats. Callers wrap it with the row context.
var ErrMalformedDuration = errors.New("malformed duration")

// ParseDuration converts one time cell of a timing export to elapsed
// seconds. Accepted forms: "H:MM:SS" (also "HH:MM:SS"), "MM:SS", and a bare
// seconds count. The empty cell and the literal 00:00:00 both mean "no time
// recorded" and yield an absent value without error; timing systems emit
// 00:00:00 for legs an athlete never completed, and zero elapsed time is
// physically impossible.
func ParseDuration(text string) (Seconds, error) {
	t := strings.TrimSpace(text)
	if t == "" || t == "00:00:00" {
		return Seconds{}, nil
	}
	parts := strings.Split(t, ":")
	if len(parts) > 3 {
		return Seconds{}, fmt.Errorf("%w: %q", ErrMalformedDuration, text)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return Seconds{}, fmt.Errorf("%w: %q", ErrMalformedDuration, text)
		}
		total = total*60 + n
	}
	return Some(total), nil
}
