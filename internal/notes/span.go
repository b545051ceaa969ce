package notes

import (
	"regexp"
	"strconv"
	"time"
)

var spanToken = regexp.MustCompile(`(\d+)([dhm])`)

// ParseSpan turns a duration spec like "1d2h30m" into a time.Duration.
// Units are d (days), h (hours) and m (minutes); multiple tokens combine
// additively. Unrecognized text between tokens is ignored, but a spec with
// no valid token at all is rejected so a typo cannot silently become an
// immediately-due alert.
func ParseSpan(span string) (time.Duration, error) {
	matches := spanToken.FindAllStringSubmatch(span, -1)
	if len(matches) == 0 {
		return 0, Usagef("time span must be <number>[dhm], e.g. 1d2h30m")
	}

	var total time.Duration
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, Usagef("bad number %q in time span", m[1])
		}
		switch m[2] {
		case "d":
			total += time.Duration(n) * 24 * time.Hour
		case "h":
			total += time.Duration(n) * time.Hour
		case "m":
			total += time.Duration(n) * time.Minute
		}
	}
	return total, nil
}
