package notes

import "unicode"

// Access gate modes for quote/memo commands, set per channel.
const (
	AccessOff = "off"
	AccessAll = "all"
)

// Allowed reports whether an annotation operation may use value as a target
// user name under the given channel mode. "off" denies everything and "all"
// allows everything; any other mode is restricted: the value must be empty
// or consist entirely of letters, digits and underscores. This keeps
// arbitrary free text out of stored-record keys in sensitive channels.
func Allowed(mode, value string) bool {
	switch mode {
	case AccessOff:
		return false
	case AccessAll:
		return true
	}
	for _, r := range value {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
