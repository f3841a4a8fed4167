// Package callback encodes button payloads as "scope:verb:arg1:arg2...".
package callback

import (
	"strconv"
	"strings"
)

const sep = ":"

// Payload is a decoded button press.
type Payload struct {
	Scope string
	Verb  string
	Args  []string
}

// Encode joins the parts. Parts must not contain ':'.
func Encode(scope, verb string, args ...string) string {
	parts := append([]string{scope, verb}, args...)
	return strings.Join(parts, sep)
}

// Decode splits a payload. ok is false when scope or verb is missing.
func Decode(s string) (Payload, bool) {
	parts := strings.Split(s, sep)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Payload{}, false
	}
	return Payload{Scope: parts[0], Verb: parts[1], Args: parts[2:]}, true
}

// Arg returns the i-th argument or "".
func (p Payload) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// IntArg parses the i-th argument.
func (p Payload) IntArg(i int) (int, bool) {
	n, err := strconv.Atoi(p.Arg(i))
	return n, err == nil
}
