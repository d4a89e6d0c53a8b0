package slack

import "strings"

const aliasPrefix = "alias:"

// AliasTarget reports whether a listing value points at another emoji.
func AliasTarget(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, aliasPrefix) {
		return "", false
	}
	return strings.TrimPrefix(v, aliasPrefix), true
}
