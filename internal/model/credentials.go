package model

import (
	"errors"
	"strings"
)

// DestinationTokenPrefix is required on write tokens; emoji.add rejects
// generic user tokens.
const DestinationTokenPrefix = "xoxs-"

var ErrDestinationTokenFormat = errors.New("destination token must start with " + DestinationTokenPrefix)

var ErrTokenRequired = errors.New("token is required")

func ValidateSourceToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrTokenRequired
	}
	return nil
}

func ValidateDestinationToken(token string) error {
	t := strings.TrimSpace(token)
	if t == "" {
		return ErrTokenRequired
	}
	if !strings.HasPrefix(t, DestinationTokenPrefix) {
		return ErrDestinationTokenFormat
	}
	return nil
}
