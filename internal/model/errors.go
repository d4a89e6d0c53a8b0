package model

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks a malformed internal call. It aborts the run.
var ErrInvalidArgument = errors.New("invalid argument")

// FetchError is a failed image retrieval for one emoji.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UploadError is a failed creation call for one emoji. Code holds the
// service-level error string when the service answered ok=false.
type UploadError struct {
	Name       string
	Code       string
	StatusCode int
	Err        error
}

func (e *UploadError) Error() string {
	if e.Code != "" {
		return e.Code
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("upload %s: status %d: %v", e.Name, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upload %s: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

type SourceListError struct {
	Code string
	Err  error
}

func (e *SourceListError) Error() string {
	switch {
	case e.Code != "" && e.Err != nil:
		return fmt.Sprintf("list source emoji: %s: %v", e.Code, e.Err)
	case e.Code != "":
		return fmt.Sprintf("list source emoji: %s", e.Code)
	default:
		return fmt.Sprintf("list source emoji: %v", e.Err)
	}
}

func (e *SourceListError) Unwrap() error { return e.Err }

type CredentialInputError struct {
	Field string
	Err   error
}

func (e *CredentialInputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *CredentialInputError) Unwrap() error { return e.Err }
