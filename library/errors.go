package library

import "errors"

// Expected lending failures. They are wrapped with the book title and
// should be matched with errors.Is.
var (
	ErrBookUnavailable = errors.New("book is not available")
	ErrBookNotHeld     = errors.New("book is not held by reader")
	ErrBookNotFound    = errors.New("book not found in catalog")
)
