package models

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrRunInProgress   = errors.New("organization run already in progress")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrSourceRoot      = errors.New("source root inaccessible")
	ErrDestinationRoot = errors.New("destination root inaccessible")
)

// UnreadableError marks a file that could not be opened or hashed. It is
// recorded on the file's record; the run continues.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("unreadable file %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error {
	return e.Err
}

// MoveError marks a failed move or copy. The source file is left intact.
type MoveError struct {
	Source      string
	Destination string
	Err         error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s -> %s: %v", e.Source, e.Destination, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// RootError marks a fatal failure to access the source root or create the
// destination root. It aborts the run before any files are touched.
type RootError struct {
	Root string
	Path string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("%s root %s: %v", e.Root, e.Path, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for whichever root failed.
func (e *RootError) Is(target error) bool {
	switch target {
	case ErrSourceRoot:
		return e.Root == "source"
	case ErrDestinationRoot:
		return e.Root == "destination"
	}
	return false
}
