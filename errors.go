package main

import (
	"errors"
	"fmt"
)

// Sentinel errors for gateway and batch operations.
var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrNoSelection indicates a batch operation was requested with
	// nothing selected. User-level guidance, not a fault.
	ErrNoSelection = errors.New("nothing selected")

	// ErrNoDestination indicates a copy/move target pane that is not
	// inside a bucket.
	ErrNoDestination = errors.New("destination pane is not inside a bucket")

	// ErrNotInBucket indicates a batch operation on a pane that is still
	// at the bucket-selection level.
	ErrNotInBucket = errors.New("select objects inside a bucket first")
)

// GatewayError wraps a failed remote call with positional context.
type GatewayError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// ListingError wraps a gateway failure during a listing with the
// bucket/prefix being listed.
type ListingError struct {
	Bucket string
	Prefix string
	Err    error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("listing %s/%s: %v", e.Bucket, e.Prefix, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// TooLargeError indicates an object exceeds the size limit for an
// in-memory fetch.
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("object too large (%d bytes, limit %d)", e.Size, e.Limit)
}

// LocalIOError indicates a local filesystem failure during an upload or
// download.
type LocalIOError struct {
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("local file %s: %v", e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err indicates a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
