// Package repository keeps per-session state in process memory. Every
// accessor returns copies, so callers can never mutate stored records
package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrStaleGeneration = errors.New("conversation moved on since the request started")
)
