package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID for the current instant. Used to tag published
// commands so a publish can be traced through the logs.
func New() string {
	return NewAt(time.Now())
}

// NewAt generates a ULID whose time component is t.
func NewAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
