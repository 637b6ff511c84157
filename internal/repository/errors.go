// Package repository implements MySQL persistence for accounts,
// refresh tokens and scholarship listings.  Sentinel errors defined
// here let handlers map failure modes onto the right HTTP responses
// without string matching.
package repository

import "errors"

// ErrUsernameExists is returned when signup collides with an
// existing username.  Handlers translate it to HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrNotFound is returned for point lookups that match nothing.
// Handlers translate it to HTTP 404 or treat it as an absent result.
var ErrNotFound = errors.New("not found")
