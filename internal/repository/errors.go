// Package repository defines the persistence interfaces for users, videos
// and comments plus their MongoDB and in-memory implementations. Sentinel
// errors declared here let handlers translate storage failures into the
// HTTP error taxonomy without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a referenced document does not exist.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by user creation when the email is already
// taken. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrSelfSubscribe is returned when a user attempts to subscribe to their
// own channel. Handlers translate it into HTTP 400 (invalid_operation).
var ErrSelfSubscribe = errors.New("cannot subscribe to own channel")
