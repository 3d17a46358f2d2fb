// Package authz holds the ownership predicate applied before every
// mutate-or-delete operation on videos and comments. Keeping the check in
// one place guarantees uniform forbidden semantics across handlers.
package authz

import "errors"

// ErrForbidden is returned when the caller is authenticated but does not
// own the resource. Handlers translate it into HTTP 403. Existence of the
// resource is deliberately not hidden from non-owners.
var ErrForbidden = errors.New("forbidden")

// RequireOwner compares the caller's id with the resource's owning user id.
// The comparison is by stable id value; both sides come from the store or
// the verified token, never from client-supplied ownership fields.
func RequireOwner(callerID, ownerID string) error {
	if callerID == "" || callerID != ownerID {
		return ErrForbidden
	}
	return nil
}
