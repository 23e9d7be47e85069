// Package policy holds the write-access predicates the API layer checks
// before any mutating store call. Both predicates are pure functions.
package policy

import "net/http"

// Actor is the authenticated caller. A nil *Actor is an anonymous caller.
type Actor struct {
	ID      string
	IsStaff bool
}

// Owned is implemented by every entity that has an owning user.
type Owned interface {
	OwnerID() string
}

// IsSafeMethod reports whether method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// StaffWriteOnly permits reads to anyone and writes to staff only.
func StaffWriteOnly(method string, actor *Actor) bool {
	if IsSafeMethod(method) {
		return true
	}
	return actor != nil && actor.IsStaff
}

// OwnerOrStaffWrite permits reads to anyone and writes to staff or the
// resource owner.
func OwnerOrStaffWrite(method string, actor *Actor, resource Owned) bool {
	if IsSafeMethod(method) {
		return true
	}
	if actor == nil {
		return false
	}
	if actor.IsStaff {
		return true
	}
	return resource != nil && actor.ID != "" && resource.OwnerID() == actor.ID
}

// CheckWritePermission runs before every mutating store call. A nil
// resource means the entity is staff-write-only; otherwise the owner or
// staff may write.
func CheckWritePermission(method string, actor *Actor, resource Owned) bool {
	if resource == nil {
		return StaffWriteOnly(method, actor)
	}
	return OwnerOrStaffWrite(method, actor, resource)
}
