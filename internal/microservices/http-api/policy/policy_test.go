package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type owned string

func (o owned) OwnerID() string { return string(o) }

func TestStaffWriteOnly(t *testing.T) {
	staff := &Actor{ID: "u-staff", IsStaff: true}
	user := &Actor{ID: "u-1"}

	tests := []struct {
		name   string
		method string
		actor  *Actor
		want   bool
	}{
		{"anonymous read", http.MethodGet, nil, true},
		{"anonymous head", http.MethodHead, nil, true},
		{"anonymous write", http.MethodPost, nil, false},
		{"user write", http.MethodPut, user, false},
		{"user delete", http.MethodDelete, user, false},
		{"staff write", http.MethodPatch, staff, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StaffWriteOnly(tt.method, tt.actor))
		})
	}
}

func TestOwnerOrStaffWrite(t *testing.T) {
	staff := &Actor{ID: "u-staff", IsStaff: true}
	owner := &Actor{ID: "u-1"}
	other := &Actor{ID: "u-2"}
	resource := owned("u-1")

	tests := []struct {
		name     string
		method   string
		actor    *Actor
		resource Owned
		want     bool
	}{
		{"anonymous read", http.MethodGet, nil, resource, true},
		{"anonymous write", http.MethodDelete, nil, resource, false},
		{"owner write", http.MethodPut, owner, resource, true},
		{"other write", http.MethodPut, other, resource, false},
		{"staff write on foreign resource", http.MethodDelete, staff, resource, true},
		{"empty actor id never matches empty owner", http.MethodPut, &Actor{}, owned(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OwnerOrStaffWrite(tt.method, tt.actor, tt.resource))
		})
	}
}

func TestCheckWritePermission(t *testing.T) {
	user := &Actor{ID: "u-1"}

	assert.False(t, CheckWritePermission(http.MethodPost, user, nil), "nil resource means staff only")
	assert.True(t, CheckWritePermission(http.MethodPost, user, owned("u-1")))
	assert.True(t, CheckWritePermission(http.MethodGet, nil, nil))
}
