package model

import (
	"encoding/json"
	"fmt"
)

// Role is the access tier of a user. The set is closed: anything outside
// Admin, Manager and Staff fails to parse.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleStaff   Role = "Staff"
)

// AllRoles lists the roles from the highest to the lowest rank
var AllRoles = []Role{RoleAdmin, RoleManager, RoleStaff}

// Rank orders roles: Staff < Manager < Admin. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleStaff:
		return 1
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast reports whether r carries every capability of min
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw string to a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
