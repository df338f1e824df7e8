package messages

import "fmt"

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Validate validates that a role is one of the recognized input roles.
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return nil
	default:
		return NewRoleMappingError(r)
	}
}

// CanonicalRole collapses an input role to one of the two roles a canonical
// message may carry. Tool traffic is owned by the assistant turn it belongs
// to; this mapping is deliberately lossy for backward output compatibility.
func CanonicalRole(r Role) (Role, error) {
	switch r {
	case RoleUser:
		return RoleUser, nil
	case RoleAssistant, RoleTool:
		return RoleAssistant, nil
	case RoleSystem:
		// System messages never enter the canonical list; callers route them
		// to the system channel before converting.
		return "", fmt.Errorf("system role has no canonical mapping")
	default:
		return "", NewRoleMappingError(r)
	}
}
