package models

import "slices"

// Group represents a set of members who share entries.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// OwnerID is the user who created the group. Only the owner may delete
	// the group, remove members or change the password.
	OwnerID string

	// MemberIDs lists member user IDs in join order. The owner is always a member.
	MemberIDs []string

	// Public groups can be joined without a password.
	Public bool

	// PasswordHash is the bcrypt hash of the join password for private groups.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	return slices.Contains(g.MemberIDs, userID)
}
