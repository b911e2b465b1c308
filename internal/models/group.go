package models

// Group represents a fixed set of users that share expenses.
//
// Membership is set at creation and never changes: there is no add-member or
// remove-member operation. A group must have at least one member and must
// contain the ledger's current user.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Trip to Hawaii").
	Name string

	// MemberIDs is the list of user IDs in this group, in creation order.
	MemberIDs []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether the user belongs to this group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
