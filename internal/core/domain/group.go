package domain

// Group represents a set of users who share expenses together.
type Group struct {
	GroupID string   `json:"groupID"` // Primary Key (e.g., UUID)
	Name    string   `json:"name"`
	Icon    string   `json:"icon"`    // Emoji or image identifier, may be empty
	Members []string `json:"members"` // UserIDs of group members
	AuditFields
}

// HasMember reports whether the given user belongs to the group.
func (g Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
