package models

// Group represents a group row; the member list lives in group_members.
type Group struct {
	GroupID string `json:"groupID" db:"group_id"`
	Name    string `json:"name" db:"name"`
	Icon    string `json:"icon" db:"icon"`
	AuditFields
}

// GroupMember links a user to a group.
type GroupMember struct {
	GroupID string `json:"groupID" db:"group_id"`
	UserID  string `json:"userID" db:"user_id"`
}
