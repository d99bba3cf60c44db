package teams

import "time"

// Team groups users collaborating on cases.
type Team struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Member is a user's membership in a team.
type Member struct {
	ID       string
	TeamID   string
	UserID   string
	Role     string
	JoinedAt time.Time
}

const (
	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"
)
