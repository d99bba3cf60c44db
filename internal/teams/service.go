package teams

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Service contains team business logic.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create makes a new team with the caller as owner.
func (s *Service) Create(ctx context.Context, ownerID, name, description string) (Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Team{}, errors.New("team name is required")
	}

	team := Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	owner := Member{
		ID:     uuid.NewString(),
		TeamID: team.ID,
		UserID: ownerID,
		Role:   MemberRoleOwner,
	}
	if err := s.Repo.Create(ctx, team, owner); err != nil {
		return Team{}, err
	}
	return team, nil
}

// ListForUser returns the teams the user belongs to.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Team, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// AddMember adds a user to a team; only existing members may invite.
func (s *Service) AddMember(ctx context.Context, teamID, callerID, userID, role string) (Member, error) {
	if role == "" {
		role = MemberRoleMember
	}
	if role != MemberRoleOwner && role != MemberRoleMember {
		return Member{}, errors.New("unknown member role")
	}

	ok, err := s.Repo.IsMember(ctx, teamID, callerID)
	if err != nil {
		return Member{}, err
	}
	if !ok {
		return Member{}, ErrNotFound
	}

	member := Member{
		ID:     uuid.NewString(),
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	}
	if err := s.Repo.AddMember(ctx, member); err != nil {
		return Member{}, err
	}
	return member, nil
}

// Members lists a team's membership; restricted to members.
func (s *Service) Members(ctx context.Context, teamID, callerID string) ([]Member, error) {
	ok, err := s.Repo.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.Repo.ListMembers(ctx, teamID)
}
