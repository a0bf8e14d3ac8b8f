package team

import (
	"context"
	"crypto/rand"
	"errors"

	"github.com/ifex-stack/kickbook-sub000/internal/user"
)

var (
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrNotTeamOwner      = errors.New("only the team owner can do this")
	ErrAlreadyInTeam     = errors.New("user already belongs to a team")
)

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type Service interface {
	CreateTeam(ctx context.Context, ownerID int, req CreateTeamRequest) (*Team, error)
	JoinTeam(ctx context.Context, userID int, req JoinTeamRequest) (*Team, error)
	GetTeam(ctx context.Context, teamID int) (*Team, error)
	GetRoster(ctx context.Context, teamID int) ([]user.User, error)
	LeaveTeam(ctx context.Context, userID int) error
	RemoveMember(ctx context.Context, actorID, teamID, memberID int) error
	UpdatePolicy(ctx context.Context, actorID, teamID int, req UpdatePolicyRequest) (*Team, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
}

func NewService(repo Repository, userRepo user.Repository) Service {
	return &service{repo: repo, userRepo: userRepo}
}

func newInviteCode() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = inviteCodeAlphabet[int(b[i])%len(inviteCodeAlphabet)]
	}
	return string(b)
}

func (s *service) CreateTeam(ctx context.Context, ownerID int, req CreateTeamRequest) (*Team, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, user.ErrUserNotFound
	}
	if owner.TeamID != nil {
		return nil, ErrAlreadyInTeam
	}

	team, err := s.repo.CreateTeam(ctx, req.Name, ownerID, newInviteCode())
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetTeam(ctx, ownerID, &team.ID); err != nil {
		return nil, err
	}

	return team, nil
}

func (s *service) JoinTeam(ctx context.Context, userID int, req JoinTeamRequest) (*Team, error) {
	member, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, user.ErrUserNotFound
	}
	if member.TeamID != nil {
		return nil, ErrAlreadyInTeam
	}

	team, err := s.repo.GetTeamByInviteCode(ctx, req.InviteCode)
	if err != nil {
		return nil, ErrInvalidInviteCode
	}

	if err := s.userRepo.SetTeam(ctx, userID, &team.ID); err != nil {
		return nil, err
	}

	return team, nil
}

func (s *service) GetTeam(ctx context.Context, teamID int) (*Team, error) {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

func (s *service) GetRoster(ctx context.Context, teamID int) ([]user.User, error) {
	return s.userRepo.ListByTeam(ctx, teamID)
}

func (s *service) LeaveTeam(ctx context.Context, userID int) error {
	member, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return user.ErrUserNotFound
	}
	if member.TeamID == nil {
		return ErrTeamNotFound
	}

	team, err := s.repo.GetTeamByID(ctx, *member.TeamID)
	if err == nil && team.OwnerID == userID {
		return ErrNotTeamOwner // owners transfer or disband, they do not just walk away
	}

	return s.userRepo.SetTeam(ctx, userID, nil)
}

func (s *service) RemoveMember(ctx context.Context, actorID, teamID, memberID int) error {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return ErrTeamNotFound
	}
	if team.OwnerID != actorID {
		return ErrNotTeamOwner
	}
	if memberID == team.OwnerID {
		return ErrNotTeamOwner
	}

	member, err := s.userRepo.FindByID(ctx, memberID)
	if err != nil || member.TeamID == nil || *member.TeamID != teamID {
		return user.ErrUserNotFound
	}

	return s.userRepo.SetTeam(ctx, memberID, nil)
}

func (s *service) UpdatePolicy(ctx context.Context, actorID, teamID int, req UpdatePolicyRequest) (*Team, error) {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, ErrTeamNotFound
	}
	if team.OwnerID != actorID {
		return nil, ErrNotTeamOwner
	}

	return s.repo.UpdatePolicy(ctx, teamID, req)
}
