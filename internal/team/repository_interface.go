package team

import "context"

type Repository interface {
	CreateTeam(ctx context.Context, name string, ownerID int, inviteCode string) (*Team, error)
	GetTeamByID(ctx context.Context, id int) (*Team, error)
	GetTeamByInviteCode(ctx context.Context, code string) (*Team, error)
	UpdatePolicy(ctx context.Context, teamID int, req UpdatePolicyRequest) (*Team, error)
	RegenerateInviteCode(ctx context.Context, teamID int, code string) error
}
