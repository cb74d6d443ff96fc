package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kickpredict/api/internal/domain/league"
	"github.com/kickpredict/api/internal/domain/user"
	"github.com/kickpredict/api/internal/platform/id"
)

const (
	maxLeagueNameLength = 64
	inviteCodeAttempts  = 5
)

type LeagueService struct {
	leagueRepo league.Repository
	userRepo   user.Repository
	idGen      id.Generator
	now        func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	userRepo user.Repository,
	idGen id.Generator,
	now func() time.Time,
) *LeagueService {
	if now == nil {
		now = time.Now
	}
	return &LeagueService{
		leagueRepo: leagueRepo,
		userRepo:   userRepo,
		idGen:      idGen,
		now:        now,
	}
}

type CreateLeagueInput struct {
	Name        string
	Description string
}

// Create registers a new private league owned by the caller. Invite codes
// are random; a collision with an existing league retries with a fresh code.
func (s *LeagueService) Create(ctx context.Context, principal user.Principal, in CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	if principal.UserID == "" {
		return league.League{}, fmt.Errorf("%w: missing principal", ErrUnauthorized)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if len(name) > maxLeagueNameLength {
		return league.League{}, fmt.Errorf("%w: league name exceeds %d characters", ErrInvalidInput, maxLeagueNameLength)
	}

	if err := s.userRepo.Save(ctx, user.User{
		ID:       principal.UserID,
		Username: principal.Username,
	}); err != nil {
		return league.League{}, fmt.Errorf("save user: %w", err)
	}

	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := league.NewInviteCode()
		if err != nil {
			return league.League{}, fmt.Errorf("generate invite code: %w", err)
		}

		newID, err := s.idGen.NewID()
		if err != nil {
			return league.League{}, fmt.Errorf("generate id: %w", err)
		}

		item := league.League{
			ID:          newID,
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			InviteCode:  code,
			OwnerUserID: principal.UserID,
			MemberIDs:   []string{principal.UserID},
			CreatedAt:   s.now(),
		}
		if err := item.Validate(); err != nil {
			return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		err = s.leagueRepo.Create(ctx, item)
		if errors.Is(err, league.ErrDuplicateInviteCode) {
			continue
		}
		if err != nil {
			return league.League{}, fmt.Errorf("create league: %w", err)
		}

		return item, nil
	}

	return league.League{}, fmt.Errorf("%w: could not allocate a unique invite code", ErrConflict)
}

// Join adds the caller to the league behind an invite code. Codes are
// case-insensitive on input.
func (s *LeagueService) Join(ctx context.Context, principal user.Principal, inviteCode string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Join")
	defer span.End()

	if principal.UserID == "" {
		return league.League{}, fmt.Errorf("%w: missing principal", ErrUnauthorized)
	}
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return league.League{}, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByInviteCode(ctx, code)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by invite code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: invite code is not recognized", ErrNotFound)
	}

	if err := s.userRepo.Save(ctx, user.User{
		ID:       principal.UserID,
		Username: principal.Username,
	}); err != nil {
		return league.League{}, fmt.Errorf("save user: %w", err)
	}

	err = s.leagueRepo.AddMember(ctx, lg.ID, principal.UserID)
	if errors.Is(err, league.ErrDuplicateMember) {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrAlreadyMember, lg.ID)
	}
	if err != nil {
		return league.League{}, fmt.Errorf("add member: %w", err)
	}

	joined, exists, err := s.leagueRepo.GetByID(ctx, lg.ID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, lg.ID)
	}

	return joined, nil
}

// Get returns league details to members only.
func (s *LeagueService) Get(ctx context.Context, principal user.Principal, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Get")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if !lg.IsMember(principal.UserID) {
		return league.League{}, fmt.Errorf("%w: not a member of league=%s", ErrUnauthorized, leagueID)
	}

	return lg, nil
}

func (s *LeagueService) ListMine(ctx context.Context, principal user.Principal) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMine")
	defer span.End()

	if principal.UserID == "" {
		return nil, fmt.Errorf("%w: missing principal", ErrUnauthorized)
	}

	leagues, err := s.leagueRepo.ListByMember(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by member: %w", err)
	}

	return leagues, nil
}
