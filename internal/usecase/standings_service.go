package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/domain/standings"
	"github.com/kickpredict/api/internal/platform/cache"
)

type StandingsService struct {
	matchRepo match.Repository
	store     *cache.Store
}

func NewStandingsService(matchRepo match.Repository, store *cache.Store) *StandingsService {
	return &StandingsService{
		matchRepo: matchRepo,
		store:     store,
	}
}

// GroupTables derives group-stage tables from finished group matches. An
// empty group returns every group in alphabetical order.
func (s *StandingsService) GroupTables(ctx context.Context, group string) ([]standings.GroupTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GroupTables")
	defer span.End()

	group = strings.ToUpper(strings.TrimSpace(group))

	if s.store == nil {
		return s.compute(ctx, group)
	}

	out, err := s.store.GetOrLoad(ctx, "standings:"+group, func(ctx context.Context) (any, error) {
		return s.compute(ctx, group)
	})
	if err != nil {
		return nil, err
	}

	return out.([]standings.GroupTable), nil
}

func (s *StandingsService) compute(ctx context.Context, group string) ([]standings.GroupTable, error) {
	matches, err := s.matchRepo.List(ctx, match.Filter{
		Stage: match.StageGroup,
		Group: group,
	})
	if err != nil {
		return nil, fmt.Errorf("list group matches: %w", err)
	}
	if group != "" && len(matches) == 0 {
		return nil, fmt.Errorf("%w: group=%s", ErrNotFound, group)
	}

	byGroup := make(map[string][]match.Match)
	for _, m := range matches {
		byGroup[m.Group] = append(byGroup[m.Group], m)
	}

	groups := make([]string, 0, len(byGroup))
	for name := range byGroup {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	tables := make([]standings.GroupTable, 0, len(groups))
	for _, name := range groups {
		tables = append(tables, standings.GroupTable{
			Group: name,
			Rows:  standings.ComputeTable(byGroup[name]),
		})
	}

	return tables, nil
}
