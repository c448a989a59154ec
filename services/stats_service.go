package services

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sportsys/tournament-admin/repositories"
)

// DatabaseStats — сводные счётчики для админ-панели.
type DatabaseStats struct {
	Players       int `json:"players"`
	Teams         int `json:"teams"`
	Venues        int `json:"venues"`
	Events        int `json:"events"`
	Matches       int `json:"matches"`
	Registrations int `json:"registrations"`
	Admins        int `json:"admins"`
}

type StatsService interface {
	DatabaseStats(ctx context.Context) (*DatabaseStats, error)
	RegistrationOverview(ctx context.Context, eventID int) (*repositories.RegistrationOverview, error)
}

type statsService struct {
	statsRepo repositories.StatsRepository
	eventRepo repositories.EventRepository
}

func NewStatsService(statsRepo repositories.StatsRepository, eventRepo repositories.EventRepository) StatsService {
	return &statsService{statsRepo: statsRepo, eventRepo: eventRepo}
}

// DatabaseStats считает таблицы параллельно: счётчики независимы, а пул
// соединений БД всё равно ограничивает степень параллелизма.
func (s *statsService) DatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for table, dest := range map[string]*int{
		"players":       &stats.Players,
		"teams":         &stats.Teams,
		"venues":        &stats.Venues,
		"events":        &stats.Events,
		"matches":       &stats.Matches,
		"registrations": &stats.Registrations,
		"admins":        &stats.Admins,
	} {
		table, dest := table, dest
		g.Go(func() error {
			count, err := s.statsRepo.CountTable(gctx, table)
			if err != nil {
				return err
			}
			mu.Lock()
			*dest = count
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *statsService) RegistrationOverview(ctx context.Context, eventID int) (*repositories.RegistrationOverview, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.statsRepo.RegistrationOverview(ctx, eventID)
}
