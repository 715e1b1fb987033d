package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/models"
	"github.com/Dosada05/horse-tournament/repositories"
	"golang.org/x/sync/errgroup"
)

// seedingConcurrency ограничивает параллельные запросы истории при посеве.
const seedingConcurrency = 4

// StandingsArchiver сохраняет снимок завершённой таблицы и возвращает его адрес.
type StandingsArchiver interface {
	ArchiveStandings(ctx context.Context, standings *models.Standings) (string, error)
}

// StandingsService - серверная часть редактора турнирной таблицы.
type StandingsService interface {
	StandingsGateway
}

type standingsService struct {
	repo     repositories.TournamentRepository
	archiver StandingsArchiver
	rounds   int
	logger   *slog.Logger
}

// NewStandingsService создаёт сервис. archiver может быть nil, тогда
// завершённые турниры не архивируются.
func NewStandingsService(repo repositories.TournamentRepository, archiver StandingsArchiver, rounds int, logger *slog.Logger) StandingsService {
	if rounds <= 0 {
		rounds = brackets.DefaultRounds
	}
	return &standingsService{
		repo:     repo,
		archiver: archiver,
		rounds:   rounds,
		logger:   logger,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) (*models.Standings, error) {
	tournament, participants, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return s.build(tournament, participants)
}

func (s *standingsService) GenerateFirstRound(ctx context.Context, tournamentID int) (*models.Standings, error) {
	tournament, participants, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSize(participants); err != nil {
		return nil, err
	}

	history := make([][]models.PriorResult, len(participants))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(seedingConcurrency)
	for i, p := range participants {
		g.Go(func() error {
			results, err := s.repo.ListPriorResults(gCtx, p.HorseID, tournament.StartDate.Time)
			if err != nil {
				return fmt.Errorf("history of horse %d: %w", p.HorseID, err)
			}
			history[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load seeding history for tournament %d: %w", tournamentID, err)
	}

	var results []models.PriorResult
	for _, h := range history {
		results = append(results, h...)
	}
	seeded := SeedParticipants(participants, results)

	s.logger.InfoContext(ctx, "first round generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("participants", len(seeded)))
	return s.build(tournament, seeded)
}

func (s *standingsService) SaveStandings(ctx context.Context, tournamentID int, input models.UpdateParticipantsInput) (*models.Standings, error) {
	if err := ValidateParticipants(input.Participants, s.rounds); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapRepositoryError(err)
	}

	err := s.repo.InTransaction(ctx, func(exec repositories.SQLExecutor) error {
		return s.repo.UpdateParticipants(ctx, exec, tournamentID, input.Participants)
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	standings, err := s.GetStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "standings saved",
		slog.Int("tournament_id", tournamentID),
		slog.Int("participants", len(input.Participants)))

	if winner, ok := brackets.Champion(standings.Participants, s.rounds); ok {
		s.archive(ctx, standings, winner)
	}
	return standings, nil
}

func (s *standingsService) archive(ctx context.Context, standings *models.Standings, winner *models.Participant) {
	if s.archiver == nil {
		return
	}
	location, err := s.archiver.ArchiveStandings(ctx, standings)
	if err != nil {
		// Архив не критичен: сохранение уже прошло.
		s.logger.WarnContext(ctx, "failed to archive standings",
			slog.Int("tournament_id", standings.ID),
			slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "tournament finished",
		slog.Int("tournament_id", standings.ID),
		slog.String("winner", winner.Name),
		slog.String("archive", location))
}

func (s *standingsService) load(ctx context.Context, tournamentID int) (*models.Tournament, []*models.Participant, error) {
	var (
		tournament   *models.Tournament
		participants []*models.Participant
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.repo.GetByID(gCtx, tournamentID)
		if err != nil {
			return err
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		ps, err := s.repo.ListParticipants(gCtx, tournamentID)
		if err != nil {
			return err
		}
		participants = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, mapRepositoryError(err)
	}
	return tournament, participants, nil
}

func (s *standingsService) checkSize(participants []*models.Participant) error {
	if want := brackets.SlotCount(s.rounds); len(participants) != want {
		return fmt.Errorf("%w: have %d, need %d", ErrBracketSizeMismatch, len(participants), want)
	}
	return nil
}

func (s *standingsService) build(tournament *models.Tournament, participants []*models.Participant) (*models.Standings, error) {
	if err := s.checkSize(participants); err != nil {
		return nil, err
	}
	tree, err := brackets.TreeFromParticipants(participants, s.rounds)
	if err != nil {
		return nil, fmt.Errorf("failed to build standings tree of tournament %d: %w", tournament.ID, err)
	}
	return &models.Standings{
		ID:           tournament.ID,
		Name:         tournament.Name,
		Participants: participants,
		Tree:         tree,
	}, nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return fmt.Errorf("%w: %w", ErrTournamentNotFound, err)
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return fmt.Errorf("%w: %v", ErrParticipantNotFound, err)
	case errors.Is(err, repositories.ErrParticipantInvalid):
		return &ValidationError{Summary: "Participant update rejected", Errors: []string{err.Error()}}
	default:
		return err
	}
}
