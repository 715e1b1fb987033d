package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/horse-tournament/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantInvalid  = errors.New("participant data violates a constraint")
)

// TournamentRepository читает и пишет состояние участников турнира в сетке.
type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	// ListPriorResults возвращает результаты лошади в турнирах, закончившихся
	// за год до since.
	ListPriorResults(ctx context.Context, horseID int, since time.Time) ([]models.PriorResult, error)
	UpdateParticipants(ctx context.Context, exec SQLExecutor, tournamentID int, participants []*models.Participant) error
	// InTransaction выполняет fn в одной транзакции и коммитит, если fn вернула nil.
	InTransaction(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) InTransaction(ctx context.Context, fn func(exec SQLExecutor) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	err = fn(tx)
	return err
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT id, name, start_date, end_date FROM tournament WHERE id = $1`

	var t models.Tournament
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.StartDate.Time, &t.EndDate.Time)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return &t, nil
}

func (r *postgresTournamentRepository) ListParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	query := `
		SELECT p.id, p.id_horse, h.name, h.date_of_birth, p.entry_number, p.round_reached
		FROM participant p
		JOIN horse h ON p.id_horse = h.id
		WHERE p.tournament_id = $1
		ORDER BY p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0, 8)
	for rows.Next() {
		p, errScan := scanParticipant(rows)
		if errScan != nil {
			return nil, errScan
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func scanParticipant(rowScanner interface{ Scan(...interface{}) error }) (*models.Participant, error) {
	var (
		p            models.Participant
		entryNumber  sql.NullInt64
		roundReached sql.NullInt64
	)
	err := rowScanner.Scan(&p.ID, &p.HorseID, &p.Name, &p.DateOfBirth.Time, &entryNumber, &roundReached)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if entryNumber.Valid {
		p.SetEntry(int(entryNumber.Int64))
	}
	if roundReached.Valid {
		p.SetRound(int(roundReached.Int64))
	}
	return &p, nil
}

func (r *postgresTournamentRepository) ListPriorResults(ctx context.Context, horseID int, since time.Time) ([]models.PriorResult, error) {
	query := `
		SELECT p.id_horse, p.tournament_id, p.round_reached
		FROM participant p
		JOIN tournament t ON p.tournament_id = t.id
		WHERE p.id_horse = $1
		  AND t.end_date < $2
		  AND t.end_date >= $2 - INTERVAL '12 months'`

	rows, err := r.db.QueryContext(ctx, query, horseID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list prior results of horse %d: %w", horseID, err)
	}
	defer rows.Close()

	var results []models.PriorResult
	for rows.Next() {
		var res models.PriorResult
		var round sql.NullInt64
		if err := rows.Scan(&res.HorseID, &res.TournamentID, &round); err != nil {
			return nil, err
		}
		res.RoundReached = int(round.Int64)
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateParticipants сохраняет entryNumber и roundReached каждого участника.
// Участник не из этого турнира даёт ErrParticipantNotFound.
func (r *postgresTournamentRepository) UpdateParticipants(ctx context.Context, exec SQLExecutor, tournamentID int, participants []*models.Participant) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE participant SET round_reached = $1, entry_number = $2
		WHERE id = $3 AND tournament_id = $4`

	for _, p := range participants {
		entry, _ := p.Entry()
		result, err := executor.ExecContext(ctx, query, p.Round(), entry, p.ID, tournamentID)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" { // integrity_constraint_violation
				return fmt.Errorf("%w: participant %d: %s", ErrParticipantInvalid, p.ID, pqErr.Message)
			}
			return fmt.Errorf("failed to update participant %d: %w", p.ID, err)
		}
		if err := checkAffectedRows(result, ErrParticipantNotFound); err != nil {
			return fmt.Errorf("participant %d: %w", p.ID, err)
		}
	}
	return nil
}
