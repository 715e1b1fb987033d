package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/models"
	"github.com/Dosada05/horse-tournament/repositories"
	"github.com/stretchr/testify/require"
)

const testRounds = 3

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func entrant(id int, name string, entry, round int) *models.Participant {
	p := &models.Participant{
		ID:          id,
		HorseID:     10 + id,
		Name:        name,
		DateOfBirth: models.NewDate(2017, time.March, id),
	}
	p.SetEntry(entry)
	p.SetRound(round)
	return p
}

// fieldOfFour is a seeded first round: Alpha, Bravo, Charlie, Delta in slots 0..3.
func fieldOfFour() []*models.Participant {
	return []*models.Participant{
		entrant(1, "Alpha", 0, 1),
		entrant(2, "Bravo", 1, 1),
		entrant(3, "Charlie", 2, 1),
		entrant(4, "Delta", 3, 1),
	}
}

func standingsOf(t *testing.T, name string, participants []*models.Participant) *models.Standings {
	t.Helper()
	tree, err := brackets.TreeFromParticipants(participants, testRounds)
	require.NoError(t, err)
	return &models.Standings{ID: 1, Name: name, Participants: participants, Tree: tree}
}

func participantNamed(t *testing.T, ps []*models.Participant, name string) *models.Participant {
	t.Helper()
	for _, p := range ps {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no participant named %q", name)
	return nil
}

// fakeRepository keeps tournaments in memory. UpdateParticipants applies all or nothing.
type fakeRepository struct {
	mu           sync.Mutex
	tournaments  map[int]*models.Tournament
	participants map[int][]*models.Participant
	history      map[int][]models.PriorResult
	txCalls      int
	historyCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		tournaments: map[int]*models.Tournament{
			1: {ID: 1, Name: "Spring Cup", StartDate: models.NewDate(2024, time.May, 1), EndDate: models.NewDate(2024, time.May, 3)},
		},
		participants: map[int][]*models.Participant{1: fieldOfFour()},
		history:      map[int][]models.PriorResult{},
	}
}

func (r *fakeRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeRepository) ListParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Participant, 0, len(r.participants[tournamentID]))
	for _, p := range r.participants[tournamentID] {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *fakeRepository) ListPriorResults(ctx context.Context, horseID int, since time.Time) ([]models.PriorResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.historyCalls++
	return r.history[horseID], nil
}

func (r *fakeRepository) UpdateParticipants(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, participants []*models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.participants[tournamentID]
	next := make([]*models.Participant, len(current))
	for i, p := range current {
		next[i] = p.Clone()
	}
	for _, update := range participants {
		found := false
		for _, p := range next {
			if p.ID == update.ID {
				entry, _ := update.Entry()
				p.SetEntry(entry)
				p.SetRound(update.Round())
				found = true
			}
		}
		if !found {
			return fmt.Errorf("participant %d: %w", update.ID, repositories.ErrParticipantNotFound)
		}
	}
	r.participants[tournamentID] = next
	return nil
}

func (r *fakeRepository) InTransaction(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	r.mu.Lock()
	r.txCalls++
	r.mu.Unlock()
	return fn(nil)
}

type fakeArchiver struct {
	mu       sync.Mutex
	archived []*models.Standings
	err      error
}

func (a *fakeArchiver) ArchiveStandings(ctx context.Context, standings *models.Standings) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	a.archived = append(a.archived, standings)
	return fmt.Sprintf("standings/%d.json", standings.ID), nil
}

// fakeGateway serves standings from memory. Hooks, when set, replace the default
// behaviour of the matching call.
type fakeGateway struct {
	t *testing.T

	mu            sync.Mutex
	current       []*models.Participant
	firstRound    []*models.Participant
	getErr        error
	generateErr   error
	saveErr       error
	getHook       func(call int) (*models.Standings, error)
	getCalls      int
	generateCalls int
	saved         []models.UpdateParticipantsInput
}

func newFakeGateway(t *testing.T) *fakeGateway {
	return &fakeGateway{t: t, current: fieldOfFour()}
}

func cloneAll(ps []*models.Participant) []*models.Participant {
	out := make([]*models.Participant, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

func (g *fakeGateway) GetStandings(ctx context.Context, tournamentID int) (*models.Standings, error) {
	g.mu.Lock()
	g.getCalls++
	call, hook := g.getCalls, g.getHook
	g.mu.Unlock()
	if hook != nil {
		return hook(call)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return nil, g.getErr
	}
	return standingsOf(g.t, "Spring Cup", cloneAll(g.current)), nil
}

func (g *fakeGateway) GenerateFirstRound(ctx context.Context, tournamentID int) (*models.Standings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generateCalls++
	if g.generateErr != nil {
		return nil, g.generateErr
	}
	return standingsOf(g.t, "Spring Cup", cloneAll(g.firstRound)), nil
}

func (g *fakeGateway) SaveStandings(ctx context.Context, tournamentID int, input models.UpdateParticipantsInput) (*models.Standings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saved = append(g.saved, input)
	if g.saveErr != nil {
		return nil, g.saveErr
	}
	g.current = cloneAll(input.Participants)
	return standingsOf(g.t, "Spring Cup", cloneAll(g.current)), nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) last() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return Notification{}
	}
	return n.sent[len(n.sent)-1]
}

func pathOf(t *testing.T, s string) brackets.Path {
	t.Helper()
	p, err := brackets.ParsePath(s)
	require.NoError(t, err)
	return p
}
