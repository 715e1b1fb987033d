package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/models"
	"github.com/google/uuid"
)

// EditorSession - открытый редактор сетки. Его id служит и комнатой веб-сокета.
type EditorSession struct {
	ID           string    `json:"id"`
	TournamentID int       `json:"tournamentId"`
	CreatedAt    time.Time `json:"createdAt"`

	orchestrator *StandingsOrchestrator
	// lastActive охраняется мьютексом editorService
	lastActive time.Time
}

type EditorService interface {
	Open(ctx context.Context, tournamentID int) (*EditorSession, StandingsView, error)
	Get(sessionID string) (*EditorSession, StandingsView, error)
	Close(sessionID string) error

	Reload(ctx context.Context, sessionID string) (StandingsView, error)
	GenerateFirstRound(ctx context.Context, sessionID string) (StandingsView, error)
	Save(ctx context.Context, sessionID string) (StandingsView, error)
	Assign(ctx context.Context, sessionID string, path brackets.Path, participantID int) (StandingsView, error)
	Retract(ctx context.Context, sessionID string, path brackets.Path) (StandingsView, error)
	Candidates(sessionID string, path brackets.Path, query string) ([]*models.Participant, error)

	// EvictIdle закрывает сессии, к которым не обращались дольше maxIdle.
	EvictIdle(maxIdle time.Duration) int
	// RunJanitor периодически вызывает EvictIdle, пока ctx не отменён.
	RunJanitor(ctx context.Context, interval, maxIdle time.Duration)
}

type editorService struct {
	gateway StandingsGateway
	hub     *brackets.Hub
	rounds  int
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*EditorSession
}

// NewEditorService создаёт реестр сессий. hub может быть nil, если живые
// обновления не нужны.
func NewEditorService(gateway StandingsGateway, hub *brackets.Hub, rounds int, logger *slog.Logger) EditorService {
	return &editorService{
		gateway:  gateway,
		hub:      hub,
		rounds:   rounds,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*EditorSession),
	}
}

func (s *editorService) Open(ctx context.Context, tournamentID int) (*EditorSession, StandingsView, error) {
	id := uuid.NewString()
	session := &EditorSession{
		ID:           id,
		TournamentID: tournamentID,
		CreatedAt:    s.now().UTC(),
		orchestrator: NewStandingsOrchestrator(tournamentID, s.rounds, s.gateway, NewHubNotifier(s.hub, id, s.logger), s.logger),
	}

	view, err := session.orchestrator.Load(ctx)
	if err != nil {
		return nil, view, err
	}

	s.mu.Lock()
	session.lastActive = s.now()
	s.sessions[id] = session
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "editor session opened",
		slog.String("session_id", id),
		slog.Int("tournament_id", tournamentID))
	return session, view, nil
}

func (s *editorService) Get(sessionID string) (*EditorSession, StandingsView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, StandingsView{}, err
	}
	return session, session.orchestrator.View(), nil
}

func (s *editorService) Close(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	s.logger.Info("editor session closed", slog.String("session_id", sessionID))
	return nil
}

func (s *editorService) Reload(ctx context.Context, sessionID string) (StandingsView, error) {
	return s.run(sessionID, func(o *StandingsOrchestrator) (StandingsView, error) {
		return o.Load(ctx)
	})
}

func (s *editorService) GenerateFirstRound(ctx context.Context, sessionID string) (StandingsView, error) {
	return s.run(sessionID, func(o *StandingsOrchestrator) (StandingsView, error) {
		return o.GenerateFirstRound(ctx)
	})
}

func (s *editorService) Save(ctx context.Context, sessionID string) (StandingsView, error) {
	return s.run(sessionID, func(o *StandingsOrchestrator) (StandingsView, error) {
		return o.Save(ctx)
	})
}

func (s *editorService) Assign(ctx context.Context, sessionID string, path brackets.Path, participantID int) (StandingsView, error) {
	return s.run(sessionID, func(o *StandingsOrchestrator) (StandingsView, error) {
		return o.Assign(path, participantID)
	})
}

func (s *editorService) Retract(ctx context.Context, sessionID string, path brackets.Path) (StandingsView, error) {
	return s.run(sessionID, func(o *StandingsOrchestrator) (StandingsView, error) {
		return o.Retract(path)
	})
}

func (s *editorService) Candidates(sessionID string, path brackets.Path, query string) ([]*models.Participant, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return session.orchestrator.Candidates(path, query)
}

// run выполняет op над оркестратором сессии и при успехе рассылает новое состояние.
func (s *editorService) run(sessionID string, op func(o *StandingsOrchestrator) (StandingsView, error)) (StandingsView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return StandingsView{}, err
	}
	view, err := op(session.orchestrator)
	if err != nil {
		return view, err
	}
	if s.hub != nil {
		s.hub.BroadcastToRoom(session.ID, brackets.WebSocketMessage{
			Type:    brackets.MessageBracketUpdated,
			Payload: view,
			RoomID:  session.ID,
		})
	}
	return view, nil
}

// session находит сессию и продлевает её жизнь.
func (s *editorService) session(sessionID string) (*EditorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.lastActive = s.now()
	return session, nil
}

func (s *editorService) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var expired []*EditorSession
	for id, session := range s.sessions {
		if session.lastActive.Before(cutoff) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		// Подписчики комнаты узнают, что сессия закрыта
		session.orchestrator.notify(context.Background(), LevelWarning, "Editor session expired.")
		s.logger.Info("editor session expired",
			slog.String("session_id", session.ID),
			slog.Int("tournament_id", session.TournamentID))
	}
	return len(expired)
}

func (s *editorService) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.logger.Info("editor session janitor started",
		slog.Duration("interval", interval),
		slog.Duration("max_idle", maxIdle))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(maxIdle); n > 0 {
				s.logger.Info("idle editor sessions evicted", slog.Int("count", n))
			}
		}
	}
}
