package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/models"
)

type OrchestratorState string

const (
	StateUnloaded            OrchestratorState = "unloaded"
	StateLoaded              OrchestratorState = "loaded"
	StateFirstRoundGenerated OrchestratorState = "first_round_generated"
	StateSaved               OrchestratorState = "saved"
)

const (
	opLoad     = "load"
	opGenerate = "generate_first_round"
	opSave     = "save"
)

// StandingsView - независимый снимок состояния оркестратора.
type StandingsView struct {
	TournamentID        int               `json:"tournamentId"`
	State               OrchestratorState `json:"state"`
	Rounds              int               `json:"rounds"`
	Standings           *models.Standings `json:"standings,omitempty"`
	GeneratedFirstRound bool              `json:"generatedFirstRound"`
	Complete            bool              `json:"complete"`
	EnableToGenerate    bool              `json:"enableToGenerate"`
	// RootDecided: у финального слота есть победитель, редактор считает
	// сетку доступной только для чтения.
	RootDecided bool `json:"rootDecided"`
}

// StandingsOrchestrator управляет загрузкой, генерацией первого раунда и
// сохранением одного турнира через StandingsGateway и владеет сеткой между ними.
//
// Удалённые вызовы идут без блокировки. Устаревший вызов не отменяется:
// применяется ответ, пришедший последним.
type StandingsOrchestrator struct {
	tournamentID int
	rounds       int
	gateway      StandingsGateway
	notifier     Notifier
	logger       *slog.Logger

	mu        sync.Mutex
	state     OrchestratorState
	name      string
	bracket   *brackets.Bracket
	generated bool
	complete  bool
}

// NewStandingsOrchestrator создаёт незагруженный оркестратор. При rounds <= 0
// принимается любая глубина от бэкенда.
func NewStandingsOrchestrator(tournamentID, rounds int, gateway StandingsGateway, notifier Notifier, logger *slog.Logger) *StandingsOrchestrator {
	return &StandingsOrchestrator{
		tournamentID: tournamentID,
		rounds:       rounds,
		gateway:      gateway,
		notifier:     notifier,
		logger:       logger,
		state:        StateUnloaded,
	}
}

func (o *StandingsOrchestrator) TournamentID() int {
	return o.tournamentID
}

// Load загружает таблицу и заменяет текущую сетку. Начинается новый цикл,
// первый раунд снова можно сгенерировать.
func (o *StandingsOrchestrator) Load(ctx context.Context) (StandingsView, error) {
	standings, err := o.gateway.GetStandings(ctx, o.tournamentID)
	b, err := o.importStandings(ctx, opLoad, standings, err)
	if err != nil {
		o.notify(ctx, LevelError, "Failed to load the standings. "+remoteDetail(err))
		return o.View(), err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.install(standings, b)
	o.generated = false
	o.state = StateLoaded
	o.setCompleteLocked(ctx)
	return o.viewLocked(), nil
}

// GenerateFirstRound заменяет сетку новым посеянным первым раундом.
// Разрешено один раз за цикл загрузки.
func (o *StandingsOrchestrator) GenerateFirstRound(ctx context.Context) (StandingsView, error) {
	o.mu.Lock()
	switch {
	case o.bracket == nil:
		o.mu.Unlock()
		return o.View(), ErrNotLoaded
	case o.generated:
		o.mu.Unlock()
		o.notify(ctx, LevelWarning, "First round has already been generated.")
		return o.View(), ErrAlreadyGenerated
	}
	o.mu.Unlock()

	standings, err := o.gateway.GenerateFirstRound(ctx, o.tournamentID)
	if err == nil && standings != nil {
		for _, p := range standings.Participants {
			if p != nil {
				p.SetRound(1)
			}
		}
	}
	b, err := o.importStandings(ctx, opGenerate, standings, err)
	if err != nil {
		o.notify(ctx, LevelError, "Failed to generate the first round. "+remoteDetail(err))
		return o.View(), err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.install(standings, b)
	o.generated = true
	o.state = StateFirstRoundGenerated
	return o.viewLocked(), nil
}

// Save отправляет всех участников на бэкенд и заменяет сетку ответом.
// При ошибке остаётся текущая сетка вместе с несохранёнными правками.
func (o *StandingsOrchestrator) Save(ctx context.Context) (StandingsView, error) {
	o.mu.Lock()
	if o.bracket == nil {
		o.mu.Unlock()
		return o.View(), ErrNotLoaded
	}
	current := o.bracket.Registry.All()
	input := models.UpdateParticipantsInput{Participants: make([]*models.Participant, len(current))}
	for i, p := range current {
		input.Participants[i] = p.Clone()
	}
	o.mu.Unlock()

	standings, err := o.gateway.SaveStandings(ctx, o.tournamentID, input)
	b, err := o.importStandings(ctx, opSave, standings, err)
	if err != nil {
		o.notify(ctx, LevelError, "Failed to save the standings. "+remoteDetail(err))
		return o.View(), err
	}

	o.mu.Lock()
	o.install(standings, b)
	o.state = StateSaved
	o.setCompleteLocked(ctx)
	view := o.viewLocked()
	o.mu.Unlock()

	o.notify(ctx, LevelInfo, "Standings saved.")
	return view, nil
}

// Assign ставит зарегистрированного участника в слот path.
func (o *StandingsOrchestrator) Assign(path brackets.Path, participantID int) (StandingsView, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.bracket == nil {
		return o.viewLocked(), ErrNotLoaded
	}
	if err := o.bracket.Assign(path, participantID); err != nil {
		assignmentsTotal.WithLabelValues(outcomeRejected).Inc()
		return o.viewLocked(), err
	}
	assignmentsTotal.WithLabelValues(outcomeOK).Inc()
	return o.viewLocked(), nil
}

// Retract освобождает слот path. Пустой слот не ошибка.
func (o *StandingsOrchestrator) Retract(path brackets.Path) (StandingsView, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.bracket == nil {
		return o.viewLocked(), ErrNotLoaded
	}
	removed, err := o.bracket.Retract(path)
	if err != nil {
		return o.viewLocked(), err
	}
	if removed != nil {
		retractionsTotal.Inc()
	}
	return o.viewLocked(), nil
}

// Candidates возвращает копии участников, которых можно поставить в path.
func (o *StandingsOrchestrator) Candidates(path brackets.Path, query string) ([]*models.Participant, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.bracket == nil {
		return nil, ErrNotLoaded
	}
	found, err := o.bracket.Candidates(path, query)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Participant, len(found))
	for i, p := range found {
		out[i] = p.Clone()
	}
	return out, nil
}

func (o *StandingsOrchestrator) Complete() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.complete
}

// EnableToGenerate сообщает, доступны ли генерация и правка. До загрузки false.
func (o *StandingsOrchestrator) EnableToGenerate() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bracket != nil && o.bracket.EnableToGenerate()
}

func (o *StandingsOrchestrator) State() OrchestratorState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *StandingsOrchestrator) View() StandingsView {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.viewLocked()
}

// importStandings превращает ответ шлюза в сетку и учитывает результат в метриках.
func (o *StandingsOrchestrator) importStandings(ctx context.Context, op string, standings *models.Standings, err error) (*brackets.Bracket, error) {
	if err == nil {
		var b *brackets.Bracket
		b, err = brackets.NewBracket(standings, o.rounds)
		if err == nil {
			remoteOperationsTotal.WithLabelValues(op, outcomeOK).Inc()
			return b, nil
		}
		err = fmt.Errorf("invalid standings received: %w", err)
	}
	remoteOperationsTotal.WithLabelValues(op, outcomeFailed).Inc()
	o.logger.ErrorContext(ctx, "standings operation failed",
		slog.String("operation", op),
		slog.Int("tournament_id", o.tournamentID),
		slog.Any("error", err))

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return nil, err
	}
	return nil, &RemoteError{Op: op, Err: err}
}

func (o *StandingsOrchestrator) install(standings *models.Standings, b *brackets.Bracket) {
	o.name = standings.Name
	o.bracket = b
}

// setCompleteLocked фиксирует завершение, когда финала достиг ровно один
// участник. Последующие загрузки его не сбрасывают.
func (o *StandingsOrchestrator) setCompleteLocked(ctx context.Context) {
	if o.complete || o.bracket == nil {
		return
	}
	winner, ok := o.bracket.Champion()
	if !ok {
		return
	}
	o.complete = true
	tournamentsCompletedTotal.Inc()
	o.logger.InfoContext(ctx, "tournament complete",
		slog.Int("tournament_id", o.tournamentID),
		slog.String("winner", winner.Name))
}

func (o *StandingsOrchestrator) viewLocked() StandingsView {
	v := StandingsView{
		TournamentID:        o.tournamentID,
		State:               o.state,
		Rounds:              o.rounds,
		GeneratedFirstRound: o.generated,
		Complete:            o.complete,
	}
	if o.bracket != nil {
		v.Rounds = o.bracket.Rounds
		v.Standings = o.bracket.Standings(o.tournamentID, o.name).Clone()
		v.EnableToGenerate = o.bracket.EnableToGenerate()
		v.RootDecided = o.bracket.Root.Assigned()
	}
	return v
}

func (o *StandingsOrchestrator) notify(ctx context.Context, level NotificationLevel, message string) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(ctx, Notification{Level: level, Message: message})
}

func remoteDetail(err error) string {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Detail()
	}
	return err.Error()
}
