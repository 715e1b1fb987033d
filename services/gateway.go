package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/models"
)

// StandingsGateway - хранилище турнирной таблицы для оркестратора.
// Реализации: StandingsService в процессе и client.StandingsClient по HTTP.
type StandingsGateway interface {
	GetStandings(ctx context.Context, tournamentID int) (*models.Standings, error)
	GenerateFirstRound(ctx context.Context, tournamentID int) (*models.Standings, error)
	SaveStandings(ctx context.Context, tournamentID int, input models.UpdateParticipantsInput) (*models.Standings, error)
}

type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// Notifier показывает короткие сообщения тем, кто редактирует сетку.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// hubNotifier отправляет уведомления в одну комнату веб-сокета.
type hubNotifier struct {
	hub    *brackets.Hub
	room   string
	logger *slog.Logger
}

func NewHubNotifier(hub *brackets.Hub, room string, logger *slog.Logger) Notifier {
	return &hubNotifier{hub: hub, room: room, logger: logger}
}

func (n *hubNotifier) Notify(ctx context.Context, notification Notification) {
	n.logger.InfoContext(ctx, "standings notification",
		slog.String("room", n.room),
		slog.String("level", string(notification.Level)),
		slog.String("message", notification.Message))
	if n.hub == nil {
		return
	}
	n.hub.BroadcastToRoom(n.room, brackets.WebSocketMessage{
		Type:    brackets.MessageNotification,
		Payload: notification,
	})
}
