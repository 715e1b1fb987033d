package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/horse-tournament/models"
)

// StandingsArchiver сохраняет итоговую таблицу турнира как JSON-объект.
type StandingsArchiver struct {
	uploader FileUploader
	prefix   string
	now      func() time.Time
}

func NewStandingsArchiver(uploader FileUploader, prefix string) *StandingsArchiver {
	if prefix == "" {
		prefix = "standings"
	}
	return &StandingsArchiver{uploader: uploader, prefix: prefix, now: time.Now}
}

// ArchiveStandings uploads the snapshot under <prefix>/<tournament id>/<UTC timestamp>.json
// and returns its public URL.
func (a *StandingsArchiver) ArchiveStandings(ctx context.Context, standings *models.Standings) (string, error) {
	body, err := json.MarshalIndent(standings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode standings %d: %w", standings.ID, err)
	}

	key := fmt.Sprintf("%s/%d/%s.json", a.prefix, standings.ID, a.now().UTC().Format("20060102T150405Z"))
	result, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}
