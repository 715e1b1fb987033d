package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/horse-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStandingsService(repo *fakeRepository, archiver StandingsArchiver) StandingsService {
	return NewStandingsService(repo, archiver, testRounds, testLogger())
}

func TestStandingsServiceGetStandings(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the tree from stored state", func(t *testing.T) {
		repo := newFakeRepository()
		participantNamed(t, repo.participants[1], "Bravo").SetRound(2)
		svc := newTestStandingsService(repo, nil)

		standings, err := svc.GetStandings(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Spring Cup", standings.Name)
		assert.Len(t, standings.Participants, 4)
		require.Len(t, standings.Tree.Branches, 2)
		upper := standings.Tree.Branches[0]
		require.NotNil(t, upper.ThisParticipant)
		assert.Equal(t, "Bravo", upper.ThisParticipant.Name)
		assert.Nil(t, standings.Tree.Branches[1].ThisParticipant)
		assert.Equal(t, "Alpha", upper.Branches[0].ThisParticipant.Name)
	})

	t.Run("unknown tournament", func(t *testing.T) {
		_, err := newTestStandingsService(newFakeRepository(), nil).GetStandings(ctx, 42)
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})

	t.Run("field does not fit the bracket", func(t *testing.T) {
		repo := newFakeRepository()
		repo.participants[1] = repo.participants[1][:3]
		_, err := newTestStandingsService(repo, nil).GetStandings(ctx, 1)
		assert.ErrorIs(t, err, ErrBracketSizeMismatch)
	})
}

func TestStandingsServiceGenerateFirstRound(t *testing.T) {
	repo := newFakeRepository()
	for _, p := range repo.participants[1] {
		p.EntryNumber, p.RoundReached = nil, nil
	}
	repo.history[14] = []models.PriorResult{{HorseID: 14, TournamentID: 9, RoundReached: 3}}
	svc := newTestStandingsService(repo, nil)

	standings, err := svc.GenerateFirstRound(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 4, repo.historyCalls)
	require.Len(t, standings.Participants, 4)
	assert.Equal(t, "Delta", standings.Participants[0].Name)
	assert.Equal(t, "Charlie", standings.Participants[1].Name)
	leaf := standings.Tree.Branches[0].Branches[0]
	require.NotNil(t, leaf.ThisParticipant)
	assert.Equal(t, "Delta", leaf.ThisParticipant.Name)
	assert.Nil(t, standings.Tree.ThisParticipant)

	stored, _ := repo.ListParticipants(context.Background(), 1)
	assert.Nil(t, stored[0].EntryNumber, "generation does not persist")
}

func TestStandingsServiceSaveStandings(t *testing.T) {
	ctx := context.Background()
	finished := func() models.UpdateParticipantsInput {
		return models.UpdateParticipantsInput{Participants: []*models.Participant{
			entrant(1, "Alpha", 0, 3),
			entrant(2, "Bravo", 1, 1),
			entrant(3, "Charlie", 2, 2),
			entrant(4, "Delta", 3, 1),
		}}
	}

	t.Run("stores and archives a finished tournament", func(t *testing.T) {
		repo := newFakeRepository()
		archiver := &fakeArchiver{}
		svc := newTestStandingsService(repo, archiver)

		standings, err := svc.SaveStandings(ctx, 1, finished())

		require.NoError(t, err)
		assert.Equal(t, 1, repo.txCalls)
		require.NotNil(t, standings.Tree.ThisParticipant)
		assert.Equal(t, "Alpha", standings.Tree.ThisParticipant.Name)
		assert.Equal(t, "Charlie", standings.Tree.Branches[1].ThisParticipant.Name)
		require.Len(t, archiver.archived, 1)
		assert.Equal(t, 1, archiver.archived[0].ID)
	})

	t.Run("archive failure does not fail the save", func(t *testing.T) {
		archiver := &fakeArchiver{err: errors.New("bucket unavailable")}
		_, err := newTestStandingsService(newFakeRepository(), archiver).SaveStandings(ctx, 1, finished())
		assert.NoError(t, err)
	})

	t.Run("unfinished tournament is not archived", func(t *testing.T) {
		archiver := &fakeArchiver{}
		input := finished()
		input.Participants[0].SetRound(2)
		_, err := newTestStandingsService(newFakeRepository(), archiver).SaveStandings(ctx, 1, input)
		require.NoError(t, err)
		assert.Empty(t, archiver.archived)
	})

	t.Run("invalid rounds are rejected before storage", func(t *testing.T) {
		repo := newFakeRepository()
		input := finished()
		input.Participants[1].SetRound(3)

		_, err := newTestStandingsService(repo, nil).SaveStandings(ctx, 1, input)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, 0, repo.txCalls)
	})

	t.Run("participant of another tournament", func(t *testing.T) {
		repo := newFakeRepository()
		input := finished()
		input.Participants[3].ID = 99

		_, err := newTestStandingsService(repo, nil).SaveStandings(ctx, 1, input)

		assert.ErrorIs(t, err, ErrParticipantNotFound)
		assert.Equal(t, 1, participantNamed(t, repo.participants[1], "Alpha").Round(), "nothing stored")
	})

	t.Run("unknown tournament", func(t *testing.T) {
		_, err := newTestStandingsService(newFakeRepository(), nil).SaveStandings(ctx, 5, finished())
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})
}

func TestStandingsServiceReloadKeepsRetractedHorseOnItsLeaf(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := newTestStandingsService(repo, nil)
	editor := NewStandingsOrchestrator(1, testRounds, svc, &recordingNotifier{}, testLogger())

	_, err := editor.Load(ctx)
	require.NoError(t, err)
	_, err = editor.Assign(pathOf(t, "0"), 1)
	require.NoError(t, err)
	_, err = editor.Retract(pathOf(t, "0"))
	require.NoError(t, err)
	_, err = editor.Save(ctx)
	require.NoError(t, err)

	stored := participantNamed(t, repo.participants[1], "Alpha")
	assert.Equal(t, 1, stored.Round())
	assert.Equal(t, models.NoEntryNumber, *stored.EntryNumber)

	view, err := editor.Load(ctx)
	require.NoError(t, err)
	leaf := view.Standings.Tree.Branches[0].Branches[0]
	require.NotNil(t, leaf.ThisParticipant, "retracted horse keeps its first-round slot")
	assert.Equal(t, "Alpha", leaf.ThisParticipant.Name)

	found, err := editor.Candidates(pathOf(t, "0"), "a")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	_, err = editor.Assign(pathOf(t, "0"), 2)
	require.NoError(t, err)
}
