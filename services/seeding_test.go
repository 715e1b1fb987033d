package services

import (
	"errors"
	"testing"

	"github.com/Dosada05/horse-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundPoints(t *testing.T) {
	for round, want := range map[int]int{0: 0, 1: 0, 2: 1, 3: 3, 4: 5} {
		assert.Equal(t, want, roundPoints(round), "round %d", round)
	}
}

func TestSeedParticipants(t *testing.T) {
	field := fieldOfFour()
	for _, p := range field {
		p.EntryNumber, p.RoundReached = nil, nil
	}
	results := []models.PriorResult{
		{HorseID: 13, TournamentID: 7, RoundReached: 4}, // Charlie: 5
		{HorseID: 12, TournamentID: 7, RoundReached: 2}, // Bravo: 1 + 3
		{HorseID: 12, TournamentID: 8, RoundReached: 3},
		{HorseID: 11, TournamentID: 8, RoundReached: 1}, // Alpha: 0
	}

	seeded := SeedParticipants(field, results)

	require.Len(t, seeded, 4)
	// ranks: Charlie, Bravo, Alpha, Delta
	assert.Equal(t, []string{"Charlie", "Delta", "Bravo", "Alpha"}, []string{
		seeded[0].Name, seeded[1].Name, seeded[2].Name, seeded[3].Name,
	})
	for slot, p := range seeded {
		entry, ok := p.Entry()
		require.True(t, ok)
		assert.Equal(t, slot, entry)
		assert.Equal(t, 1, p.Round())
	}
	assert.Nil(t, field[0].EntryNumber, "input must not be modified")
}

func TestSeedParticipantsWithoutHistoryIsAlphabetical(t *testing.T) {
	field := []*models.Participant{
		entrant(1, "Zephyr", 0, 0),
		entrant(2, "Comet", 0, 0),
		entrant(3, "Mistral", 0, 0),
		entrant(4, "Bolt", 0, 0),
	}

	seeded := SeedParticipants(field, nil)

	assert.Equal(t, "Bolt", seeded[0].Name)
	assert.Equal(t, "Zephyr", seeded[1].Name)
	assert.Equal(t, "Comet", seeded[2].Name)
	assert.Equal(t, "Mistral", seeded[3].Name)
}

func TestValidateParticipants(t *testing.T) {
	valid := func() []*models.Participant {
		return []*models.Participant{
			entrant(1, "Alpha", 0, 3),
			entrant(2, "Bravo", 1, 1),
			entrant(3, "Charlie", 2, 2),
			entrant(4, "Delta", 3, 1),
		}
	}

	t.Run("accepts a consistent field", func(t *testing.T) {
		assert.NoError(t, ValidateParticipants(valid(), testRounds))
	})

	t.Run("accepts unset rounds", func(t *testing.T) {
		ps := valid()
		ps[1].RoundReached = nil
		assert.NoError(t, ValidateParticipants(ps, testRounds))
	})

	t.Run("reports every problem", func(t *testing.T) {
		ps := valid()
		ps[1].SetRound(3)
		ps[3].SetRound(7)
		ps[2].SetEntry(9)

		err := ValidateParticipants(ps, testRounds)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidationFailed))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Validation of participants for update failed", verr.Summary)
		assert.Contains(t, verr.Errors, "roundReached: 7 for participant with id: 4 is not valid")
		assert.Contains(t, verr.Errors, "entryNumber: 9 for participant with id: 3 is not valid")
		assert.Contains(t, verr.Errors, "invalid number of horses, which stay for round 3")
	})

	t.Run("too many semi-finalists", func(t *testing.T) {
		ps := valid()
		ps[0].SetRound(2)
		ps[1].SetRound(2)
		ps[3].SetRound(2)

		var verr *ValidationError
		require.True(t, errors.As(ValidateParticipants(ps, testRounds), &verr))
		assert.Equal(t, []string{"invalid number of horses, which stay for round 2"}, verr.Errors)
	})

	t.Run("duplicates and nils", func(t *testing.T) {
		ps := valid()
		ps = append(ps, ps[0].Clone(), nil)

		var verr *ValidationError
		require.True(t, errors.As(ValidateParticipants(ps, testRounds), &verr))
		assert.Contains(t, verr.Errors, "participant with id: 1 is listed more than once")
		assert.Contains(t, verr.Errors, "participants[5]: must not be null")
	})

	t.Run("empty", func(t *testing.T) {
		assert.Error(t, ValidateParticipants(nil, testRounds))
	})
}

func TestFormatErrorDetail(t *testing.T) {
	assert.Equal(t, "Not found.", FormatErrorDetail("Not found", nil))
	assert.Equal(t, "Invalid: a; b", FormatErrorDetail("Invalid", []string{"a", "b"}))

	remote := &RemoteError{Op: opSave, StatusCode: 422, Message: "Invalid", Errors: []string{"a"}}
	assert.Equal(t, "Invalid: a", remote.Error())
	assert.Equal(t, "Invalid: a", remote.Detail())
}
