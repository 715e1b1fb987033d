package brackets_test

import (
	"encoding/json"
	"testing"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participantsAt(entries, rounds []int, nameList ...string) []*models.Participant {
	out := make([]*models.Participant, len(nameList))
	for i, n := range nameList {
		p := horse(i+1, n)
		p.SetEntry(entries[i])
		p.SetRound(rounds[i])
		out[i] = p
	}
	return out
}

func TestTreeFromParticipants(t *testing.T) {
	t.Run("winners follow the higher round", func(t *testing.T) {
		ps := participantsAt(
			[]int{0, 1, 2, 3},
			[]int{3, 1, 2, 1},
			"A", "B", "C", "D")
		tree, err := brackets.TreeFromParticipants(ps, 3)
		require.NoError(t, err)

		require.NotNil(t, tree.ThisParticipant)
		assert.Equal(t, "A", tree.ThisParticipant.Name)
		assert.Equal(t, "A", tree.Branches[0].ThisParticipant.Name)
		assert.Equal(t, "C", tree.Branches[1].ThisParticipant.Name)
		assert.Equal(t, "D", tree.Branches[1].Branches[1].ThisParticipant.Name)
		assert.Empty(t, tree.Branches[1].Branches[1].Branches)
	})

	t.Run("ties and gaps leave the slot open", func(t *testing.T) {
		ps := participantsAt(
			[]int{0, 1, models.NoEntryNumber, 3},
			[]int{1, 1, 0, 1},
			"A", "B", "C", "D")
		tree, err := brackets.TreeFromParticipants(ps, 3)
		require.NoError(t, err)
		assert.Nil(t, tree.ThisParticipant)
		assert.Nil(t, tree.Branches[0].ThisParticipant)
		assert.Nil(t, tree.Branches[1].Branches[0].ThisParticipant)
		assert.Nil(t, tree.Branches[1].ThisParticipant)
	})

	t.Run("unseeded horses still in play take the free leaves", func(t *testing.T) {
		ps := participantsAt(
			[]int{0, models.NoEntryNumber, 2, 3, models.NoEntryNumber},
			[]int{1, 1, 2, 1, 0},
			"A", "B", "C", "D", "E")
		tree, err := brackets.TreeFromParticipants(ps[:4], 3)
		require.NoError(t, err)
		require.NotNil(t, tree.Branches[0].Branches[1].ThisParticipant)
		assert.Equal(t, "B", tree.Branches[0].Branches[1].ThisParticipant.Name)
		assert.Equal(t, "C", tree.Branches[1].ThisParticipant.Name)

		// E never reached round 1
		ps[1].SetEntry(1)
		tree, err = brackets.TreeFromParticipants([]*models.Participant{ps[0], ps[1], ps[4], ps[3]}, 3)
		require.NoError(t, err)
		assert.Nil(t, tree.Branches[1].Branches[0].ThisParticipant)
	})

	t.Run("rejects clashing or out of range seeds", func(t *testing.T) {
		_, err := brackets.TreeFromParticipants(participantsAt([]int{0, 0}, []int{1, 1}, "A", "B"), 2)
		assert.Error(t, err)
		_, err = brackets.TreeFromParticipants(participantsAt([]int{0, 5}, []int{1, 1}, "A", "B"), 2)
		assert.Error(t, err)
	})
}

func TestRebuildAfterRetractedSemiFinal(t *testing.T) {
	b := seeded(t, 3, "Alpha", "Bravo", "Charlie", "Delta")
	require.NoError(t, b.Assign(path(t, "0"), byName(t, b, "Alpha").ID))
	_, err := b.Retract(path(t, "0"))
	require.NoError(t, err)

	alpha := byName(t, b, "Alpha")
	require.Equal(t, 1, alpha.Round())
	_, hasEntry := alpha.Entry()
	require.False(t, hasEntry)

	// то, что бэкенд сохранит и вернёт при следующей загрузке
	stored := make([]*models.Participant, 0, 4)
	for _, p := range b.Registry.All() {
		stored = append(stored, p.Clone())
	}
	tree, err := brackets.TreeFromParticipants(stored, 3)
	require.NoError(t, err)
	reloaded, err := brackets.NewBracket(&models.Standings{ID: 1, Name: "Spring Cup", Participants: stored, Tree: tree}, 3)
	require.NoError(t, err)

	leaf, err := reloaded.Node(path(t, "00"))
	require.NoError(t, err)
	require.NotNil(t, leaf.Participant)
	assert.Equal(t, "Alpha", leaf.Participant.Name)

	found, err := reloaded.Candidates(path(t, "0"), "a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alpha", "Bravo"}, names(found))
	require.NoError(t, reloaded.Assign(path(t, "0"), byName(t, reloaded, "Bravo").ID))
}

func TestFromWire(t *testing.T) {
	ps := participantsAt([]int{0, 1, 2, 3}, []int{2, 1, 1, 1}, "A", "B", "C", "D")
	tree, err := brackets.TreeFromParticipants(ps, 3)
	require.NoError(t, err)

	// round-trip through JSON so every slot carries its own copy, as from the backend
	raw, err := json.Marshal(&models.Standings{ID: 9, Name: "Spring Cup", Participants: ps, Tree: tree})
	require.NoError(t, err)
	var standings models.Standings
	require.NoError(t, json.Unmarshal(raw, &standings))

	b, err := brackets.NewBracket(&standings, 3)
	require.NoError(t, err)

	a, ok := b.Registry.Get(1)
	require.True(t, ok)
	semi, err := b.Node(path(t, "0"))
	require.NoError(t, err)
	assert.Same(t, a, semi.Participant, "slots share the registry participant")
	assert.Same(t, a, brackets.Leaves(b.Root)[0].Participant)

	a.SetRound(3)
	assert.Equal(t, 3, semi.Participant.Round())
	assert.Equal(t, 3, brackets.Leaves(b.Root)[0].Participant.Round())

	assert.True(t, semi.Locked, "import computes locks")
	assert.False(t, b.EnableToGenerate())

	t.Run("depth taken from the wire when not configured", func(t *testing.T) {
		b, err := brackets.NewBracket(&standings, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, b.Rounds)
	})

	t.Run("depth mismatch is rejected", func(t *testing.T) {
		_, err := brackets.NewBracket(&standings, 4)
		assert.ErrorIs(t, err, brackets.ErrMalformedTree)
		_, err = brackets.NewBracket(&standings, 2)
		assert.ErrorIs(t, err, brackets.ErrMalformedTree)
	})

	t.Run("unknown participant in the tree", func(t *testing.T) {
		broken := standings
		broken.Participants = standings.Participants[1:]
		_, err := brackets.NewBracket(&broken, 3)
		assert.ErrorIs(t, err, brackets.ErrUnknownParticipant)
	})

	t.Run("to wire mirrors the tree", func(t *testing.T) {
		wire := brackets.ToWire(b.Root)
		assert.Equal(t, 3, brackets.WireDepth(wire))
		assert.Same(t, a, wire.Branches[0].ThisParticipant)
		assert.Nil(t, wire.ThisParticipant)
	})
}

func TestBracket(t *testing.T) {
	b := seeded(t, 2, "Alpha", "Bravo")

	err := b.Assign(brackets.Path{}, 99)
	assert.ErrorIs(t, err, brackets.ErrIneligibleParticipant)
	assert.ErrorIs(t, err, brackets.ErrUnknownParticipant)

	require.NoError(t, b.Assign(brackets.Path{}, 2))
	assert.True(t, b.Root.Locked)
	assert.False(t, b.EnableToGenerate())

	champion, ok := b.Champion()
	require.True(t, ok)
	assert.Equal(t, "Bravo", champion.Name)

	retracted, err := b.Retract(brackets.Path{})
	require.NoError(t, err)
	assert.Equal(t, "Bravo", retracted.Name)
	assert.False(t, b.Root.Locked)
	_, ok = b.Champion()
	assert.False(t, ok)

	_, err = b.Candidates(brackets.Path{0, 0}, "a")
	assert.ErrorIs(t, err, brackets.ErrInvalidPath)

	s := b.Standings(5, "Cup")
	assert.Equal(t, 5, s.ID)
	assert.Len(t, s.Participants, 2)
	assert.Len(t, s.Tree.Branches, 2)
}

func TestChampion(t *testing.T) {
	ps := participantsAt([]int{0, 1}, []int{2, 2}, "A", "B")
	_, ok := brackets.Champion(ps, 2)
	assert.False(t, ok, "two at the final round is not a completed tournament")
	ps[1].SetRound(1)
	winner, ok := brackets.Champion(ps, 2)
	assert.True(t, ok)
	assert.Equal(t, "A", winner.Name)
}
