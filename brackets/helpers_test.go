package brackets_test

import (
	"testing"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/models"
	"github.com/stretchr/testify/require"
)

func horse(id int, name string) *models.Participant {
	return &models.Participant{
		ID:          id,
		HorseID:     100 + id,
		Name:        name,
		DateOfBirth: models.NewDate(2018, 4, id%28+1),
	}
}

// seeded builds a bracket of the given depth and seeds the leaves in order with
// the named horses, the same way a generated first round looks. Extra names are
// registered but not seeded.
func seeded(t *testing.T, rounds int, names ...string) *brackets.Bracket {
	t.Helper()
	participants := make([]*models.Participant, len(names))
	for i, name := range names {
		participants[i] = horse(i+1, name)
	}
	reg, err := brackets.NewRegistry(participants)
	require.NoError(t, err)
	root, err := brackets.NewTree(rounds)
	require.NoError(t, err)

	for i, leaf := range brackets.Leaves(root) {
		if i >= len(participants) {
			break
		}
		require.NoError(t, brackets.Assign(leaf, participants[i]))
	}
	brackets.UpdateDisable(root)
	return &brackets.Bracket{Registry: reg, Root: root, Rounds: rounds}
}

func byName(t *testing.T, b *brackets.Bracket, name string) *models.Participant {
	t.Helper()
	for _, p := range b.Registry.All() {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no participant named %q", name)
	return nil
}

func names(ps []*models.Participant) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func path(t *testing.T, s string) brackets.Path {
	t.Helper()
	p, err := brackets.ParsePath(s)
	require.NoError(t, err)
	return p
}
