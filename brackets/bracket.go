package brackets

import (
	"fmt"

	"github.com/Dosada05/horse-tournament/models"
)

// Bracket связывает дерево с реестром, которому принадлежат участники.
// После каждого изменения блокировки пересчитываются целиком.
type Bracket struct {
	Registry *Registry
	Root     *Node
	Rounds   int
}

// NewBracket импортирует турнирную таблицу, полученную от бэкенда.
// При rounds <= 0 глубина берётся из самого дерева.
func NewBracket(standings *models.Standings, rounds int) (*Bracket, error) {
	if standings == nil {
		return nil, fmt.Errorf("%w: no standings", ErrMalformedTree)
	}
	if rounds <= 0 {
		rounds = WireDepth(standings.Tree)
	}
	reg, err := NewRegistry(standings.Participants)
	if err != nil {
		return nil, err
	}
	root, err := FromWire(standings.Tree, reg, rounds)
	if err != nil {
		return nil, err
	}
	b := &Bracket{Registry: reg, Root: root, Rounds: rounds}
	UpdateDisable(b.Root)
	return b, nil
}

func (b *Bracket) Node(path Path) (*Node, error) {
	return NodeAt(b.Root, path)
}

// Assign ставит зарегистрированного участника с указанным id в слот path.
func (b *Bracket) Assign(path Path, participantID int) error {
	node, err := b.Node(path)
	if err != nil {
		return err
	}
	p, ok := b.Registry.Get(participantID)
	if !ok {
		return fmt.Errorf("%w: %w: id %d", ErrIneligibleParticipant, ErrUnknownParticipant, participantID)
	}
	if err := Assign(node, p); err != nil {
		return err
	}
	UpdateDisable(b.Root)
	return nil
}

// Retract освобождает слот path и возвращает того, кто его занимал (nil, если слот был пуст).
func (b *Bracket) Retract(path Path) (*models.Participant, error) {
	node, err := b.Node(path)
	if err != nil {
		return nil, err
	}
	p := Retract(node)
	UpdateDisable(b.Root)
	return p, nil
}

func (b *Bracket) Candidates(path Path, query string) ([]*models.Participant, error) {
	node, err := b.Node(path)
	if err != nil {
		return nil, err
	}
	return Candidates(b.Registry, node, query), nil
}

// EnableToGenerate is the resolved state of the whole bracket.
func (b *Bracket) EnableToGenerate() bool {
	return CheckDisabled(b.Root)
}

// Champion возвращает победителя, когда финального раунда достиг ровно один участник.
func (b *Bracket) Champion() (*models.Participant, bool) {
	return Champion(b.Registry.All(), b.Rounds)
}

// Champion - то же, что Bracket.Champion, но для списка участников без реестра.
func Champion(participants []*models.Participant, finalRound int) (*models.Participant, bool) {
	var winner *models.Participant
	count := 0
	for _, p := range participants {
		if p != nil && p.Round() == finalRound {
			winner = p
			count++
		}
	}
	if count != 1 {
		return nil, false
	}
	return winner, true
}

// Standings отдаёт текущее состояние в формате API.
func (b *Bracket) Standings(id int, name string) *models.Standings {
	return &models.Standings{
		ID:           id,
		Name:         name,
		Participants: b.Registry.All(),
		Tree:         ToWire(b.Root),
	}
}
