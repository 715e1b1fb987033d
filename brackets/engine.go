package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/horse-tournament/models"
)

var (
	ErrIneligibleParticipant = errors.New("participant is not eligible for this slot")
	// ErrSlotOccupied оборачивает ErrIneligibleParticipant: слот нужно сначала освободить.
	ErrSlotOccupied = fmt.Errorf("%w: slot already has a winner", ErrIneligibleParticipant)
)

// Assign записывает p победителем слота node.
//
// p не должен уже стоять в раунде node или выше, а для матча p должен быть
// победителем одного из двух нижних слотов. На листе участник получает
// entryNumber слота, если у него ещё нет номера.
func Assign(node *Node, p *models.Participant) error {
	if node == nil || p == nil {
		return fmt.Errorf("%w: missing slot or participant", ErrIneligibleParticipant)
	}
	if node.Participant != nil {
		return ErrSlotOccupied
	}
	if p.Round() >= node.Round {
		return fmt.Errorf("%w: %s already reached round %d, slot is round %d",
			ErrIneligibleParticipant, p.Name, p.Round(), node.Round)
	}
	if !node.IsLeaf() && !feedsFrom(node, p) {
		return fmt.Errorf("%w: %s did not win either feeding match of this round-%d slot",
			ErrIneligibleParticipant, p.Name, node.Round)
	}

	node.Participant = p
	p.SetRound(node.Round)
	if node.Round == 1 {
		if _, seeded := p.Entry(); !seeded {
			p.SetEntry(node.EntryNumber)
		}
	}
	return nil
}

func feedsFrom(node *Node, p *models.Participant) bool {
	for _, child := range node.Children() {
		if child.Participant != nil && child.Participant.ID == p.ID {
			return true
		}
	}
	return false
}

// Retract освобождает node и откатывает участника на один раунд. Ниже второго
// раунда участник теряет entryNumber. Другие слоты с тем же участником не
// трогаются: цепочку откатывают сверху вниз сами вызывающие.
func Retract(node *Node) *models.Participant {
	if node == nil || node.Participant == nil {
		return nil
	}
	p := node.Participant
	node.Participant = nil

	if p.RoundReached != nil {
		p.SetRound(*p.RoundReached - 1)
	}
	if p.Round() < 2 {
		p.SetEntry(models.NoEntryNumber)
	}
	return p
}
