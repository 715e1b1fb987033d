package brackets

import (
	"fmt"

	"github.com/Dosada05/horse-tournament/models"
)

// TreeFromParticipants строит дерево сетки из сохранённого состояния участников.
//
// Слоты первого раунда заполняются по entryNumber. Участник без номера, но с
// roundReached >= 1 (снят с раунда 2 и ниже) занимает первый свободный слот,
// участники с раундом 0 на дерево не попадают. Слот следующего раунда выигрывает
// участник, дошедший строго дальше соседа; при равенстве слот остаётся пустым.
func TreeFromParticipants(participants []*models.Participant, rounds int) (*models.StandingsTreeNode, error) {
	if rounds < 1 || rounds > MaxRounds {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRounds, rounds)
	}
	slots := SlotCount(rounds)

	currentRoundNodes := make([]*models.StandingsTreeNode, slots)
	for i := range currentRoundNodes {
		currentRoundNodes[i] = &models.StandingsTreeNode{}
	}
	for _, p := range participants {
		entry, seeded := p.Entry()
		if !seeded {
			continue
		}
		if entry < 0 || entry >= slots {
			return nil, fmt.Errorf("participant %d has entry number %d outside 0..%d", p.ID, entry, slots-1)
		}
		if currentRoundNodes[entry].ThisParticipant != nil {
			return nil, fmt.Errorf("entry number %d taken by participants %d and %d",
				entry, currentRoundNodes[entry].ThisParticipant.ID, p.ID)
		}
		currentRoundNodes[entry].ThisParticipant = p
	}
	placeUnseeded(currentRoundNodes, participants)

	for r := 2; r <= rounds; r++ {
		nextRoundNodes := make([]*models.StandingsTreeNode, 0, len(currentRoundNodes)/2)
		for i := 0; i < len(currentRoundNodes); i += 2 {
			upper, lower := currentRoundNodes[i], currentRoundNodes[i+1]
			nextRoundNodes = append(nextRoundNodes, &models.StandingsTreeNode{
				ThisParticipant: matchWinner(upper.ThisParticipant, lower.ThisParticipant),
				Branches:        []*models.StandingsTreeNode{upper, lower},
			})
		}
		currentRoundNodes = nextRoundNodes
	}
	return currentRoundNodes[0], nil
}

// placeUnseeded возвращает на свободные листья тех, кто уже стоит в сетке, но
// потерял entryNumber. Порядок: листья слева направо, участники в порядке списка.
func placeUnseeded(leaves []*models.StandingsTreeNode, participants []*models.Participant) {
	next := 0
	for _, p := range participants {
		if p == nil || p.Round() < 1 {
			continue
		}
		if _, seeded := p.Entry(); seeded {
			continue
		}
		for next < len(leaves) && leaves[next].ThisParticipant != nil {
			next++
		}
		if next == len(leaves) {
			return
		}
		leaves[next].ThisParticipant = p
	}
}

func matchWinner(upper, lower *models.Participant) *models.Participant {
	if upper == nil || lower == nil {
		return nil
	}
	switch {
	case upper.Round() > lower.Round():
		return upper
	case lower.Round() > upper.Round():
		return lower
	default:
		return nil
	}
}
