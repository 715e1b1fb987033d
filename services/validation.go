package services

import (
	"fmt"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/models"
)

// ValidateParticipants проверяет обновление на соответствие сетке из rounds
// раундов. В раунде r (r >= 1) не больше slots >> (r-1) участников, в раунде 0
// не больше slots. Все ошибки возвращаются вместе.
func ValidateParticipants(participants []*models.Participant, rounds int) error {
	slots := brackets.SlotCount(rounds)
	var problems []string

	if len(participants) == 0 {
		problems = append(problems, "participants: list must not be empty")
	}

	seen := make(map[int]bool, len(participants))
	count := make([]int, rounds+1)
	for i, p := range participants {
		if p == nil {
			problems = append(problems, fmt.Sprintf("participants[%d]: must not be null", i))
			continue
		}
		if seen[p.ID] {
			problems = append(problems, fmt.Sprintf("participant with id: %d is listed more than once", p.ID))
		}
		seen[p.ID] = true

		round := p.Round()
		if round < 0 || round > rounds {
			problems = append(problems, fmt.Sprintf("roundReached: %d for participant with id: %d is not valid", round, p.ID))
		} else {
			count[round]++
		}
		if entry, ok := p.Entry(); ok && (entry < 0 || entry >= slots) {
			problems = append(problems, fmt.Sprintf("entryNumber: %d for participant with id: %d is not valid", entry, p.ID))
		}
	}

	if count[0] > slots {
		problems = append(problems, "invalid number of horses, which stay for round 0")
	}
	for r := 1; r <= rounds; r++ {
		if count[r] > slots>>(r-1) {
			problems = append(problems, fmt.Sprintf("invalid number of horses, which stay for round %d", r))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Summary: "Validation of participants for update failed", Errors: problems}
	}
	return nil
}
