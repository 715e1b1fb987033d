package brackets

import (
	"strings"

	"github.com/Dosada05/horse-tournament/models"
)

// Candidates возвращает участников, которых можно поставить в node, по части
// имени без учёта регистра. Для слота первого раунда кандидаты берутся из всего
// реестра, для матча только из двух нижних слотов и только когда оба заняты.
// Пустой запрос ничего не возвращает. Список строится заново при каждом вызове.
func Candidates(reg *Registry, node *Node, query string) []*models.Participant {
	if node == nil || query == "" {
		return nil
	}

	var pool []*models.Participant
	if node.IsLeaf() {
		if reg == nil {
			return nil
		}
		pool = reg.All()
	} else {
		for _, child := range node.Children() {
			if child.Participant == nil {
				return nil
			}
			pool = append(pool, child.Participant)
		}
	}

	needle := strings.ToUpper(query)
	out := make([]*models.Participant, 0, len(pool))
	for _, p := range pool {
		if p == nil {
			continue
		}
		if p.RoundReached != nil && *p.RoundReached >= node.Round {
			continue
		}
		if !strings.Contains(strings.ToUpper(p.Name), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}
