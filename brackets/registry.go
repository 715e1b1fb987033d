package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/horse-tournament/models"
)

var (
	ErrUnknownParticipant   = errors.New("participant is not registered in this tournament")
	ErrDuplicateParticipant = errors.New("participant registered twice")
)

// Registry - единственный владелец участников турнира. Узлы дерева держат те же
// указатели, поэтому изменение roundReached видно во всех слотах.
type Registry struct {
	byID  map[int]*models.Participant
	order []int
}

func NewRegistry(participants []*models.Participant) (*Registry, error) {
	r := &Registry{
		byID:  make(map[int]*models.Participant, len(participants)),
		order: make([]int, 0, len(participants)),
	}
	for _, p := range participants {
		if p == nil {
			continue
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateParticipant, p.ID)
		}
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r, nil
}

func (r *Registry) Get(id int) (*models.Participant, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Resolve возвращает указатель из реестра по id участника p.
func (r *Registry) Resolve(p *models.Participant) (*models.Participant, error) {
	if p == nil {
		return nil, nil
	}
	canonical, ok := r.byID[p.ID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d (%s)", ErrUnknownParticipant, p.ID, p.Name)
	}
	return canonical, nil
}

// All возвращает участников в порядке регистрации. Слайс новый, участники общие.
func (r *Registry) All() []*models.Participant {
	out := make([]*models.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

// CountAtRound считает участников с roundReached == round.
func (r *Registry) CountAtRound(round int) int {
	n := 0
	for _, p := range r.byID {
		if p.RoundReached != nil && *p.RoundReached == round {
			n++
		}
	}
	return n
}
