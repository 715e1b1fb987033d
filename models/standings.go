package models

// StandingsTreeNode - слот сетки в формате API.
type StandingsTreeNode struct {
	ThisParticipant *Participant         `json:"thisParticipant"`
	Branches        []*StandingsTreeNode `json:"branches,omitempty"`
}

// Standings возвращается бэкендом при загрузке, генерации первого раунда и сохранении.
type Standings struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	Participants []*Participant     `json:"participants"`
	Tree         *StandingsTreeNode `json:"tree"`
}

type UpdateParticipantsInput struct {
	Participants []*Participant `json:"participants" validate:"required,dive,required"`
}

// Clone copies the standings including every participant, so the tree of the copy
// does not alias the original participants.
func (s *Standings) Clone() *Standings {
	if s == nil {
		return nil
	}
	c := &Standings{ID: s.ID, Name: s.Name}
	byID := make(map[int]*Participant, len(s.Participants))
	c.Participants = make([]*Participant, len(s.Participants))
	for i, p := range s.Participants {
		c.Participants[i] = p.Clone()
		if p != nil {
			byID[p.ID] = c.Participants[i]
		}
	}
	c.Tree = cloneTree(s.Tree, byID)
	return c
}

func cloneTree(n *StandingsTreeNode, byID map[int]*Participant) *StandingsTreeNode {
	if n == nil {
		return nil
	}
	c := &StandingsTreeNode{}
	if n.ThisParticipant != nil {
		if p, ok := byID[n.ThisParticipant.ID]; ok {
			c.ThisParticipant = p
		} else {
			c.ThisParticipant = n.ThisParticipant.Clone()
		}
	}
	for _, b := range n.Branches {
		c.Branches = append(c.Branches, cloneTree(b, byID))
	}
	return c
}
