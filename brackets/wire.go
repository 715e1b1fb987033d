package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/horse-tournament/models"
)

var ErrMalformedTree = errors.New("malformed standings tree")

// FromWire восстанавливает сетку из формата API. Каждый участник в дереве
// заменяется указателем из реестра; дерево должно быть полным бинарным
// ровно из rounds уровней.
func FromWire(wire *models.StandingsTreeNode, reg *Registry, rounds int) (*Node, error) {
	root, err := NewTree(rounds)
	if err != nil {
		return nil, err
	}
	if wire == nil {
		return nil, fmt.Errorf("%w: missing root", ErrMalformedTree)
	}

	type pair struct {
		wire *models.StandingsTreeNode
		node *Node
	}
	stack := []pair{{wire: wire, node: root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.wire.ThisParticipant != nil {
			p, err := reg.Resolve(it.wire.ThisParticipant)
			if err != nil {
				return nil, fmt.Errorf("round %d slot: %w", it.node.Round, err)
			}
			it.node.Participant = p
		}

		switch {
		case it.node.IsLeaf() && len(it.wire.Branches) == 0:
		case it.node.IsLeaf():
			return nil, fmt.Errorf("%w: deeper than %d rounds", ErrMalformedTree, rounds)
		case len(it.wire.Branches) != 2:
			return nil, fmt.Errorf("%w: round %d slot has %d branches, want 2",
				ErrMalformedTree, it.node.Round, len(it.wire.Branches))
		case it.wire.Branches[0] == nil || it.wire.Branches[1] == nil:
			return nil, fmt.Errorf("%w: nil branch under round %d slot", ErrMalformedTree, it.node.Round)
		default:
			stack = append(stack,
				pair{wire: it.wire.Branches[1], node: it.node.Lower},
				pair{wire: it.wire.Branches[0], node: it.node.Upper},
			)
		}
	}
	return root, nil
}

// ToWire переводит сетку в формат API. Участники не копируются.
func ToWire(node *Node) *models.StandingsTreeNode {
	if node == nil {
		return nil
	}
	out := &models.StandingsTreeNode{ThisParticipant: node.Participant}
	if !node.IsLeaf() {
		out.Branches = []*models.StandingsTreeNode{ToWire(node.Upper), ToWire(node.Lower)}
	}
	return out
}

// WireDepth reports the number of levels of a wire tree along its upper edge.
func WireDepth(wire *models.StandingsTreeNode) int {
	d := 0
	for n := wire; n != nil; {
		d++
		if len(n.Branches) == 0 {
			break
		}
		n = n.Branches[0]
	}
	return d
}
