package brackets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/horse-tournament/models"
)

// DefaultRounds - глубина сетки по умолчанию (8 лошадей).
const DefaultRounds = 4

// MaxRounds ограничивает глубину сетки из конфигурации и из API.
const MaxRounds = 10

var (
	ErrInvalidRounds = errors.New("bracket rounds out of range")
	ErrInvalidPath   = errors.New("invalid bracket node path")
)

type BranchPosition string

const (
	PositionFinal BranchPosition = "final"
	PositionUpper BranchPosition = "upper"
	PositionLower BranchPosition = "lower"
)

// Индексы веток в пути.
const (
	UpperBranch = 0
	LowerBranch = 1
)

// Node - слот сетки на выбывание. Лист - слот первого раунда, остальные узлы -
// матчи, победитель которых приходит из одного из детей.
type Node struct {
	Participant *models.Participant
	Round       int
	Position    BranchPosition
	// EntryNumber - номер слота листа; -1 у внутренних узлов.
	EntryNumber int
	Locked      bool

	Upper *Node
	Lower *Node
}

func (n *Node) IsLeaf() bool {
	return n.Upper == nil && n.Lower == nil
}

// Children возвращает верхнего и нижнего ребёнка, у листа nil.
func (n *Node) Children() []*Node {
	if n.IsLeaf() {
		return nil
	}
	return []*Node{n.Upper, n.Lower}
}

func (n *Node) Assigned() bool {
	return n.Participant != nil
}

// NewTree строит пустую сетку заданной глубины. Листья нумеруются
// 0..2^(rounds-1)-1 сверху вниз.
func NewTree(rounds int) (*Node, error) {
	if rounds < 1 || rounds > MaxRounds {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidRounds, rounds, MaxRounds)
	}
	nextEntry := 0
	var build func(round int, pos BranchPosition) *Node
	build = func(round int, pos BranchPosition) *Node {
		n := &Node{Round: round, Position: pos, EntryNumber: models.NoEntryNumber}
		if round == 1 {
			n.EntryNumber = nextEntry
			nextEntry++
			return n
		}
		n.Upper = build(round-1, PositionUpper)
		n.Lower = build(round-1, PositionLower)
		return n
	}
	return build(rounds, PositionFinal), nil
}

// SlotCount is the number of round-1 slots in a bracket of the given depth.
func SlotCount(rounds int) int {
	return 1 << uint(rounds-1)
}

// Path - адрес узла от корня; каждый шаг UpperBranch или LowerBranch.
type Path []int

func (p Path) String() string {
	var b strings.Builder
	for _, step := range p {
		b.WriteByte(byte('0' + step))
	}
	return b.String()
}

// ParsePath разбирает строку вида Path.String. Пустая строка - корень.
func ParsePath(s string) (Path, error) {
	p := make(Path, 0, len(s))
	for i, c := range s {
		switch c {
		case '0':
			p = append(p, UpperBranch)
		case '1':
			p = append(p, LowerBranch)
		default:
			return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidPath, c, i)
		}
	}
	return p, nil
}

// NodeAt проходит путь path от корня.
func NodeAt(root *Node, path Path) (*Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: empty tree", ErrInvalidPath)
	}
	n := root
	for depth, step := range path {
		if n.IsLeaf() {
			return nil, fmt.Errorf("%w: %q goes below a leaf at depth %d", ErrInvalidPath, path.String(), depth)
		}
		if step == UpperBranch {
			n = n.Upper
		} else {
			n = n.Lower
		}
	}
	return n, nil
}

// VisitFunc is called for every node during Walk. Returning ErrStopWalk ends the
// walk without an error; any other error aborts it and is returned by Walk.
type VisitFunc func(node, parent *Node, path Path) error

var ErrStopWalk = errors.New("stop walk")

type walkItem struct {
	node   *Node
	parent *Node
	path   Path
}

// Walk обходит дерево в глубину в прямом порядке (узел, верхнее поддерево,
// нижнее поддерево) на явном стеке.
func Walk(root *Node, visit VisitFunc) error {
	if root == nil {
		return nil
	}
	stack := []walkItem{{node: root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := visit(it.node, it.parent, it.path); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return err
		}
		if it.node.IsLeaf() {
			continue
		}
		// нижний кладём первым, чтобы верхний снялся раньше
		stack = append(stack,
			walkItem{node: it.node.Lower, parent: it.node, path: appendStep(it.path, LowerBranch)},
			walkItem{node: it.node.Upper, parent: it.node, path: appendStep(it.path, UpperBranch)},
		)
	}
	return nil
}

func appendStep(p Path, step int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = step
	return out
}

// Leaves возвращает слоты первого раунда по порядку номеров.
func Leaves(root *Node) []*Node {
	var leaves []*Node
	_ = Walk(root, func(n, _ *Node, _ Path) error {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
		return nil
	})
	return leaves
}

// Depth считает уровни дерева по верхнему краю.
func Depth(root *Node) int {
	d := 0
	for n := root; n != nil; n = n.Upper {
		d++
	}
	return d
}
