package brackets

// UpdateDisable пересчитывает Locked для node и всех потомков. Слот заблокирован
// ровно тогда, когда в нём есть победитель; блокировка родителя не наследуется.
func UpdateDisable(node *Node) {
	_ = Walk(node, func(n, _ *Node, _ Path) error {
		n.Locked = n.Participant != nil
		return nil
	})
}

// CheckDisabled сообщает, решена ли подсетка node: решены все дети, но
// заблокированный слот второго раунда не решён никогда, что бы ни было под ним.
// Иначе говоря, подсетка решена, если в ней нет заблокированного слота раунда 2.
func CheckDisabled(node *Node) bool {
	resolved := true
	_ = Walk(node, func(n, _ *Node, _ Path) error {
		if n.Round == 2 && n.Locked {
			resolved = false
			return ErrStopWalk
		}
		return nil
	})
	return resolved
}
