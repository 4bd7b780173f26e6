package containment

// FindAncestor walks the containment chain upward from child and returns the
// nearest container satisfying C. Containers that are themselves embedded
// units are followed to their own containers.
//
//	nav, ok := containment.FindAncestor[*navigation.StackController](child)
func FindAncestor[C any](child Unit) (C, bool) {
	var found C
	ok := false
	walkChain(child, func(container any) bool {
		if match, is := container.(C); is {
			found, ok = match, true
			return false
		}
		return true
	})
	return found, ok
}

// Chain returns every container above child, nearest first.
func Chain(child Unit) []any {
	var chain []any
	walkChain(child, func(container any) bool {
		chain = append(chain, container)
		return true
	})
	return chain
}

// walkChain calls visit for each container above child until visit returns
// false or the chain ends. Each content is visited at most once.
func walkChain(child Unit, visit func(container any) bool) {
	visited := make(map[*Content]bool)
	content := ContentOf(child)
	for content != nil && !visited[content] {
		visited[content] = true
		container := content.Container()
		if !visit(container) {
			return
		}
		unit, ok := container.(Unit)
		if !ok {
			return
		}
		content = ContentOf(unit)
	}
}
