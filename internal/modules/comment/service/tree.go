package comment

import "anoa.com/kgscp/internal/entity"

// Node is a comment together with its direct replies.
type Node struct {
	entity.Comment
	Children []*Node `json:"children"`
}

// BuildTree nests a flat comment batch by parent id. Children keep the input order.
// A comment without a parent, or whose parent is missing from the batch, becomes a root,
// so every input comment appears exactly once in the result.
func BuildTree(flat []entity.Comment) []*Node {
	arena := make(map[string]*Node, len(flat))
	nodes := make([]*Node, 0, len(flat))
	for _, c := range flat {
		n := &Node{Comment: c, Children: []*Node{}}
		nodes = append(nodes, n)
		arena[c.ID.String()] = n
	}

	// cut holds nodes whose parent link closes a cycle; they are treated as roots.
	cut := make(map[*Node]bool)
	parentOf := func(n *Node) *Node {
		if cut[n] || n.ParentCommentID == nil {
			return nil
		}
		return arena[n.ParentCommentID.String()]
	}
	for _, n := range nodes {
		steps := 0
		for p := parentOf(n); p != nil && steps <= len(nodes); p = parentOf(p) {
			if p == n {
				cut[n] = true
				break
			}
			steps++
		}
	}

	roots := make([]*Node, 0)
	for _, n := range nodes {
		if parent := parentOf(n); parent != nil {
			parent.Children = append(parent.Children, n)
			continue
		}
		roots = append(roots, n)
	}
	return roots
}

// Flatten walks the forest in pre-order and returns the comments without nesting.
func Flatten(roots []*Node) []entity.Comment {
	out := []entity.Comment{}
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, n.Comment)
			walk(n.Children)
		}
	}
	walk(roots)
	return out
}

// Count returns the number of comments in the forest.
func Count(roots []*Node) int {
	total := 0
	for _, n := range roots {
		total += 1 + Count(n.Children)
	}
	return total
}
