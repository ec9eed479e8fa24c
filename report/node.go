package report

import "github.com/shopspring/decimal"

// =============================================================================
// REPORT NODE - Generic rollup tree
// =============================================================================

// ReportNode sums hours over one grouping dimension (client, project or user).
// The same shape is reused at every level of every report hierarchy. Children
// remember first-seen order so equal-hour groups sort deterministically.
type ReportNode struct {
	Key        string
	Label      string
	TotalHours decimal.Decimal
	// Percent is this node's share of its parent's hours, exact (x100).
	// Rounding happens only at the display boundary.
	Percent decimal.Decimal

	children map[string]*ReportNode
	order    []string
}

// NewNode creates an empty node.
func NewNode(key, label string) *ReportNode {
	return &ReportNode{
		Key:        key,
		Label:      label,
		TotalHours: decimal.Zero,
		children:   make(map[string]*ReportNode),
	}
}

// Child returns the child for key, creating it on first use. The label of an
// existing child is left alone.
func (n *ReportNode) Child(key, label string) *ReportNode {
	if c, ok := n.children[key]; ok {
		return c
	}
	c := NewNode(key, label)
	n.children[key] = c
	n.order = append(n.order, key)
	return c
}

// Lookup returns the child for key, or nil.
func (n *ReportNode) Lookup(key string) *ReportNode {
	return n.children[key]
}

// Children returns the children in first-seen order.
func (n *ReportNode) Children() []*ReportNode {
	out := make([]*ReportNode, 0, len(n.order))
	for _, k := range n.order {
		out = append(out, n.children[k])
	}
	return out
}

// Sorted returns the children descending by TotalHours. Equal-hour children
// keep their first-seen order (sort is stable).
func (n *ReportNode) Sorted() []*ReportNode {
	out := n.Children()
	// insertion sort keeps the tie order stable without an extra index
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].TotalHours.GreaterThan(out[j-1].TotalHours); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Add accumulates hours along a path of (key, label) pairs, updating every
// node on the way down and returning the leaf.
func (n *ReportNode) Add(hours decimal.Decimal, path ...[2]string) *ReportNode {
	n.TotalHours = n.TotalHours.Add(hours)
	cur := n
	for _, p := range path {
		cur = cur.Child(p[0], p[1])
		cur.TotalHours = cur.TotalHours.Add(hours)
	}
	return cur
}

var hundred = decimal.NewFromInt(100)

// ComputePercents fills Percent on every descendant: child hours / parent
// hours x 100. Nodes under a zero-hour parent keep a zero percent.
func (n *ReportNode) ComputePercents() {
	for _, c := range n.Children() {
		if n.TotalHours.IsPositive() {
			c.Percent = c.TotalHours.Div(n.TotalHours).Mul(hundred)
		} else {
			c.Percent = decimal.Zero
		}
		c.ComputePercents()
	}
}
