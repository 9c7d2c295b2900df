// Package report aggregates classified line items into the nested table model
// and orchestrates report generation from CSV input.
package report

import (
	"github.com/amesfield/bean-counter/internal/model"
)

// Node is one level of the nested date/category/subcategory/expense mapping.
// Children iterate in insertion order; leaves carry the accumulated amount.
type Node struct {
	children map[string]*Node
	keys     []string
	amount   float64
	leaf     bool
}

func newNode() *Node {
	return &Node{children: make(map[string]*Node)}
}

// Keys returns the child keys in insertion order.
func (n *Node) Keys() []string {
	return n.keys
}

// Child returns the child node for the given key, or nil.
func (n *Node) Child(key string) *Node {
	return n.children[key]
}

// IsLeaf reports whether the node is a terminal expense entry.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Amount returns the accumulated amount of a leaf node.
func (n *Node) Amount() float64 {
	return n.amount
}

// LeafCount counts the terminal entries under this node. A leaf counts as
// one; intermediate nodes contribute nothing themselves.
func (n *Node) LeafCount() int {
	if n.leaf {
		return 1
	}
	count := 0
	for _, key := range n.keys {
		count += n.children[key].LeafCount()
	}
	return count
}

func (n *Node) child(key string) *Node {
	if c, ok := n.children[key]; ok {
		return c
	}
	c := newNode()
	n.children[key] = c
	n.keys = append(n.keys, key)
	return c
}

// Table is the 4-level nested mapping date -> category -> subcategory ->
// expense -> accumulated price, with a running grand total.
type Table struct {
	root  *Node
	total float64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{root: newNode()}
}

// Insert accumulates one classified line item.
func (t *Table) Insert(item model.LineItem) {
	leaf := t.root.
		child(item.Date).
		child(item.Category).
		child(item.Subcategory).
		child(item.Expense)
	leaf.leaf = true
	leaf.amount += item.Price
	t.total += item.Price
}

// Root returns the top-level node (children keyed by date).
func (t *Table) Root() *Node {
	return t.root
}

// Total returns the grand total of all inserted prices.
func (t *Table) Total() float64 {
	return t.total
}

// LeafCount returns the number of expense-level entries, which is the number
// of body rows the rendered table will have.
func (t *Table) LeafCount() int {
	return t.root.LeafCount()
}
