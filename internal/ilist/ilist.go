/*

Package ilist implements an intrusive circular doubly linked list.

Unlike container/list, the links are embedded in the element itself, so
an element can be unlinked in O(1) without searching and without the
list allocating per-element wrappers.  The zero List is an empty list
ready to use; the first insertion initializes it.  Membership never
affects the lifetime of the owning value.

*/
package ilist

// A Node is embedded in the element type.  It records the owner so that
// iteration can hand back *T without any unsafe pointer arithmetic.
type Node[T any] struct {
	prev, next *Node[T]
	owner      *T
}

// Owner returns the value this node is embedded in, or nil for a list
// root or an uninitialized node.
func (n *Node[T]) Owner() *T { return n.owner }

// linked reports whether n is currently part of a list.
func (n *Node[T]) linked() bool { return n.next != nil }

// A List is a circular doubly linked list of *T.  The root node is a
// sentinel with a nil owner.
type List[T any] struct {
	root Node[T]
	n    int
}

// Init prepares an empty list.  Calling Init on a non-empty list
// abandons the current elements without touching their nodes.
func (l *List[T]) Init() {
	l.root.prev = &l.root
	l.root.next = &l.root
	l.n = 0
}

// lazyInit makes the zero List usable for insertions.
func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.Init()
	}
}

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool { return l.n == 0 }

// Len returns the number of elements in the list.
func (l *List[T]) Len() int { return l.n }

// insert links node in after at.
func (l *List[T]) insert(node *Node[T], owner *T, at *Node[T]) {
	node.owner = owner
	node.prev = at
	node.next = at.next
	at.next.prev = node
	at.next = node
	l.n++
}

// PushBack appends owner to the list through its embedded node.
// Inserting a node that is already linked is a programmer error;
// Remove it first.
func (l *List[T]) PushBack(node *Node[T], owner *T) {
	l.lazyInit()
	if node.linked() {
		panic("ilist: node already linked")
	}
	l.insert(node, owner, l.root.prev)
}

// PushFront prepends owner to the list through its embedded node.
func (l *List[T]) PushFront(node *Node[T], owner *T) {
	l.lazyInit()
	if node.linked() {
		panic("ilist: node already linked")
	}
	l.insert(node, owner, &l.root)
}

// Remove unlinks node from the list.  Removing an unlinked node is a
// no-op, so Remove is safe to call twice.
func (l *List[T]) Remove(node *Node[T]) {
	if !node.linked() || node == &l.root {
		return
	}
	node.prev.next = node.next
	node.next.prev = node.prev
	node.prev = nil
	node.next = nil
	node.owner = nil
	l.n--
}

// Front returns the first element, or nil when the list is empty.
func (l *List[T]) Front() *T {
	if l.n == 0 {
		return nil
	}
	return l.root.next.owner
}

// Back returns the last element, or nil when the list is empty.
func (l *List[T]) Back() *T {
	if l.n == 0 {
		return nil
	}
	return l.root.prev.owner
}

// Each calls fn for every element in insertion order until fn returns
// false.  The current element may be Removed from within fn.
func (l *List[T]) Each(fn func(*T) bool) {
	if l.root.next == nil {
		return
	}
	for n := l.root.next; n != &l.root; {
		next := n.next // allow removal of n inside fn
		if !fn(n.owner) {
			return
		}
		n = next
	}
}
