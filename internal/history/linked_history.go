package history

import (
	"sync"

	"task-tracker-api/internal/models"
)

// node is one entry of the view list.
type node struct {
	task models.Task
	prev *node
	next *node
}

// LinkedHistory is a Tracker backed by an id-indexed doubly linked list, so
// add, move-to-end and removal by id are all O(1).
type LinkedHistory struct {
	// If muPtr is nil, the history is NOT goroutine-safe.
	// If muPtr is non-nil, it guards all operations.
	muPtr *sync.RWMutex

	limit int
	nodes map[int]*node
	head  *node // oldest
	tail  *node // newest
}

// Options controls construction of a LinkedHistory.
type Options struct {
	// ConcurrencySafe controls whether operations are guarded by a RWMutex.
	// The task manager serializes access itself and leaves this off.
	ConcurrencySafe bool

	// Limit caps the number of entries; the oldest entry is evicted when it
	// is exceeded. Zero or negative means unlimited.
	Limit int
}

// NewLinkedHistory constructs an empty LinkedHistory with the given options.
func NewLinkedHistory(opts Options) *LinkedHistory {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	return &LinkedHistory{
		muPtr: mu,
		limit: max(opts.Limit, 0),
		nodes: make(map[int]*node),
	}
}

func (h *LinkedHistory) lockR() func() {
	if h.muPtr == nil {
		return func() {}
	}
	h.muPtr.RLock()
	return h.muPtr.RUnlock
}

func (h *LinkedHistory) lockW() func() {
	if h.muPtr == nil {
		return func() {}
	}
	h.muPtr.Lock()
	return h.muPtr.Unlock
}

// Add implements Tracker.Add.
func (h *LinkedHistory) Add(task *models.Task) {
	if task == nil {
		return
	}
	unlock := h.lockW()
	defer unlock()

	if existing, ok := h.nodes[task.ID]; ok {
		h.unlink(existing)
	}
	n := &node{task: task.Clone()}
	h.linkLast(n)
	h.nodes[task.ID] = n

	if h.limit > 0 && len(h.nodes) > h.limit {
		h.unlink(h.head)
	}
}

// Remove implements Tracker.Remove.
func (h *LinkedHistory) Remove(id int) {
	unlock := h.lockW()
	defer unlock()
	if n, ok := h.nodes[id]; ok {
		h.unlink(n)
	}
}

// History implements Tracker.History.
func (h *LinkedHistory) History() []models.Task {
	unlock := h.lockR()
	defer unlock()
	out := make([]models.Task, 0, len(h.nodes))
	for n := h.head; n != nil; n = n.next {
		out = append(out, n.task.Clone())
	}
	return out
}

// Len implements Tracker.Len.
func (h *LinkedHistory) Len() int {
	unlock := h.lockR()
	defer unlock()
	return len(h.nodes)
}

// Clear implements Tracker.Clear.
func (h *LinkedHistory) Clear() {
	unlock := h.lockW()
	defer unlock()
	h.nodes = make(map[int]*node)
	h.head = nil
	h.tail = nil
}

func (h *LinkedHistory) linkLast(n *node) {
	n.prev = h.tail
	n.next = nil
	if h.tail == nil {
		h.head = n
	} else {
		h.tail.next = n
	}
	h.tail = n
}

// unlink detaches n from the list and forgets its id.
func (h *LinkedHistory) unlink(n *node) {
	if n.prev == nil {
		h.head = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		h.tail = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
	delete(h.nodes, n.task.ID)
}

// Ensure LinkedHistory implements Tracker at compile time.
var _ Tracker = (*LinkedHistory)(nil)
