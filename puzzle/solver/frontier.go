package solver

import "container/heap"

// frontierItem queues an arena index under its ordering key.
type frontierItem struct {
	node    int
	penalty float64
	depth   int
	seq     int
}

// frontier is a min-heap over penalty. Ties break toward shallower
// nodes, then insertion order, so the expansion order is fully
// deterministic for a given board.
type frontier struct {
	items []frontierItem
	seq   int
}

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(f)
	return f
}

// PushNode inserts an arena index with its ordering key.
func (f *frontier) PushNode(node int, penalty float64, depth int) {
	f.seq++
	heap.Push(f, frontierItem{node: node, penalty: penalty, depth: depth, seq: f.seq})
}

// PopMin removes and returns the lowest-penalty arena index.
func (f *frontier) PopMin() (int, bool) {
	if f.Len() == 0 {
		return 0, false
	}
	item := heap.Pop(f).(frontierItem)
	return item.node, true
}

// heap.Interface

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	if a.penalty != b.penalty {
		return a.penalty < b.penalty
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	item := old[n-1]
	f.items = old[:n-1]
	return item
}
