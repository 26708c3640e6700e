package layout

import (
	"container/heap"

	"hexworld/hexmath"
)

// hexAStar runs standard A* over the 6-neighbor hex graph, restricted to
// hexes for which passable reports true. The heuristic is cube distance
// to goal, unit step cost, ties broken by (f, h) ascending. It returns
// nil if no path exists. Grounded on the priority-queue shape of the
// retrieved block-pathfinding navigator (container/heap, a push/pop
// "path" item carrying its own heap index).
func hexAStar(start, goal hexmath.Axial, passable func(hexmath.Axial) bool) []hexmath.Axial {
	if start == goal {
		return []hexmath.Axial{start}
	}
	if !passable(start) || !passable(goal) {
		return nil
	}

	open := &hexQueue{}
	heap.Init(open)
	heap.Push(open, &hexNode{hex: start, f: heuristic(start, goal), h: heuristic(start, goal)})

	cameFrom := map[hexmath.Axial]hexmath.Axial{}
	gScore := map[hexmath.Axial]int{start: 0}
	closed := map[hexmath.Axial]bool{}

	for open.Len() > 0 {
		current := heap.Pop(open).(*hexNode)
		if closed[current.hex] {
			continue
		}
		closed[current.hex] = true

		if current.hex == goal {
			return reconstructHexPath(cameFrom, current.hex)
		}

		for _, n := range hexmath.Neighbors(current.hex) {
			if closed[n] || !passable(n) {
				continue
			}
			tentative := gScore[current.hex] + 1
			if score, ok := gScore[n]; ok && tentative >= score {
				continue
			}
			cameFrom[n] = current.hex
			gScore[n] = tentative
			h := heuristic(n, goal)
			heap.Push(open, &hexNode{hex: n, f: tentative + h, h: h})
		}
	}

	return nil
}

func heuristic(a, b hexmath.Axial) int {
	return hexmath.Distance(a, b)
}

func reconstructHexPath(cameFrom map[hexmath.Axial]hexmath.Axial, current hexmath.Axial) []hexmath.Axial {
	path := []hexmath.Axial{current}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append([]hexmath.Axial{prev}, path...)
		current = prev
	}
	return path
}

type hexNode struct {
	hex   hexmath.Axial
	f, h  int
	index int
}

type hexQueue []*hexNode

func (q hexQueue) Len() int { return len(q) }

func (q hexQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].h < q[j].h
}

func (q hexQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *hexQueue) Push(x any) {
	item := x.(*hexNode)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *hexQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}
