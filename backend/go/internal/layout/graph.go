package layout

import (
	"SchemaFlow/backend/go/internal/models"
	"sort"
)

// graph 以集合在输入中的下标作为顶点编号。
type graph struct {
	collections []models.Collection
	names       []string
	index       map[string]int
	out         []map[int]bool
	touched     []bool // 是否出现在任何一条有效边上（包括自引用）
}

func newGraph(collections []models.Collection) *graph {
	g := &graph{index: make(map[string]int)}
	for _, c := range collections {
		if _, dup := g.index[c.Name]; dup {
			continue
		}
		g.index[c.Name] = len(g.names)
		g.names = append(g.names, c.Name)
		g.collections = append(g.collections, c)
		g.out = append(g.out, map[int]bool{})
		g.touched = append(g.touched, false)
	}
	return g
}

func (g *graph) connect(s, t int) {
	g.touched[s] = true
	g.touched[t] = true
	if s != t {
		g.out[s][t] = true
	}
}

func (g *graph) partition() (connected, isolated []int) {
	for v := range g.names {
		if g.touched[v] {
			connected = append(connected, v)
		} else {
			isolated = append(isolated, v)
		}
	}
	return connected, isolated
}

func (g *graph) successors(v int) []int {
	next := make([]int, 0, len(g.out[v]))
	for t := range g.out[v] {
		next = append(next, t)
	}
	sort.Ints(next)
	return next
}

// acyclic 用 DFS 找出回边并将其反向，返回无环的邻接表。
func (g *graph) acyclic(vertices []int) map[int][]int {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[int]int, len(vertices))
	dag := make(map[int][]int, len(vertices))

	var visit func(v int)
	visit = func(v int) {
		state[v] = onStack
		for _, t := range g.successors(v) {
			switch state[t] {
			case onStack:
				dag[t] = append(dag[t], v)
			case unvisited:
				dag[v] = append(dag[v], t)
				visit(t)
			default:
				dag[v] = append(dag[v], t)
			}
		}
		state[v] = done
	}
	for _, v := range vertices {
		if state[v] == unvisited {
			visit(v)
		}
	}
	return dag
}

// layer 计算最长路径分层，再用重心法调整每层内的顺序。
func (g *graph) layer(vertices []int, sweeps int) [][]int {
	if len(vertices) == 0 {
		return nil
	}
	dag := g.acyclic(vertices)

	preds := make(map[int][]int)
	for _, v := range vertices {
		for _, t := range dag[v] {
			preds[t] = append(preds[t], v)
		}
	}

	rank := make(map[int]int, len(vertices))
	var longest func(v int) int
	longest = func(v int) int {
		if r, ok := rank[v]; ok {
			return r
		}
		r := 0
		for _, p := range preds[v] {
			if pr := longest(p) + 1; pr > r {
				r = pr
			}
		}
		rank[v] = r
		return r
	}

	depth := 0
	for _, v := range vertices {
		if r := longest(v); r+1 > depth {
			depth = r + 1
		}
	}
	layers := make([][]int, depth)
	for _, v := range vertices {
		layers[rank[v]] = append(layers[rank[v]], v)
	}

	for s := 0; s < sweeps; s++ {
		for i := 1; i < len(layers); i++ {
			reorder(layers[i], preds, layers)
		}
		for i := len(layers) - 2; i >= 0; i-- {
			reorder(layers[i], dag, layers)
		}
	}
	return layers
}

// reorder 按邻居在各自层中位置的平均值排序；没有邻居的节点保持当前位置。
func reorder(l []int, neighbours map[int][]int, layers [][]int) {
	pos := make(map[int]float64)
	for _, layer := range layers {
		for i, v := range layer {
			pos[v] = float64(i)
		}
	}

	key := make(map[int]float64, len(l))
	for i, v := range l {
		ns := neighbours[v]
		if len(ns) == 0 {
			key[v] = float64(i)
			continue
		}
		sum := 0.0
		for _, n := range ns {
			sum += pos[n]
		}
		key[v] = sum / float64(len(ns))
	}
	sortByKey(l, key)
}
