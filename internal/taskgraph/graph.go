// Package taskgraph arranges extraction tasks into a path-derived DAG and
// produces a deterministic execution order.
package taskgraph

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/jackzampolin/hastd/internal/fieldpath"
	"github.com/jackzampolin/hastd/internal/schema"
)

type node struct {
	path     string
	task     *schema.Task
	parent   string
	children []string
	indeg    int
}

// Graph is a forest of field paths. Task nodes carry the task to run;
// structural nodes only group their children. The document root is implicit.
type Graph struct {
	nodes map[string]*node
}

// Build derives the graph from task paths alone. Each task's ancestors are
// added as structural nodes when no task occupies them.
func Build(tasks []schema.Task) *Graph {
	g := &Graph{nodes: make(map[string]*node, len(tasks))}
	for i := range tasks {
		task := tasks[i]
		if n, ok := g.nodes[task.Path]; ok {
			if n.task == nil {
				n.task = &task
			}
			continue
		}
		g.nodes[task.Path] = &node{path: task.Path, task: &task}
		g.link(task.Path)
	}
	return g
}

// link connects path to its parent, creating structural ancestors as needed.
func (g *Graph) link(path string) {
	for {
		parent, ok := fieldpath.Parent(path)
		if !ok {
			return
		}
		child := g.nodes[path]
		child.parent = parent
		child.indeg = 1

		p, exists := g.nodes[parent]
		if !exists {
			p = &node{path: parent}
			g.nodes[parent] = p
		}
		p.children = append(p.children, path)
		if exists {
			return
		}
		path = parent
	}
}

// Len returns the number of nodes, structural ones included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Has reports whether path is a node.
func (g *Graph) Has(path string) bool {
	_, ok := g.nodes[path]
	return ok
}

// Task returns the task at path, if path is a task node.
func (g *Graph) Task(path string) (schema.Task, bool) {
	n, ok := g.nodes[path]
	if !ok || n.task == nil {
		return schema.Task{}, false
	}
	return *n.task, true
}

// Parent returns the parent node of path, or ok=false for root-level nodes.
func (g *Graph) Parent(path string) (string, bool) {
	n, ok := g.nodes[path]
	if !ok || n.parent == "" {
		return "", false
	}
	return n.parent, true
}

// Children returns the direct children of path in sorted order.
func (g *Graph) Children(path string) []string {
	n, ok := g.nodes[path]
	if !ok {
		return nil
	}
	out := append([]string(nil), n.children...)
	sort.Strings(out)
	return out
}

// Nodes returns every node path in sorted order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Edges returns parent->child pairs sorted by parent then child.
func (g *Graph) Edges() [][2]string {
	var out [][2]string
	for _, p := range g.Nodes() {
		for _, c := range g.Children(p) {
			out = append(out, [2]string{p, c})
		}
	}
	return out
}

type pathHeap []string

func (h pathHeap) Len() int           { return len(h) }
func (h pathHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h pathHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Order returns every node in topological order. Among ready nodes the
// lexicographically smallest path is emitted first. Structural nodes are
// included; callers skip paths without a task.
func (g *Graph) Order() []string {
	indeg := make(map[string]int, len(g.nodes))
	ready := &pathHeap{}
	for p, n := range g.nodes {
		indeg[p] = n.indeg
		if n.indeg == 0 {
			*ready = append(*ready, p)
		}
	}
	heap.Init(ready)

	out := make([]string, 0, len(g.nodes))
	for ready.Len() > 0 {
		p := heap.Pop(ready).(string)
		out = append(out, p)
		for _, c := range g.nodes[p].children {
			indeg[c]--
			if indeg[c] == 0 {
				heap.Push(ready, c)
			}
		}
	}

	if len(out) != len(g.nodes) {
		panic(fmt.Sprintf("taskgraph: cycle detected, ordered %d of %d nodes", len(out), len(g.nodes)))
	}
	return out
}

// Tasks returns the task nodes in Order, skipping structural nodes.
func (g *Graph) Tasks() []schema.Task {
	var out []schema.Task
	for _, p := range g.Order() {
		if task, ok := g.Task(p); ok {
			out = append(out, task)
		}
	}
	return out
}

// Levels groups nodes by depth from the document root; each level is sorted.
func (g *Graph) Levels() [][]string {
	var levels [][]string
	for _, p := range g.Nodes() {
		d := g.depth(p)
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], p)
	}
	return levels
}

// Depth returns the number of ancestors of path within the graph.
func (g *Graph) Depth(path string) int {
	if !g.Has(path) {
		return -1
	}
	return g.depth(path)
}

func (g *Graph) depth(path string) int {
	d := 0
	for {
		n := g.nodes[path]
		if n.parent == "" {
			return d
		}
		d++
		path = n.parent
	}
}
