// Package dag orders components so that every dependency precedes its
// dependents. Traversal is depth-first with lexicographic tie-breaking, so the
// same input always yields the same order.
package dag

import (
	"fmt"
	"sort"
	"strings"
)

type (
	// CycleError indicates that the dependency graph contains a cycle. Cycle
	// lists every node on the cycle path with the first node repeated at the end.
	CycleError struct {
		Cycle []string
	}

	// UnknownNodeError is returned by Graph.Deps for a node that was never added.
	UnknownNodeError struct {
		Name string
	}

	// DepsFunc returns the direct dependencies of name.
	DepsFunc func(name string) ([]string, error)

	// Graph is an in-memory dependency graph. An edge from A to B means
	// "A depends on B".
	Graph struct {
		deps map[string][]string
	}

	frame struct {
		name string
		deps []string
		next int
	}
)

type visitState int

const (
	unvisited visitState = iota
	onStack
	done
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.Name)
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{deps: make(map[string][]string)}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.deps[name]; !ok {
		g.deps[name] = nil
	}
}

// AddDependency records that node depends on dep. Both are added if absent.
func (g *Graph) AddDependency(node, dep string) {
	g.AddNode(node)
	g.AddNode(dep)
	g.deps[node] = append(g.deps[node], dep)
}

// Deps implements DepsFunc.
func (g *Graph) Deps(name string) ([]string, error) {
	deps, ok := g.deps[name]
	if !ok {
		return nil, &UnknownNodeError{Name: name}
	}
	return deps, nil
}

// Nodes returns every node in lexicographic order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.deps))
	for n := range g.deps {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// Resolve orders the transitive closure of requested. With no names it
// orders every node in the graph.
func (g *Graph) Resolve(requested ...string) ([]string, error) {
	if len(requested) == 0 {
		requested = g.Nodes()
	}
	return Resolve(requested, g.Deps)
}

// Resolve returns the transitive closure of requested in dependency order:
// each name appears after all of its dependencies. Roots and each node's
// dependencies are visited in lexicographic order. Errors from deps are
// returned wrapped; a cycle yields *CycleError.
func Resolve(requested []string, deps DepsFunc) ([]string, error) {
	roots := sortedUnique(requested)
	state := make(map[string]visitState)
	order := make([]string, 0, len(roots))

	var stack []*frame
	push := func(name, parent string) error {
		d, err := deps(name)
		if err != nil {
			if parent == "" {
				return err
			}
			return fmt.Errorf("resolve dependencies of %s: %w", parent, err)
		}
		state[name] = onStack
		stack = append(stack, &frame{name: name, deps: sortedUnique(d)})
		return nil
	}

	for _, root := range roots {
		if state[root] != unvisited {
			continue
		}
		if err := push(root, ""); err != nil {
			return nil, err
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next == len(top.deps) {
				stack = stack[:len(stack)-1]
				state[top.name] = done
				order = append(order, top.name)
				continue
			}

			dep := top.deps[top.next]
			top.next++
			switch state[dep] {
			case done:
			case onStack:
				return nil, &CycleError{Cycle: cyclePath(stack, dep)}
			default:
				if err := push(dep, top.name); err != nil {
					return nil, err
				}
			}
		}
	}

	return order, nil
}

// cyclePath returns the stack segment starting at dep, closed with dep.
func cyclePath(stack []*frame, dep string) []string {
	var cycle []string
	for i, f := range stack {
		if f.name == dep {
			for _, g := range stack[i:] {
				cycle = append(cycle, g.name)
			}
			break
		}
	}
	return append(cycle, dep)
}

func sortedUnique(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
