package sap

import (
	"log/slog"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/bibx-go/bibx/article"
	"github.com/bibx-go/bibx/collection"
	"github.com/bibx-go/bibx/internal/bibxerr"
)

// Graph is the citation DAG the SAP passes run over: vertices are article
// keys, edges are citer→cited. Per-vertex attributes are stored as parallel
// maps keyed by vertex key rather than as attribute bags on graph nodes,
// since every consumer only ever needs a handful of small fields by key.
type Graph struct {
	g     *simple.DirectedGraph
	idOf  map[string]int64
	keyOf map[int64]string
	attrs map[string]*article.Article
}

// BuildGraph constructs the citation graph from a Collection: a vertex per
// article key, an edge per citation pair, self-loops removed. A vertex's
// attributes are the *article.Article itself, stored whole (Sources,
// References and Extra included, no field-by-field copy): a top-level
// article of the collection takes the key; otherwise the first reference
// stub seen for that key keeps it.
func BuildGraph(c *collection.Collection) *Graph {
	g := &Graph{
		g:     simple.NewDirectedGraph(),
		idOf:  map[string]int64{},
		keyOf: map[int64]string{},
		attrs: map[string]*article.Article{},
	}

	for _, a := range c.Articles {
		key := a.Key()
		if key == "" {
			continue
		}
		g.ensureNode(key)
		g.attrs[key] = a // top-level articles always take precedence
	}

	for _, pair := range c.CitationPairs() {
		citerKey := pair.Citer.Key()
		citedKey := pair.Cited.Key()
		if citerKey == "" || citedKey == "" {
			continue
		}
		g.ensureNode(citerKey)
		g.ensureNode(citedKey)
		if _, ok := g.attrs[citedKey]; !ok {
			g.attrs[citedKey] = pair.Cited
		}
		if citerKey == citedKey {
			continue // self-loop, dropped
		}
		u, v := g.idOf[citerKey], g.idOf[citedKey]
		if g.g.HasEdgeFromTo(u, v) {
			continue
		}
		g.g.SetEdge(g.g.NewEdge(g.g.Node(u), g.g.Node(v)))
	}

	return g
}

func (g *Graph) ensureNode(key string) int64 {
	if id, ok := g.idOf[key]; ok {
		return id
	}
	n := g.g.NewNode()
	g.g.AddNode(n)
	g.idOf[key] = n.ID()
	g.keyOf[n.ID()] = key
	return n.ID()
}

// Keys returns every vertex key in the graph, in no particular order.
func (g *Graph) Keys() []string {
	keys := make([]string, 0, len(g.idOf))
	for k := range g.idOf {
		keys = append(keys, k)
	}
	return keys
}

// Attr returns the article attributes attached to a vertex key.
func (g *Graph) Attr(key string) *article.Article {
	return g.attrs[key]
}

// Len reports the number of vertices.
func (g *Graph) Len() int {
	return len(g.idOf)
}

func (g *Graph) successors(key string) []string {
	var out []string
	it := g.g.From(g.idOf[key])
	for it.Next() {
		out = append(out, g.keyOf[it.Node().ID()])
	}
	return out
}

func (g *Graph) predecessors(key string) []string {
	var out []string
	it := g.g.To(g.idOf[key])
	for it.Next() {
		out = append(out, g.keyOf[it.Node().ID()])
	}
	return out
}

func (g *Graph) inDegree(key string) int {
	return g.g.To(g.idOf[key]).Len()
}

func (g *Graph) outDegree(key string) int {
	return g.g.From(g.idOf[key]).Len()
}

// topoOrder returns vertex keys in forward topological order (u before v
// for every edge u→v). Valid only once the graph is acyclic.
func (g *Graph) topoOrder() ([]string, error) {
	sorted, err := topo.Sort(g.g)
	if err != nil {
		return nil, bibxerr.Wrap(bibxerr.SAPPrecondition, err, "graph is not acyclic")
	}
	keys := make([]string, len(sorted))
	for i, n := range sorted {
		keys[i] = g.keyOf[n.ID()]
	}
	return keys, nil
}

// reverseTopoOrder returns topoOrder reversed: successors before
// predecessors, the order the root/leaf/sap passes accumulate flow in.
func (g *Graph) reverseTopoOrder() ([]string, error) {
	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// Cleanup keeps only the largest weakly-connected component, trims weak
// leaves (in-degree 1, out-degree 0), then breaks every non-trivial
// strongly-connected component by deleting edges internal to it, leaving a
// DAG.
func (g *Graph) Cleanup() {
	g.keepLargestWeakComponent()
	g.trimWeakLeaves()
	g.breakCycles()
}

func (g *Graph) keepLargestWeakComponent() {
	components := topo.ConnectedComponents(graph.Undirect{G: g.g})
	if len(components) <= 1 {
		return
	}
	var largest []graph.Node
	for _, comp := range components {
		if len(comp) > len(largest) {
			largest = comp
		}
	}
	keep := map[int64]bool{}
	for _, n := range largest {
		keep[n.ID()] = true
	}
	g.removeNodesExcept(keep)
}

// trimWeakLeaves removes every vertex with in-degree 1 and out-degree 0,
// repeating until no such vertex remains (removing one can expose a new
// weak leaf upstream).
func (g *Graph) trimWeakLeaves() {
	for {
		var toRemove []int64
		for key, id := range g.idOf {
			if g.inDegree(key) == 1 && g.outDegree(key) == 0 {
				toRemove = append(toRemove, id)
			}
		}
		if len(toRemove) == 0 {
			return
		}
		for _, id := range toRemove {
			g.removeNode(id)
		}
	}
}

// breakCycles removes every edge whose endpoints both lie in the same
// non-trivial (size > 1) strongly-connected component.
func (g *Graph) breakCycles() {
	sccs := topo.TarjanSCC(g.g)
	sccOf := map[int64]int{}
	for i, comp := range sccs {
		if len(comp) <= 1 {
			continue
		}
		for _, n := range comp {
			sccOf[n.ID()] = i
		}
	}
	if len(sccOf) == 0 {
		return
	}

	var edgesToRemove [][2]int64
	edges := g.g.Edges()
	for edges.Next() {
		e := edges.Edge()
		u, v := e.From().ID(), e.To().ID()
		if ci, ok1 := sccOf[u]; ok1 {
			if cj, ok2 := sccOf[v]; ok2 && ci == cj {
				edgesToRemove = append(edgesToRemove, [2]int64{u, v})
			}
		}
	}
	for _, e := range edgesToRemove {
		g.g.RemoveEdge(e[0], e[1])
	}
	if len(edgesToRemove) > 0 {
		slog.Debug("broke strongly-connected components", "edges_removed", len(edgesToRemove), "components", len(sccs))
	}
}

func (g *Graph) removeNode(id int64) {
	key := g.keyOf[id]
	g.g.RemoveNode(id)
	delete(g.idOf, key)
	delete(g.keyOf, id)
	delete(g.attrs, key)
}

func (g *Graph) removeNodesExcept(keep map[int64]bool) {
	var toRemove []int64
	for _, id := range g.idOf {
		if !keep[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		g.removeNode(id)
	}
}
