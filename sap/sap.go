// Package sap implements the SAP citation-graph classifier: graph
// construction and cleanup (in graph.go) plus the root/leaf/trunk/branch
// labelling passes (this file).
package sap

import (
	"sort"

	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/bibx-go/bibx/internal/bibxerr"
)

// Labels holds the per-vertex numeric fields the labelling passes produce,
// keyed by vertex (article) key. Stored as parallel maps rather than
// attribute bags on graph nodes, since a vertex only ever carries a handful
// of small int fields and every downstream consumer wants them by key.
type Labels struct {
	Root            map[string]int
	Leaf            map[string]int
	RootConnections map[string]int
	LeafConnections map[string]int
	RawSap          map[string]int
	ElaborateSap    map[string]int
	Sap             map[string]int
	Trunk           map[string]int
	Branch          map[string]int
}

func newLabels(keys []string) *Labels {
	l := &Labels{
		Root:            map[string]int{},
		Leaf:            map[string]int{},
		RootConnections: map[string]int{},
		LeafConnections: map[string]int{},
		RawSap:          map[string]int{},
		ElaborateSap:    map[string]int{},
		Sap:             map[string]int{},
		Trunk:           map[string]int{},
		Branch:          map[string]int{},
	}
	for _, k := range keys {
		l.Root[k], l.Leaf[k] = 0, 0
		l.RootConnections[k], l.LeafConnections[k] = 0, 0
		l.RawSap[k], l.ElaborateSap[k], l.Sap[k] = 0, 0, 0
		l.Trunk[k], l.Branch[k] = 0, 0
	}
	return l
}

// scored is a vertex key paired with a ranking score, used by every
// top-N-by-score selection in the labelling passes. Ties keep insertion
// order because sort.SliceStable is used throughout.
type scored struct {
	key   string
	score int
}

func topN(candidates []scored, n int) []scored {
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if n >= 0 && len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// Classify runs every labelling pass over a cleaned graph and returns the
// resulting Labels. g must already have had Cleanup called; Classify does
// not mutate g.
func Classify(g *Graph, cfg Config) (*Labels, error) {
	keys := g.Keys()
	labels := newLabels(keys)

	roots, err := computeRoots(g, labels, cfg)
	if err != nil {
		return nil, err
	}
	leaves, err := computeLeaves(g, labels, cfg)
	if err != nil {
		return nil, err
	}
	if err := computeSap(g, labels, roots, leaves); err != nil {
		return nil, err
	}
	if err := computeTrunk(g, labels, roots, leaves, cfg); err != nil {
		return nil, err
	}
	computeBranch(g, labels, roots, cfg)

	return labels, nil
}

// computeRoots selects the top cfg.MaxRoots out-degree-0 vertices by
// in-degree.
func computeRoots(g *Graph, labels *Labels, cfg Config) (map[string]bool, error) {
	var candidates []scored
	for _, key := range g.Keys() {
		if g.outDegree(key) == 0 {
			candidates = append(candidates, scored{key, g.inDegree(key)})
		}
	}
	if len(candidates) == 0 {
		return nil, bibxerr.New(bibxerr.SAPPrecondition, "no root candidates (every vertex has out-degree > 0)")
	}

	selected := topN(candidates, cfg.MaxRoots)
	roots := map[string]bool{}
	for _, s := range selected {
		labels.Root[s.key] = s.score
		roots[s.key] = true
	}
	return roots, nil
}

// rootReachability computes, for every vertex, the count of distinct
// selected-root paths reachable downstream: roots seed at 1, every other
// vertex sums its successors' counts, walked in reverse topological order
// so every successor is finalized before its predecessors are visited.
func rootReachability(g *Graph, roots map[string]bool) (map[string]int, error) {
	order, err := g.reverseTopoOrder()
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, key := range order {
		if roots[key] {
			counts[key] = 1
			continue
		}
		sum := 0
		for _, succ := range g.successors(key) {
			sum += counts[succ]
		}
		counts[key] = sum
	}
	return counts, nil
}

// computeLeaves selects the top cfg.MaxLeaves in-degree-0 vertices by
// root-reachability, after the min-connections and max-age filters. Both
// filters fall back to the unfiltered candidate set if applying them would
// empty it.
func computeLeaves(g *Graph, labels *Labels, cfg Config) (map[string]bool, error) {
	rootSet := map[string]bool{}
	for key := range labels.Root {
		if labels.Root[key] > 0 {
			rootSet[key] = true
		}
	}

	reach, err := rootReachability(g, rootSet)
	if err != nil {
		return nil, err
	}

	var candidates []scored
	for _, key := range g.Keys() {
		if g.inDegree(key) == 0 {
			candidates = append(candidates, scored{key, reach[key]})
		}
	}
	if len(candidates) == 0 {
		return nil, bibxerr.New(bibxerr.SAPPrecondition, "no leaf candidates (every vertex has in-degree > 0)")
	}

	if cfg.MinLeafConnections > 0 {
		filtered := filterScored(candidates, func(s scored) bool { return s.score >= cfg.MinLeafConnections })
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	if cfg.MaxLeafAgeYears > 0 {
		maxYear, ok := maxCandidateYear(g, candidates)
		if ok {
			filtered := filterScored(candidates, func(s scored) bool {
				a := g.Attr(s.key)
				return a != nil && a.Year != nil && *a.Year >= maxYear-cfg.MaxLeafAgeYears
			})
			if len(filtered) > 0 {
				candidates = filtered
			}
		}
	}

	selected := topN(candidates, cfg.MaxLeaves)
	leaves := map[string]bool{}
	for _, s := range selected {
		labels.Leaf[s.key] = s.score
		labels.RootConnections[s.key] = s.score
		leaves[s.key] = true
	}
	return leaves, nil
}

func filterScored(in []scored, keep func(scored) bool) []scored {
	var out []scored
	for _, s := range in {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func maxCandidateYear(g *Graph, candidates []scored) (int, bool) {
	year, found := 0, false
	for _, s := range candidates {
		a := g.Attr(s.key)
		if a == nil || a.Year == nil {
			continue
		}
		if !found || *a.Year > year {
			year, found = *a.Year, true
		}
	}
	return year, found
}

// computeSap runs the two symmetric flow accumulations of the SAP pass
// (raw_sap from the roots, elaborate_sap from the leaves) and combines
// them into labels.Sap.
func computeSap(g *Graph, labels *Labels, roots, leaves map[string]bool) error {
	reverseOrder, err := g.reverseTopoOrder()
	if err != nil {
		return err
	}
	for _, key := range reverseOrder {
		if roots[key] {
			labels.RawSap[key] = labels.Root[key]
			labels.RootConnections[key] = 1
			continue
		}
		var sap, conn int
		for _, succ := range g.successors(key) {
			sap += labels.RawSap[succ]
			conn += labels.RootConnections[succ]
		}
		labels.RawSap[key] = sap
		labels.RootConnections[key] = conn
	}

	forwardOrder, err := g.topoOrder()
	if err != nil {
		return err
	}
	for _, key := range forwardOrder {
		if leaves[key] {
			labels.ElaborateSap[key] = labels.Leaf[key]
			labels.LeafConnections[key] = 1
			continue
		}
		var esap, conn int
		for _, pred := range g.predecessors(key) {
			esap += labels.ElaborateSap[pred]
			conn += labels.LeafConnections[pred]
		}
		labels.ElaborateSap[key] = esap
		labels.LeafConnections[key] = conn
	}

	for _, key := range g.Keys() {
		labels.Sap[key] = labels.LeafConnections[key]*labels.RawSap[key] + labels.RootConnections[key]*labels.ElaborateSap[key]
	}
	return nil
}

// computeTrunk selects the top cfg.MaxTrunk non-root, non-leaf vertices
// with positive sap, by sap score.
func computeTrunk(g *Graph, labels *Labels, roots, leaves map[string]bool, cfg Config) error {
	var candidates []scored
	for _, key := range g.Keys() {
		if roots[key] || leaves[key] {
			continue
		}
		if labels.Sap[key] > 0 {
			candidates = append(candidates, scored{key, labels.Sap[key]})
		}
	}
	if len(candidates) == 0 {
		return bibxerr.New(bibxerr.SAPPrecondition, "no trunk candidates (no non-root/non-leaf vertex has positive sap)")
	}

	selected := topN(candidates, cfg.MaxTrunk)
	for _, s := range selected {
		labels.Trunk[s.key] = s.score
	}
	return nil
}

// computeBranch runs Louvain modularity maximization over the undirected
// projection of the graph, takes the three smallest resulting communities,
// and within each keeps the cfg.MaxBranchSize most recent non-root,
// non-trunk vertices. Louvain is randomized across runs/implementations, so
// callers must treat Branch as a partition shape, not a specific
// assignment.
func computeBranch(g *Graph, labels *Labels, roots map[string]bool, cfg Config) {
	undirected := simple.NewUndirectedGraph()
	for key := range g.idOf {
		undirected.AddNode(simple.Node(g.idOf[key]))
	}
	seen := map[[2]int64]bool{}
	for key := range g.idOf {
		u := g.idOf[key]
		for _, succ := range g.successors(key) {
			v := g.idOf[succ]
			edgeKey := [2]int64{u, v}
			if u > v {
				edgeKey = [2]int64{v, u}
			}
			if seen[edgeKey] {
				continue
			}
			seen[edgeKey] = true
			undirected.SetEdge(undirected.NewEdge(undirected.Node(u), undirected.Node(v)))
		}
	}

	reduced := community.Modularize(undirected, 1, nil)
	communities := reduced.Communities()
	sort.Slice(communities, func(i, j int) bool { return len(communities[i]) < len(communities[j]) })
	if len(communities) > 3 {
		communities = communities[:3]
	}

	for i, comm := range communities {
		var candidates []scored
		for _, n := range comm {
			key := g.keyOf[n.ID()]
			if roots[key] || labels.Trunk[key] > 0 {
				continue
			}
			a := g.Attr(key)
			if a == nil || a.Year == nil {
				continue
			}
			candidates = append(candidates, scored{key, *a.Year})
		}
		selected := topN(candidates, cfg.MaxBranchSize)
		for _, s := range selected {
			labels.Branch[s.key] = i + 1
		}
	}
}
