package graph

import (
	"sort"

	"github.com/hurou927/db-catalog/internal/schema"
)

// Edge represents a directed edge from son to parent.
type Edge struct {
	// Column is the son's foreign-key column. It is empty when the son's
	// one recorded key references another parent.
	Column      string
	ChildTable  string
	ParentTable string
}

// Graph is a directed graph built from the catalog's parent/son links.
type Graph struct {
	// Tables maps table name -> descriptor
	Tables map[string]*schema.TableDescriptor

	// Edges are non-self-referential edges (son → parent), one per pair.
	Edges []Edge

	// SelfRefs holds tables listed among their own sons.
	SelfRefs map[string]bool

	// Children maps parent name → son names
	Children map[string][]string

	// Parents maps son name → parent names
	Parents map[string][]string

	// adjacency for undirected connectivity
	Adjacency map[string]map[string]bool
}

// Build constructs the graph of cat. Tables in excludeSet are skipped, as
// are links to them. Duplicate sons collapse into one edge.
func Build(cat *schema.Catalog, excludeSet map[string]bool) *Graph {
	g := &Graph{
		Tables:    make(map[string]*schema.TableDescriptor),
		SelfRefs:  make(map[string]bool),
		Children:  make(map[string][]string),
		Parents:   make(map[string][]string),
		Adjacency: make(map[string]map[string]bool),
	}

	names := cat.Tables()
	for _, name := range names {
		if excludeSet[name] {
			continue
		}
		tbl, _ := cat.Table(name)
		g.Tables[name] = tbl
		g.Adjacency[name] = make(map[string]bool)
	}

	seen := make(map[[2]string]bool)
	for _, parent := range names {
		ptbl, ok := g.Tables[parent]
		if !ok {
			continue
		}
		for _, son := range ptbl.Sons {
			stbl, ok := g.Tables[son]
			if !ok {
				continue // son not in scope
			}
			if son == parent {
				g.SelfRefs[son] = true
				continue
			}
			pair := [2]string{son, parent}
			if seen[pair] {
				continue
			}
			seen[pair] = true

			column := stbl.ForeignKey
			if stbl.ForeignParent != "" && stbl.ForeignParent != parent {
				column = ""
			}
			g.Edges = append(g.Edges, Edge{
				Column:      column,
				ChildTable:  son,
				ParentTable: parent,
			})
			g.Children[parent] = append(g.Children[parent], son)
			g.Parents[son] = append(g.Parents[son], parent)
			g.Adjacency[son][parent] = true
			g.Adjacency[parent][son] = true
		}
	}

	return g
}

// Roots returns tables that have no parents, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for name := range g.Tables {
		if len(g.Parents[name]) == 0 {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)
	return roots
}

func (g *Graph) names() []string {
	all := make([]string, 0, len(g.Tables))
	for name := range g.Tables {
		all = append(all, name)
	}
	sort.Strings(all)
	return all
}
