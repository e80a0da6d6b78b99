package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hurou927/db-catalog/internal/schema"
)

// WriteMermaid writes the graph in Mermaid format to w.
// Each connected component is a subgraph.
func WriteMermaid(w io.Writer, g *Graph) error {
	components := FindComponents(g)

	if _, err := fmt.Fprintln(w, "graph TD"); err != nil {
		return err
	}

	for i, comp := range components {
		fmt.Fprintf(w, "    subgraph component_%d\n", i+1)

		tableSet := make(map[string]bool, len(comp.Tables))
		for _, t := range comp.Tables {
			tableSet[t] = true
		}

		for _, edge := range sortedEdges(g) {
			if !tableSet[edge.ChildTable] {
				continue
			}
			if edge.Column == "" {
				fmt.Fprintf(w, "        %s --> %s\n", mermaidID(edge.ChildTable), mermaidID(edge.ParentTable))
				continue
			}
			fmt.Fprintf(w, "        %s -->|%s| %s\n",
				mermaidID(edge.ChildTable), edgeLabel(edge.Column), mermaidID(edge.ParentTable))
		}

		for _, t := range comp.Tables {
			if g.SelfRefs[t] {
				fmt.Fprintf(w, "        %s -->|%s| %s\n",
					mermaidID(t), edgeLabel(g.Tables[t].ForeignKey), mermaidID(t))
			}
		}

		// Standalone nodes
		for _, t := range comp.Tables {
			if !hasEdge(g, t) {
				fmt.Fprintf(w, "        %s\n", mermaidID(t))
			}
		}

		fmt.Fprintln(w, "    end")
		if i < len(components)-1 {
			fmt.Fprintln(w)
		}
	}

	return nil
}

// WriteText writes a text summary of the graph to w.
func WriteText(w io.Writer, g *Graph) error {
	components := FindComponents(g)

	if _, err := fmt.Fprintf(w, "Tables: %d\n", len(g.Tables)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Foreign Keys: %d\n", len(g.Edges)+len(g.SelfRefs))
	fmt.Fprintf(w, "Connected Components: %d\n\n", len(components))

	topoResult := TopoSortAll(g)
	if topoResult.HasCycle {
		fmt.Fprintf(w, "WARNING: Circular dependencies detected: %v\n\n", topoResult.CycleTables)
	}

	var noPK, convention []string
	for _, name := range g.names() {
		tbl := g.Tables[name]
		if !tbl.HasPrimaryKey() {
			noPK = append(noPK, name)
		}
		if tbl.ForeignKeySource == schema.FromConvention {
			convention = append(convention, fmt.Sprintf("%s.%s", name, tbl.ForeignKey))
		}
	}
	if len(noPK) > 0 {
		fmt.Fprintf(w, "WARNING: Tables without primary key: %v\n\n", noPK)
	}
	if len(convention) > 0 {
		fmt.Fprintf(w, "Convention foreign keys: %v\n\n", convention)
	}

	if len(g.SelfRefs) > 0 {
		var selfRefTables []string
		for t := range g.SelfRefs {
			selfRefTables = append(selfRefTables, t)
		}
		sort.Strings(selfRefTables)
		fmt.Fprintf(w, "Self-referencing tables: %v\n\n", selfRefTables)
	}

	fmt.Fprintf(w, "Root tables (no parents): %v\n\n", g.Roots())

	for i, comp := range components {
		fmt.Fprintf(w, "=== Component %d (%d tables) ===\n", i+1, len(comp.Tables))

		topoComp := TopoSort(g, comp.Tables)
		if topoComp.HasCycle {
			fmt.Fprintf(w, "  Topological order (partial, has cycle):\n")
		} else {
			fmt.Fprintf(w, "  Topological order:\n")
		}
		for j, t := range topoComp.Order {
			fmt.Fprintf(w, "    %d. %s (%s)\n", j+1, t, tableInfo(g.Tables[t]))
		}
		if topoComp.HasCycle {
			fmt.Fprintf(w, "  Cycle tables: %v\n", topoComp.CycleTables)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func tableInfo(tbl *schema.TableDescriptor) string {
	parts := []string{fmt.Sprintf("%d cols", len(tbl.Columns))}
	if tbl.HasPrimaryKey() {
		parts = append(parts, "PK: "+tbl.PrimaryKey)
	} else {
		parts = append(parts, "no PK")
	}
	if tbl.HasForeignKey() {
		fk := "FK: " + tbl.ForeignKey
		if tbl.ParentHint != "" {
			fk += " -> " + tbl.ParentHint
		}
		parts = append(parts, fk)
	}
	if len(tbl.Sons) > 0 {
		parts = append(parts, "sons: "+strings.Join(tbl.Sons, ", "))
	}
	return strings.Join(parts, ", ")
}

func sortedEdges(g *Graph) []Edge {
	edges := append([]Edge(nil), g.Edges...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].ChildTable != edges[j].ChildTable {
			return edges[i].ChildTable < edges[j].ChildTable
		}
		return edges[i].ParentTable < edges[j].ParentTable
	})
	return edges
}

// mermaidID converts a table name to a Mermaid-safe node ID.
func mermaidID(name string) string {
	return strings.NewReplacer(".", "_", ":", "_", " ", "_", "-", "_").Replace(name)
}

// edgeLabel keeps the pipe delimiters of a Mermaid edge label intact.
func edgeLabel(column string) string {
	return strings.ReplaceAll(column, "|", "/")
}

func hasEdge(g *Graph, table string) bool {
	return len(g.Parents[table]) > 0 || len(g.Children[table]) > 0 || g.SelfRefs[table]
}
