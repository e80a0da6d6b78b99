package graph

import (
	"fmt"
	"slices"
)

// TopoResult holds the result of topological sorting.
type TopoResult struct {
	// Order is the topological order (parents before sons).
	Order []string
	// HasCycle is true if the graph contains a cycle.
	HasCycle bool
	// CycleTables lists tables involved in cycles (if any).
	CycleTables []string
}

// TopoSort performs Kahn's algorithm on the given set of tables within the graph.
// Returns tables in dependency order: parents first, then sons. Ties keep
// the order of tables.
func TopoSort(g *Graph, tables []string) TopoResult {
	tableSet := make(map[string]bool, len(tables))
	for _, t := range tables {
		tableSet[t] = true
	}

	// In-degree = number of parent edges within the subset
	inDegree := make(map[string]int, len(tables))
	localChildren := make(map[string][]string)
	for _, t := range tables {
		for _, p := range g.Parents[t] {
			if tableSet[p] {
				localChildren[p] = append(localChildren[p], t)
				inDegree[t]++
			}
		}
	}

	var queue []string
	for _, t := range tables {
		if inDegree[t] == 0 {
			queue = append(queue, t)
		}
	}

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, child := range localChildren[node] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	result := TopoResult{Order: order}

	if len(order) < len(tables) {
		result.HasCycle = true
		for _, t := range tables {
			if inDegree[t] > 0 {
				result.CycleTables = append(result.CycleTables, t)
			}
		}
	}

	return result
}

// TopoSortAll performs topological sort across all tables in the graph.
func TopoSortAll(g *Graph) TopoResult {
	return TopoSort(g, g.names())
}

// DeleteOrder returns tables with every son before its parents, the order
// in which cascaded deletes run without tripping foreign keys. It fails when
// the tables form a cycle.
func DeleteOrder(g *Graph, tables []string) ([]string, error) {
	result := TopoSort(g, tables)
	if err := ValidateCycles(result); err != nil {
		return nil, err
	}
	order := slices.Clone(result.Order)
	slices.Reverse(order)
	return order, nil
}

// ValidateCycles checks for cycles and returns a descriptive error if found.
func ValidateCycles(result TopoResult) error {
	if !result.HasCycle {
		return nil
	}
	return fmt.Errorf("circular dependency detected among tables: %v", result.CycleTables)
}
