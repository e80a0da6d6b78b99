package graph

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/db-catalog/internal/db/dbtest"
	"github.com/hurou927/db-catalog/internal/schema"
)

func gameCatalog(t *testing.T) *schema.Catalog {
	t.Helper()
	conn := dbtest.New().
		AddTable("u_player", dbtest.AutoPK("id"), dbtest.Col("nick")).
		AddTable("u_tank", dbtest.AutoPK("id"), dbtest.Col("uid")).
		AddTable("u_bag", dbtest.PK("refer:uid"), dbtest.Col("slots")).
		AddTable("u_part", dbtest.AutoPK("id"), dbtest.Col("tank_id")).
		AddTable("event_log", dbtest.Col("message")).
		AddTable("node", dbtest.AutoPK("id"), dbtest.Col("parent_id")).
		AddConstraint("u_tank", "uid", "u_player").
		AddConstraint("u_tank", "uid", "u_player").
		AddConstraint("u_bag", "refer:uid", "u_player").
		AddConstraint("u_part", "tank_id", "u_tank").
		AddConstraint("node", "parent_id", "node")

	cat, err := schema.Load(context.Background(), conn, "game",
		schema.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)
	return cat
}

func TestBuild(t *testing.T) {
	g := Build(gameCatalog(t), nil)

	assert.Len(t, g.Tables, 6)
	assert.ElementsMatch(t, []Edge{
		{Column: "uid", ChildTable: "u_tank", ParentTable: "u_player"},
		{Column: "refer:uid", ChildTable: "u_bag", ParentTable: "u_player"},
		{Column: "tank_id", ChildTable: "u_part", ParentTable: "u_tank"},
	}, g.Edges, "duplicate sons collapse into one edge")
	assert.Equal(t, []string{"u_tank", "u_bag"}, g.Children["u_player"])
	assert.Equal(t, []string{"u_player"}, g.Parents["u_tank"])
	assert.True(t, g.SelfRefs["node"])
	assert.Empty(t, g.Parents["node"])
}

func TestBuildSecondParentEdgeIsUnlabelled(t *testing.T) {
	conn := dbtest.New().
		AddTable("customer", dbtest.AutoPK("id")).
		AddTable("warehouse", dbtest.AutoPK("id")).
		AddTable("orders", dbtest.AutoPK("id"), dbtest.Col("customer_id"), dbtest.Col("warehouse_id")).
		AddConstraint("orders", "customer_id", "customer").
		AddConstraint("orders", "warehouse_id", "warehouse")
	cat, err := schema.Load(context.Background(), conn, "shop")
	require.NoError(t, err)

	g := Build(cat, nil)
	assert.ElementsMatch(t, []Edge{
		{Column: "customer_id", ChildTable: "orders", ParentTable: "customer"},
		{Column: "", ChildTable: "orders", ParentTable: "warehouse"},
	}, g.Edges)

	var buf bytes.Buffer
	require.NoError(t, WriteMermaid(&buf, g))
	assert.Contains(t, buf.String(), "        orders -->|customer_id| customer\n")
	assert.Contains(t, buf.String(), "        orders --> warehouse\n")
}

func TestBuildExcludes(t *testing.T) {
	g := Build(gameCatalog(t), map[string]bool{"u_tank": true})

	assert.NotContains(t, g.Tables, "u_tank")
	assert.Equal(t, []Edge{
		{Column: "refer:uid", ChildTable: "u_bag", ParentTable: "u_player"},
	}, g.Edges)
	assert.Empty(t, g.Parents["u_part"])
}

func TestRootsAndComponents(t *testing.T) {
	g := Build(gameCatalog(t), nil)

	assert.Equal(t, []string{"event_log", "node", "u_player"}, g.Roots())

	comps := FindComponents(g)
	require.Len(t, comps, 3)
	assert.Equal(t, []string{"event_log"}, comps[0].Tables)
	assert.Equal(t, []string{"node"}, comps[1].Tables)
	assert.Equal(t, []string{"u_bag", "u_part", "u_player", "u_tank"}, comps[2].Tables)
}

func TestTopoSort(t *testing.T) {
	g := Build(gameCatalog(t), nil)

	res := TopoSort(g, []string{"u_part", "u_tank", "u_bag", "u_player"})
	require.False(t, res.HasCycle)
	assert.Equal(t, []string{"u_player", "u_tank", "u_bag", "u_part"}, res.Order)

	all := TopoSortAll(g)
	assert.False(t, all.HasCycle, "self references are not cycles")
	assert.Len(t, all.Order, 6)
}

func TestDeleteOrder(t *testing.T) {
	g := Build(gameCatalog(t), nil)

	order, err := DeleteOrder(g, []string{"u_player", "u_tank", "u_part"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u_part", "u_tank", "u_player"}, order)
}

func TestDeleteOrderCycle(t *testing.T) {
	a := &schema.TableDescriptor{Name: "a", PrimaryKey: "id", ForeignKey: "b_id", Sons: []string{"b"}}
	b := &schema.TableDescriptor{Name: "b", PrimaryKey: "id", ForeignKey: "a_id", Sons: []string{"a"}}
	g := Build(schema.NewCatalog("db", a, b), nil)

	res := TopoSortAll(g)
	assert.True(t, res.HasCycle)
	assert.ElementsMatch(t, []string{"a", "b"}, res.CycleTables)

	_, err := DeleteOrder(g, []string{"a", "b"})
	assert.ErrorContains(t, err, "circular dependency")
}

func TestWriteMermaid(t *testing.T) {
	g := Build(gameCatalog(t), nil)

	var buf bytes.Buffer
	require.NoError(t, WriteMermaid(&buf, g))

	want := `graph TD
    subgraph component_1
        event_log
    end

    subgraph component_2
        node -->|parent_id| node
    end

    subgraph component_3
        u_bag -->|refer:uid| u_player
        u_part -->|tank_id| u_tank
        u_tank -->|uid| u_player
    end
`
	assert.Equal(t, want, buf.String())
}

func TestWriteText(t *testing.T) {
	g := Build(gameCatalog(t), nil)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, g))
	out := buf.String()

	assert.Contains(t, out, "Tables: 6\n")
	assert.Contains(t, out, "Foreign Keys: 4\n")
	assert.Contains(t, out, "Connected Components: 3\n")
	assert.Contains(t, out, "WARNING: Tables without primary key: [event_log u_bag]")
	assert.Contains(t, out, "Convention foreign keys: [u_bag.refer:uid]")
	assert.Contains(t, out, "Self-referencing tables: [node]")
	assert.Contains(t, out, "Root tables (no parents): [event_log node u_player]")
	assert.Contains(t, out, "1. u_player (2 cols, PK: id, sons: u_tank, u_tank, u_bag)")
	assert.Contains(t, out, "u_bag (2 cols, no PK, FK: refer:uid -> uid)")
	assert.NotContains(t, out, "Circular")
}
