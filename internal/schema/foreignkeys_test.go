package schema

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/db-catalog/internal/db"
	"github.com/hurou927/db-catalog/internal/db/dbtest"
)

func shopConn() *dbtest.Conn {
	return dbtest.New().
		AddTable("customers", dbtest.AutoPK("id"), dbtest.Col("name")).
		AddTable("stores", dbtest.AutoPK("id"), dbtest.Col("city")).
		AddTable("orders", dbtest.AutoPK("id"), dbtest.Col("customer_id"), dbtest.Col("store_id"))
}

func TestResolveFirstWriterWinsAndSonsAppendUnconditionally(t *testing.T) {
	conn := shopConn().
		AddConstraint("orders", "customer_id", "customers").
		AddConstraint("orders", "store_id", "stores")

	cat, err := Load(context.Background(), conn, "shop", WithLogger(quietLogger()))
	require.NoError(t, err)

	orders, _ := cat.Table("orders")
	assert.Equal(t, "customer_id", orders.ForeignKey, "first constraint keeps the key")
	assert.Equal(t, "customers", orders.ForeignParent)
	assert.True(t, orders.ReferencesParent("customers"))
	assert.False(t, orders.ReferencesParent("stores"), "the losing parent is not referenced")

	customers, _ := cat.Table("customers")
	stores, _ := cat.Table("stores")
	assert.Equal(t, []string{"orders"}, customers.Sons)
	assert.Equal(t, []string{"orders"}, stores.Sons, "losing parent still gains the son")
}

func TestResolveConventionKeyIsNotOverwritten(t *testing.T) {
	conn := dbtest.New().
		AddTable("u_player", dbtest.AutoPK("ID")).
		AddTable("u_bag", dbtest.PK("refer:uid"), dbtest.Col("owner")).
		AddConstraint("u_bag", "owner", "u_player")

	cat, err := Load(context.Background(), conn, "main_bj", WithLogger(quietLogger()))
	require.NoError(t, err)

	bag, _ := cat.Table("u_bag")
	assert.Equal(t, "refer:uid", bag.ForeignKey)
	assert.Equal(t, FromConvention, bag.ForeignKeySource)
	assert.Empty(t, bag.ForeignParent, "constraint on another column says nothing about the convention key")

	player, _ := cat.Table("u_player")
	assert.Equal(t, []string{"u_bag"}, player.Sons)
}

func TestResolveConstraintConfirmsConventionKey(t *testing.T) {
	conn := dbtest.New().
		AddTable("u_player", dbtest.AutoPK("ID")).
		AddTable("u_bag", dbtest.PK("refer:uid")).
		AddConstraint("u_bag", "refer:uid", "u_player")

	cat, err := Load(context.Background(), conn, "main_bj", WithLogger(quietLogger()))
	require.NoError(t, err)

	bag, _ := cat.Table("u_bag")
	assert.Equal(t, FromConvention, bag.ForeignKeySource)
	assert.Equal(t, "u_player", bag.ForeignParent)
	assert.True(t, bag.ReferencesParent("u_player"))
}

func TestResolveDuplicateSonsAreKept(t *testing.T) {
	conn := dbtest.New().
		AddTable("users", dbtest.AutoPK("id")).
		AddTable("transfers", dbtest.AutoPK("id"), dbtest.Col("from_id"), dbtest.Col("to_id")).
		AddConstraint("transfers", "from_id", "users").
		AddConstraint("transfers", "to_id", "users")

	cat, err := Load(context.Background(), conn, "bank", WithLogger(quietLogger()))
	require.NoError(t, err)

	users, _ := cat.Table("users")
	assert.Equal(t, []string{"transfers", "transfers"}, users.Sons)
	transfers, _ := cat.Table("transfers")
	assert.Equal(t, "from_id", transfers.ForeignKey)
}

func TestResolveMissingTablesWarn(t *testing.T) {
	conn := shopConn().
		AddConstraint("dropped_table", "customer_id", "customers").
		AddConstraint("orders", "customer_id", "archived_customers").
		AddConstraint("orders", "store_id", "stores")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cat, err := Load(context.Background(), conn, "shop", WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "constraint child table not in catalog")
	assert.Contains(t, out, "table=dropped_table")
	assert.Contains(t, out, "constraint parent table not in catalog")
	assert.Contains(t, out, "table=archived_customers")

	orders, _ := cat.Table("orders")
	assert.Equal(t, "customer_id", orders.ForeignKey, "key is set before the parent lookup")

	customers, _ := cat.Table("customers")
	assert.Empty(t, customers.Sons)
	stores, _ := cat.Table("stores")
	assert.Equal(t, []string{"orders"}, stores.Sons)
}

func TestResolveConstraintErrorAbortsLoad(t *testing.T) {
	conn := shopConn()
	conn.ConstraintErr = &db.ConnectionError{Op: "list constraints", Err: errors.New("access denied")}

	cat, err := Load(context.Background(), conn, "shop", WithLogger(quietLogger()))
	require.Error(t, err)
	assert.Nil(t, cat)
	assert.True(t, db.IsConnectionError(err))
	assert.Contains(t, err.Error(), "resolving foreign keys")
}

func TestResolveForeignKeysOnAssembledCatalog(t *testing.T) {
	player, err := BuildTable("u_player", []db.ColumnInfo{dbtest.AutoPK("ID")}, Convention{})
	require.NoError(t, err)
	tank, err := BuildTable("u_tank", []db.ColumnInfo{dbtest.AutoPK("ID"), dbtest.Col("uid")}, Convention{})
	require.NoError(t, err)
	cat := NewCatalog("main_bj", player, tank)

	conn := dbtest.New().AddConstraint("u_tank", "uid", "u_player")
	require.NoError(t, ResolveForeignKeys(context.Background(), cat, conn, WithLogger(quietLogger())))

	assert.Equal(t, "uid", tank.ForeignKey)
	assert.Equal(t, []string{"u_tank"}, player.Sons)
}
