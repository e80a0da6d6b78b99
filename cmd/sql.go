package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hurou927/db-catalog/internal/graph"
	"github.com/hurou927/db-catalog/internal/output"
	"github.com/hurou927/db-catalog/internal/rowsrc"
	"github.com/hurou927/db-catalog/internal/schema"
	"github.com/hurou927/db-catalog/internal/statement"
)

// sqlRequest is what one sql subcommand asks for.
type sqlRequest struct {
	Table   string
	Rows    []statement.Row
	Pri     *statement.Value
	Foreign *statement.Value
	Cascade bool
}

// scriptStatement is one generated statement and the table it targets.
type scriptStatement struct {
	Table string
	SQL   string
}

var (
	sqlTable    string
	sqlRowsPath string
	sqlPri      string
	sqlForeign  string
	sqlTx       bool
	sqlOutput   string
	sqlCascade  bool
)

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Generate SQL statements from the catalog",
	Long: `Loads the catalog and prints INSERT, UPDATE, DELETE or SELECT statements for
one table. Row data comes from a YAML or JSON file; missing and empty values
are filled from column defaults.`,
}

func newSQLCommand(use, short string, build func(*schema.Catalog, sqlRequest) ([]scriptStatement, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			stmts, err := build(cat, req)
			if err != nil {
				return err
			}
			return writeScript(cmd.OutOrStdout(), stmts)
		},
	}
}

func readRequest(cmd *cobra.Command) (sqlRequest, error) {
	req := sqlRequest{Table: sqlTable, Cascade: sqlCascade}
	if req.Table == "" {
		return req, fmt.Errorf("--table is required")
	}
	if sqlRowsPath != "" {
		rows, err := rowsrc.Load(sqlRowsPath)
		if err != nil {
			return req, err
		}
		req.Rows = rows
	}
	flags := cmd.Flags()
	if flags.Changed("pri") {
		v := statement.String(sqlPri)
		req.Pri = &v
	}
	if flags.Changed("foreign") {
		v := statement.String(sqlForeign)
		req.Foreign = &v
	}
	if req.Pri != nil && req.Foreign != nil {
		return req, fmt.Errorf("--pri and --foreign are mutually exclusive")
	}
	return req, nil
}

func buildInsert(cat *schema.Catalog, req sqlRequest) ([]scriptStatement, error) {
	if len(req.Rows) == 0 {
		return nil, fmt.Errorf("insert needs --rows")
	}
	sql, err := statement.Insert(cat, req.Table, req.Rows...)
	if err != nil {
		return nil, err
	}
	return []scriptStatement{{Table: req.Table, SQL: sql}}, nil
}

func buildUpdate(cat *schema.Catalog, req sqlRequest) ([]scriptStatement, error) {
	if len(req.Rows) == 0 {
		return nil, fmt.Errorf("update needs --rows")
	}
	stmts := make([]scriptStatement, 0, len(req.Rows))
	for i, row := range req.Rows {
		sql, err := statement.Update(cat, req.Table, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		stmts = append(stmts, scriptStatement{Table: req.Table, SQL: sql})
	}
	return stmts, nil
}

func buildSelect(cat *schema.Catalog, req sqlRequest) ([]scriptStatement, error) {
	key, ok := statement.KeyFor(req.Pri, req.Foreign)
	if !ok {
		return nil, fmt.Errorf("select needs --pri or --foreign")
	}
	sql, err := statement.Select(cat, req.Table, key)
	if err != nil {
		return nil, err
	}
	return []scriptStatement{{Table: req.Table, SQL: sql}}, nil
}

// buildDelete deletes by --pri or --foreign, or every --rows entry by
// primary key. With cascade, a delete by primary key first removes the
// rows of every son table whose foreign key references it. Sons whose one
// recorded foreign key points at another parent are skipped.
func buildDelete(cat *schema.Catalog, req sqlRequest) ([]scriptStatement, error) {
	if len(req.Rows) > 0 {
		if req.Cascade {
			return nil, fmt.Errorf("--cascade needs --pri")
		}
		sql, err := statement.DeleteMany(cat, req.Table, req.Rows...)
		if err != nil {
			return nil, err
		}
		return []scriptStatement{{Table: req.Table, SQL: sql}}, nil
	}

	key, ok := statement.KeyFor(req.Pri, req.Foreign)
	if !ok {
		return nil, fmt.Errorf("delete needs --rows, --pri or --foreign")
	}
	sql, err := statement.Delete(cat, req.Table, key)
	if err != nil {
		return nil, err
	}
	if !req.Cascade {
		return []scriptStatement{{Table: req.Table, SQL: sql}}, nil
	}
	if key.Column != statement.PrimaryKey {
		return nil, fmt.Errorf("--cascade needs --pri")
	}

	tbl, _ := cat.Table(req.Table)
	var sons []string
	for _, son := range tbl.Sons {
		if son != req.Table && !slices.Contains(sons, son) {
			sons = append(sons, son)
		}
	}

	order, err := graph.DeleteOrder(graph.Build(cat, nil), append(sons, req.Table))
	if err != nil {
		return nil, err
	}

	stmts := make([]scriptStatement, 0, len(order))
	for _, name := range order {
		if name == req.Table {
			stmts = append(stmts, scriptStatement{Table: name, SQL: sql})
			continue
		}
		son, _ := cat.Table(name)
		if son.HasForeignKey() && !son.ReferencesParent(req.Table) {
			slog.Warn("son whose foreign key references another parent skipped",
				"table", name, "parent", req.Table, "column", son.ForeignKey, "references", son.ForeignParent)
			continue
		}
		sonSQL, err := statement.Delete(cat, name, statement.ByForeign(key.Value))
		if err != nil {
			if errors.Is(err, statement.ErrMissingKey) {
				slog.Warn("son without foreign key skipped", "table", name, "parent", req.Table)
				continue
			}
			return nil, err
		}
		stmts = append(stmts, scriptStatement{Table: name, SQL: sonSQL})
	}
	return stmts, nil
}

func writeScript(stdout io.Writer, stmts []scriptStatement) error {
	path := sqlOutput
	if path == "" {
		path = cfg.Output
	}

	out := stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := output.NewWriter(out, sqlTx)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, s := range stmts {
		if err := w.WriteStatement(s.Table, s.SQL); err != nil {
			return err
		}
	}
	if err := w.WriteFooter(); err != nil {
		return err
	}

	slog.Debug("script written", "statements", w.Count(), "output", path)
	return nil
}

func init() {
	pf := sqlCmd.PersistentFlags()
	pf.StringVar(&sqlTable, "table", "", "target table (required)")
	pf.StringVar(&sqlRowsPath, "rows", "", "YAML or JSON file with row data, - for stdin")
	pf.StringVar(&sqlPri, "pri", "", "primary key value")
	pf.StringVar(&sqlForeign, "foreign", "", "foreign key value")
	pf.BoolVar(&sqlTx, "tx", false, "wrap the script in a transaction")
	pf.StringVar(&sqlOutput, "output", "", "output file path (overrides config)")

	deleteCmd := newSQLCommand("delete", "Generate DELETE statements", buildDelete)
	deleteCmd.Flags().BoolVar(&sqlCascade, "cascade", false, "also delete son rows referencing --pri")

	sqlCmd.AddCommand(
		newSQLCommand("insert", "Generate one INSERT for all rows", buildInsert),
		newSQLCommand("update", "Generate one UPDATE per row", buildUpdate),
		deleteCmd,
		newSQLCommand("select", "Generate a SELECT by primary or foreign key", buildSelect),
	)
	rootCmd.AddCommand(sqlCmd)
}
