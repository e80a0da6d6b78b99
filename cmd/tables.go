package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List catalogued tables with their keys and sons",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		exclude := cfg.ExcludeSet()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "# %s (%d tables)\n", cat.Name(), cat.Len())
		fmt.Fprintln(tw, "TABLE\tPRIMARY\tFOREIGN\tSOURCE\tSONS")
		for _, name := range cat.Tables() {
			if exclude[name] {
				continue
			}
			tbl, _ := cat.Table(name)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				name, orDash(tbl.PrimaryKey), orDash(tbl.ForeignKey),
				tbl.ForeignKeySource, orDash(strings.Join(tbl.Sons, ",")))
		}
		return tw.Flush()
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
