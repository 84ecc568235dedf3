// Package rules lists the merchant rules in evaluation order
package rules

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"fjacquet/statement-ingest/cmd/common"
	"fjacquet/statement-ingest/cmd/root"
	"fjacquet/statement-ingest/internal/categorizer"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/store"

	"github.com/spf13/cobra"
)

var (
	orderingName string
	exportFile   string
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "List merchant rules in the order they are evaluated",
	Long: `List the merchant rules of the configured source in evaluation order.
The import ordering is used unless --ordering names another one.
--export writes the listed rules to a YAML rules file, e.g. to seed a
local file from the database.`,
	RunE: rulesFunc,
}

func init() {
	Cmd.Flags().StringVar(&orderingName, "ordering", "", "bulk_import or live_suggestion (default: rules.import_ordering)")
	Cmd.Flags().StringVar(&exportFile, "export", "", "Write the rules, in evaluation order, to this YAML file")
}

func rulesFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	ordering := c.ImportOrdering()
	if orderingName != "" {
		if ordering, err = categorizer.ParseOrdering(orderingName); err != nil {
			return err
		}
	}

	ctx := common.Context(cmd)
	source, err := c.RuleSource(ctx)
	if err != nil {
		return err
	}
	loaded, err := source.LoadRules(ctx)
	if err != nil {
		return err
	}

	sorted := ordering.Sort(loaded)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRIORITY\tMATCH\tPATTERN\tMERCHANT\tCATEGORY")
	for _, r := range sorted {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Priority, r.MatchType, r.Pattern,
			models.Deref(r.MerchantName), models.Deref(r.CategoryID))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d rules, %s ordering\n", len(loaded), ordering)

	if exportFile == "" {
		return nil
	}
	path, err := filepath.Abs(exportFile)
	if err != nil {
		return err
	}
	if err := store.NewRuleStore(path, c.GetLogger()).SaveRules(sorted); err != nil {
		return fmt.Errorf("error exporting rules: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Rules written to %s\n", path)
	return nil
}
