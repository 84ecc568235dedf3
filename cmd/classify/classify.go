// Package classify looks up the merchant rule a description would match
package classify

import (
	"fmt"
	"strings"

	"fjacquet/statement-ingest/cmd/common"
	"fjacquet/statement-ingest/cmd/root"
	"fjacquet/statement-ingest/internal/models"

	"github.com/spf13/cobra"
)

const closestLimit = 3

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify <description>",
	Short: "Suggest merchant and category for a transaction description",
	Long: `Classify a single description the way the transaction edit form does,
using the suggestion ordering of the merchant rules.`,
	Args: cobra.MinimumNArgs(1),
	RunE: classifyFunc,
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := common.Context(cmd)

	im, err := c.Importer(ctx, nil)
	if err != nil {
		return err
	}
	description := strings.Join(args, " ")
	result, err := im.Suggest(ctx, description)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Matched() {
		fmt.Fprintf(out, "No rule matches %q\n", description)
		near, err := im.Closest(ctx, description, closestLimit)
		if err != nil {
			return err
		}
		for _, n := range near {
			fmt.Fprintf(out, "  close: %s %q (%s, %d edits)\n", n.Rule.ID, n.Rule.Pattern, n.Rule.MatchType, n.Distance)
		}
		return nil
	}
	fmt.Fprintf(out, "Rule:     %s\n", models.Deref(result.RuleID))
	fmt.Fprintf(out, "Merchant: %s\n", orDash(models.Deref(result.MerchantName)))
	fmt.Fprintf(out, "Category: %s\n", orDash(models.Deref(result.CategoryID)))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
