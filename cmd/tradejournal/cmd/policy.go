package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage your trading rules",
	Long: `Manage the rules you trade by. Inactive policies stay listed but can
be switched back on with toggle.

Examples:
  tradejournal policy add --category risk --title "1% max" --content "Never risk more than 1% per trade"
  tradejournal policy list --category risk
  tradejournal policy toggle 01HX...`,
}

var policyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a policy",
	Args:  cobra.NoArgs,
	RunE:  runPolicyAdd,
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List policies",
	Args:  cobra.NoArgs,
	RunE:  runPolicyList,
}

var policyEditCmd = &cobra.Command{
	Use:   "edit <policy-id>",
	Short: "Change a policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyEdit,
}

var policyRmCmd = &cobra.Command{
	Use:   "rm <policy-id>",
	Short: "Delete a policy and its violations",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyRm,
}

var policyToggleCmd = &cobra.Command{
	Use:   "toggle <policy-id>",
	Short: "Switch a policy between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyToggle,
}

var violationsCmd = &cobra.Command{
	Use:   "violations",
	Short: "Record which policies a trade broke",
	Long: `Record which policies a trade broke and see which rules you break
most.

Examples:
  tradejournal violations set 01HX... 01HY... 01HZ...
  tradejournal violations set 01HX...          # clears the set
  tradejournal violations stats`,
}

var violationsSetCmd = &cobra.Command{
	Use:   "set <trade-id> [policy-id...]",
	Short: "Replace the policies a trade broke",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runViolationsSet,
}

var violationsListCmd = &cobra.Command{
	Use:   "list <trade-id>",
	Short: "List the policies a trade broke",
	Args:  cobra.ExactArgs(1),
	RunE:  runViolationsList,
}

var violationsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the most violated policies",
	Args:  cobra.NoArgs,
	RunE:  runViolationsStats,
}

var (
	policyCategory string
	policyTitle    string
	policyContent  string
	policyOrder    int
)

func init() {
	rootCmd.AddCommand(policyCmd, violationsCmd)
	policyCmd.AddCommand(policyAddCmd, policyListCmd, policyEditCmd, policyRmCmd, policyToggleCmd)
	violationsCmd.AddCommand(violationsSetCmd, violationsListCmd, violationsStatsCmd)

	for _, c := range []*cobra.Command{policyAddCmd, policyEditCmd} {
		c.Flags().StringVar(&policyCategory, "category", "", "grouping, e.g. risk or entry")
		c.Flags().StringVar(&policyTitle, "title", "", "short name")
		c.Flags().StringVar(&policyContent, "content", "", "the rule itself")
		c.Flags().IntVar(&policyOrder, "order", 0, "sort position within the category")
	}
	policyListCmd.Flags().StringVar(&policyCategory, "category", "", "only list this category")
}

func runPolicyAdd(cmd *cobra.Command, args []string) error {
	p, err := app.store.AddPolicy(cmd.Context(), journal.Policy{
		Owner:     app.cfg.Owner,
		Category:  policyCategory,
		Title:     policyTitle,
		Content:   policyContent,
		SortOrder: policyOrder,
	})
	if err != nil {
		return err
	}
	app.log.WithField("policy", p.ID).Info("policy added")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added policy %s\n", p.ID)
	return nil
}

func runPolicyList(cmd *cobra.Command, args []string) error {
	ps, err := app.store.ListPolicies(cmd.Context(), app.cfg.Owner, policyCategory)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		active := "yes"
		if !p.Active {
			active = "no"
		}
		rows = append(rows, []string{p.ID, p.Category, p.Title, p.Content, active})
	}
	return report.WriteTable(cmd.OutOrStdout(), []string{"ID", "Category", "Title", "Rule", "Active"}, rows)
}

func runPolicyEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := app.store.GetPolicy(ctx, app.cfg.Owner, args[0])
	if err != nil {
		return err
	}
	fs := cmd.Flags()
	if fs.Changed("category") {
		p.Category = policyCategory
	}
	if fs.Changed("title") {
		p.Title = policyTitle
	}
	if fs.Changed("content") {
		p.Content = policyContent
	}
	if fs.Changed("order") {
		p.SortOrder = policyOrder
	}

	if p, err = app.store.UpdatePolicy(ctx, p); err != nil {
		return err
	}
	app.log.WithField("policy", p.ID).Info("policy updated")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated policy %s\n", p.ID)
	return nil
}

func runPolicyRm(cmd *cobra.Command, args []string) error {
	if err := app.store.DeletePolicy(cmd.Context(), app.cfg.Owner, args[0]); err != nil {
		return err
	}
	app.log.WithField("policy", args[0]).Info("policy deleted")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted policy %s\n", args[0])
	return nil
}

func runPolicyToggle(cmd *cobra.Command, args []string) error {
	p, err := app.store.TogglePolicy(cmd.Context(), app.cfg.Owner, args[0])
	if err != nil {
		return err
	}
	state := "active"
	if !p.Active {
		state = "inactive"
	}
	app.log.WithField("policy", p.ID).Infof("policy %s", state)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Policy %s is now %s\n", p.ID, state)
	return nil
}

func runViolationsSet(cmd *cobra.Command, args []string) error {
	vs, err := app.store.SetViolations(cmd.Context(), app.cfg.Owner, args[0], args[1:])
	if err != nil {
		return err
	}
	app.log.WithField("trade", args[0]).Infof("%d violations recorded", len(vs))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Trade %s has %d violations\n", args[0], len(vs))
	return nil
}

func runViolationsList(cmd *cobra.Command, args []string) error {
	vs, err := app.store.ListViolations(cmd.Context(), app.cfg.Owner, args[0])
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(vs))
	for _, v := range vs {
		rows = append(rows, []string{v.PolicyID, v.Category, v.Title})
	}
	return report.WriteTable(cmd.OutOrStdout(), []string{"Policy", "Category", "Title"}, rows)
}

func runViolationsStats(cmd *cobra.Command, args []string) error {
	st, err := app.store.ViolationStats(cmd.Context(), app.cfg.Owner)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total violations: %d across %d trades\n", st.Total, st.TradesWithViolations)

	rows := make([][]string, 0, len(st.Top))
	for _, pc := range st.Top {
		rows = append(rows, []string{pc.Title, pc.Category, strconv.Itoa(pc.Count)})
	}
	return report.WriteTable(out, []string{"Policy", "Category", "Count"}, rows)
}
