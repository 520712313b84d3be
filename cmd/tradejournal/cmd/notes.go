package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Weekly and monthly review notes",
	Long: `Record what a week or month taught you and what you plan next.

Notes are weekly unless --monthly is given. The period is free text for
weekly notes (e.g. 2024-W11) and YYYY-MM for monthly ones.

Examples:
  tradejournal notes add --period 2024-W11 --lesson "cut losers" --plan "A setups only"
  tradejournal notes list --monthly`,
}

var notesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a note",
	Args:  cobra.NoArgs,
	RunE:  runNotesAdd,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runNotesList,
}

var notesRmCmd = &cobra.Command{
	Use:   "rm <note-id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesRm,
}

var (
	notesMonthly bool
	notePeriod   string
	noteLesson   string
	notePlan     string
)

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesAddCmd, notesListCmd, notesRmCmd)

	notesCmd.PersistentFlags().BoolVar(&notesMonthly, "monthly", false, "use monthly notes instead of weekly")
	notesAddCmd.Flags().StringVar(&notePeriod, "period", "", "week label or YYYY-MM (required)")
	notesAddCmd.Flags().StringVar(&noteLesson, "lesson", "", "what went well or badly")
	notesAddCmd.Flags().StringVar(&notePlan, "plan", "", "what to do next period")
	notesAddCmd.MarkFlagRequired("period")
}

func noteKind() journal.NoteKind {
	if notesMonthly {
		return journal.Monthly
	}
	return journal.Weekly
}

func runNotesAdd(cmd *cobra.Command, args []string) error {
	n, err := app.store.AddNote(cmd.Context(), journal.Note{
		Owner:  app.cfg.Owner,
		Kind:   noteKind(),
		Period: notePeriod,
		Lesson: noteLesson,
		Plan:   notePlan,
	})
	if err != nil {
		return err
	}
	app.log.WithField("note", n.ID).Infof("%s note added", n.Kind)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s note %s\n", n.Kind, n.ID)
	return nil
}

func runNotesList(cmd *cobra.Command, args []string) error {
	notes, err := app.store.ListNotes(cmd.Context(), app.cfg.Owner, noteKind())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{n.ID, n.Period, n.Lesson, n.Plan})
	}
	return report.WriteTable(cmd.OutOrStdout(), []string{"ID", "Period", "Lesson", "Plan"}, rows)
}

func runNotesRm(cmd *cobra.Command, args []string) error {
	if err := app.store.DeleteNote(cmd.Context(), app.cfg.Owner, args[0]); err != nil {
		return err
	}
	app.log.WithField("note", args[0]).Info("note deleted")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted note %s\n", args[0])
	return nil
}
