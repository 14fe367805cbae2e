package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent password checks",
		Long: `List recent password checks made from this machine. Only the outcome is
kept; passwords are never stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return errors.New("--limit must be positive")
			}
			return withRuntime(opts, func(rt *runtime) error {
				if rt.history == nil {
					return errors.New("history is unavailable: database could not be opened")
				}
				recs, err := rt.history.RecentChecks(limit)
				if err != nil {
					return fmt.Errorf("reading history: %w", err)
				}
				if jsonOutput {
					type entry struct {
						Subject     string    `json:"subject,omitempty"`
						Strength    string    `json:"strength"`
						Reasons     int       `json:"reasons"`
						Suggestions int       `json:"suggestions"`
						CheckedAt   time.Time `json:"checked_at"`
					}
					out := make([]entry, 0, len(recs))
					for _, r := range recs {
						out = append(out, entry{r.Subject, r.Strength, r.Reasons, r.Suggestions, r.CheckedAt})
					}
					return writeJSON(cmd.OutOrStdout(), out)
				}
				if len(recs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No checks yet")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CHECKED\tSUBJECT\tSTRENGTH\tISSUES\tSUGGESTIONS")
				for _, r := range recs {
					subject := r.Subject
					if subject == "" {
						subject = "-"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
						r.CheckedAt.Local().Format("2006-01-02 15:04:05"), subject, r.Strength, r.Reasons, r.Suggestions)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of checks to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
