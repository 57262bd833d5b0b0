package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/slots"
)

func newSlotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Slot tooling",
	}
	cmd.AddCommand(newSlotsPreviewCmd())
	return cmd
}

// newSlotsPreviewCmd prints the slots a window would generate without
// touching the database.
func newSlotsPreviewCmd() *cobra.Command {
	var (
		restaurant int64
		weekday    int
		launch     string
		dinner     string
		step       int
	)

	cmd := &cobra.Command{
		Use:     "preview",
		Short:   "Show the slots a service window produces",
		Example: "  dinego slots preview --weekday 5 --launch 12:00-15:00 --dinner 19:00-23:00 --step 30",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := domain.ServiceWindow{
				RestaurantID: restaurant,
				Weekday:      domain.Weekday(weekday),
				StepMinutes:  step,
			}

			var err error
			if w.Launch, err = parsePeriod("launch", launch); err != nil {
				return err
			}
			if w.Dinner, err = parsePeriod("dinner", dinner); err != nil {
				return err
			}

			out, err := slots.Generate(w, nil)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WEEKDAY\tSTART\tEND\tMINUTES")
			for _, s := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.Weekday, s.Start, s.End, s.Minutes())
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int64Var(&restaurant, "restaurant", 1, "restaurant id stamped on the slots")
	cmd.Flags().IntVar(&weekday, "weekday", 1, "ISO weekday, 1 = Monday")
	cmd.Flags().StringVar(&launch, "launch", "", "launch period as HH:MM-HH:MM")
	cmd.Flags().StringVar(&dinner, "dinner", "", "dinner period as HH:MM-HH:MM")
	cmd.Flags().IntVar(&step, "step", 30, "slot length in minutes")

	return cmd
}

func parsePeriod(field, s string) (*domain.Period, error) {
	if s == "" {
		return nil, nil
	}

	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return nil, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not HH:MM-HH:MM", s)}
	}

	start, err := domain.ParseTimeOfDay(from)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseTimeOfDay(to)
	if err != nil {
		return nil, err
	}

	return domain.NewPeriod(field, &start, &end)
}
