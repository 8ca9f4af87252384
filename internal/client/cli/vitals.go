package cli

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/client/api"
	"github.com/atinyakov/VitalsKeeper/internal/client/poller"
	"github.com/atinyakov/VitalsKeeper/internal/models"
	"github.com/spf13/cobra"
)

type vitalFlag struct {
	name   string
	prompt string
	value  float64
	target func(*models.VitalFields) **float64
}

func vitalFlags() []*vitalFlag {
	return []*vitalFlag{
		{name: "heart-rate", prompt: "Heart rate (bpm)", target: func(f *models.VitalFields) **float64 { return &f.HeartRate }},
		{name: "systolic", prompt: "Systolic (mmHg)", target: func(f *models.VitalFields) **float64 { return &f.Systolic }},
		{name: "diastolic", prompt: "Diastolic (mmHg)", target: func(f *models.VitalFields) **float64 { return &f.Diastolic }},
		{name: "oxygen", prompt: "Oxygen saturation (%)", target: func(f *models.VitalFields) **float64 { return &f.Oxygen }},
		{name: "temperature", prompt: "Temperature (°C)", target: func(f *models.VitalFields) **float64 { return &f.Temperature }},
	}
}

// NewSubmitCommand creates the submit command. Without any vital flag
// it asks for each value in turn; a blank answer skips it.
func NewSubmitCommand(opts *RootOptions) *cobra.Command {
	flags := vitalFlags()

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record a reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields models.VitalFields
			given := false
			for _, vf := range flags {
				if cmd.Flags().Changed(vf.name) {
					v := vf.value
					*vf.target(&fields) = &v
					given = true
				}
			}

			if !given {
				r := bufio.NewReader(cmd.InOrStdin())
				for _, vf := range flags {
					v, err := readOptionalFloat(r, cmd.OutOrStdout(), vf.prompt+": ")
					if err != nil {
						return err
					}
					*vf.target(&fields) = v
				}
			}

			c, sess, err := opts.authed()
			if err != nil {
				return err
			}
			rd, err := c.SubmitVitals(cmd.Context(), sess.Token, fields)
			if err != nil {
				return explain(err)
			}
			return printReading(cmd.OutOrStdout(), opts.Format, rd)
		},
	}

	for _, vf := range flags {
		cmd.Flags().Float64Var(&vf.value, vf.name, 0, vf.prompt)
	}

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var rng string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recorded readings, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := opts.authed()
			if err != nil {
				return err
			}
			readings, err := c.ListVitals(cmd.Context(), sess.Token, rng)
			if err != nil {
				return explain(err)
			}
			return printReadings(cmd.OutOrStdout(), opts.Format, readings)
		},
	}

	cmd.Flags().StringVarP(&rng, "range", "r", "", "only readings from the trailing period, e.g. 24h or 7d")

	return cmd
}

// NewWatchCommand creates the watch command, which refreshes the list on
// an interval until interrupted.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	var (
		rng      string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh the reading list periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := opts.authed()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			var fatal error
			p := poller.New(
				func(ctx context.Context) ([]models.Reading, error) {
					return c.ListVitals(ctx, sess.Token, rng)
				},
				interval,
				poller.OnUpdate(func(readings []models.Reading) {
					fmt.Fprintf(out, "Updated %s, %d readings\n", time.Now().In(displayLocation).Format("15:04:05"), len(readings))
					_ = printReadings(out, opts.Format, readings)
				}),
				poller.OnError(func(err error) {
					fmt.Fprintln(cmd.ErrOrStderr(), "refresh failed:", explain(err))
					// a rejected token will not recover on its own
					if api.IsUnauthorized(err) {
						fatal = explain(err)
						cancel()
					}
				}),
			)

			if err := p.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			p.Stop()
			return fatal
		},
	}

	cmd.Flags().StringVarP(&rng, "range", "r", "24h", "only readings from the trailing period")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 10*time.Second, "refresh interval")

	return cmd
}
