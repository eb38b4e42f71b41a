package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/protecthire/protecthire/internal/client"
	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/guard"
)

const defaultURL = "http://localhost:9080"

type rootOptions struct {
	url     string
	timeout time.Duration
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.url, client.WithTimeout(o.timeout))
}

func (o *rootOptions) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "guardctl",
		Short: "ProtectHire guard directory client",
		Long: `guardctl talks to a running ProtectHire API.

Examples:
  guardctl search --location mumbai --max-hourly-rate 600
  guardctl estimate 1 --from 2026-06-01 --to 2026-06-03
  guardctl book 1 --from 2026-06-01 --address "Bandra West"`,
		SilenceUsage: true,
	}

	url := os.Getenv("PROTECTHIRE_URL")
	if url == "" {
		url = defaultURL
	}
	root.PersistentFlags().StringVar(&opts.url, "url", url, "API base URL (or set PROTECTHIRE_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	root.AddCommand(
		newSearchCmd(opts),
		newGetCmd(opts),
		newEstimateCmd(opts),
		newRegisterCmd(opts),
		newBookCmd(opts),
		newStatsCmd(opts),
	)
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		f       client.Filter
		maxRate float64
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the guard directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("max-hourly-rate") {
				f.MaxHourlyRate = &maxRate
			}
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()
			res, err := opts.client().Search(ctx, f)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&f.Location, "location", "", "Location substring")
	cmd.Flags().StringVar(&f.Role, "role", "", "Role, e.g. Bouncer")
	cmd.Flags().StringVar(&f.Gender, "gender", "", "male or female")
	cmd.Flags().Float64Var(&maxRate, "max-hourly-rate", 0, "Highest acceptable hourly rate")
	cmd.Flags().Float64Var(&f.MinRating, "min-rating", 0, "Lowest acceptable rating")
	cmd.Flags().IntVar(&f.MinExperienceYears, "min-experience", 0, "Minimum years of experience")
	cmd.Flags().StringSliceVar(&f.Skills, "skill", nil, "Required skill (repeatable)")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <guard-id>",
		Short: "Show one guard profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()
			p, err := opts.client().Guard(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func newEstimateCmd(opts *rootOptions) *cobra.Command {
	var from, to, start, end string
	cmd := &cobra.Command{
		Use:   "estimate <guard-id>",
		Short: "Estimate the cost of booking a guard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				to = from
			}
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()
			res, err := opts.client().Estimate(ctx, args[0], from, to, start, end)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD (defaults to --from)")
	cmd.Flags().StringVar(&start, "start", "", "Shift start, HH:MM")
	cmd.Flags().StringVar(&end, "end", "", "Shift end, HH:MM")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var (
		reg                   guard.Registration
		hourly, daily, monthly float64
		key                   string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new guard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("hourly-rate") {
				reg.HourlyRate = &hourly
			}
			if cmd.Flags().Changed("daily-rate") {
				reg.DailyRate = &daily
			}
			if cmd.Flags().Changed("monthly-rate") {
				reg.MonthlyRate = &monthly
			}
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()
			p, replayed, err := opts.client().Register(ctx, reg, key)
			if err != nil {
				return err
			}
			if replayed {
				fmt.Fprintln(cmd.ErrOrStderr(), "already registered with this idempotency key")
			}
			return printJSON(cmd, p)
		},
	}
	cmd.Flags().StringVar(&reg.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&reg.Role, "role", "", "Role, e.g. Bodyguard")
	cmd.Flags().IntVar(&reg.ExperienceYears, "experience", 0, "Years of experience")
	cmd.Flags().StringVar(&reg.Location, "location", "", "City and state")
	cmd.Flags().StringVar(&reg.Gender, "gender", "", "male or female")
	cmd.Flags().StringVar(&reg.Certifications, "certifications", "", "Comma separated certifications")
	cmd.Flags().Float64Var(&hourly, "hourly-rate", 0, "Hourly rate")
	cmd.Flags().Float64Var(&daily, "daily-rate", 0, "Daily rate")
	cmd.Flags().Float64Var(&monthly, "monthly-rate", 0, "Monthly rate")
	cmd.Flags().StringVar(&reg.Bio, "bio", "", "Short biography")
	cmd.Flags().StringVar(&reg.ProfilePictureURL, "picture-url", "", "Profile picture URL")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "Retry-safe request key")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newBookCmd(opts *rootOptions) *cobra.Command {
	var form booking.Form
	cmd := &cobra.Command{
		Use:   "book <guard-id>",
		Short: "Send a booking request to a guard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.GuardID = args[0]
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()
			res, err := opts.client().Book(ctx, form)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&form.DateFrom, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&form.DateTo, "to", "", "Last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&form.StartTime, "start", "", "Shift start, HH:MM")
	cmd.Flags().StringVar(&form.EndTime, "end", "", "Shift end, HH:MM")
	cmd.Flags().StringVar(&form.Address, "address", "", "Service address")
	cmd.Flags().StringVar(&form.Instructions, "instructions", "", "Special instructions")
	cmd.Flags().StringVar(&form.ClientName, "client-name", "", "Your name")
	cmd.Flags().StringVar(&form.ClientEmail, "client-email", "", "Your email, for a copy of the request")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show service statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()
			st, err := opts.client().Stats(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, st)
		},
	}
}
