package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/interactions"
	"github.com/pscheid92/remedyhub/pkg/apiclient"
	"github.com/spf13/cobra"
)

// newAPICommand groups commands that talk to a running deployment instead of
// the database.
func newAPICommand() *cobra.Command {
	var (
		baseURL string
		token   string
	)
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Query a running remedyhub deployment",
	}
	cmd.PersistentFlags().StringVar(&baseURL, "url", envOr("REMEDYHUB_URL", "http://localhost:8080"), "base URL of the deployment")
	cmd.PersistentFlags().StringVar(&token, "token", os.Getenv("REMEDYHUB_TOKEN"), "bearer token for authenticated calls")

	client := func() (*apiclient.Client, error) {
		return apiclient.New(baseURL, apiclient.WithToken(token), apiclient.WithUserAgent("remedyctl"))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "plans",
		Short: "List subscription plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			plans, err := c.Plans(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PLAN\tPRICE\tFAVORITES\tSEARCHES/DAY\tCHECKS/DAY")
			for _, p := range plans {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, price(p.PriceCents),
					limit(p.Limits.MaxFavorites), limit(p.Limits.SearchesPerDay), limit(p.Limits.InteractionChecksPerDay))
			}
			return tw.Flush()
		},
	})

	var medications []string
	check := &cobra.Command{
		Use:   "check REMEDY...",
		Short: "Run an interaction check through the API",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			report, err := c.CheckInteractions(cmd.Context(), apiclient.InteractionCheckInput{
				Remedies:    args,
				Medications: medications,
			})
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), fromAPIReport(report))
		},
	}
	check.Flags().StringSliceVarP(&medications, "medication", "m", nil, "medication to include (repeatable)")
	cmd.AddCommand(check)

	return cmd
}

func fromAPIReport(r *apiclient.InteractionReport) interactions.Report {
	out := interactions.Report{
		HighestSeverity: domain.Severity(r.HighestSeverity),
		Safe:            r.Safe,
		Unrecognized:    r.Unrecognized,
		PairsChecked:    r.PairsChecked,
	}
	for _, f := range r.Findings {
		out.Findings = append(out.Findings, interactions.Finding{
			InteractionID:  f.InteractionID,
			Remedy:         f.Remedy,
			Other:          f.Other,
			OtherKind:      f.OtherKind,
			Severity:       domain.Severity(f.Severity),
			Description:    f.Description,
			Recommendation: f.Recommendation,
		})
	}
	return out
}

func price(cents int) string {
	if cents == 0 {
		return "free"
	}
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func limit(n int) string {
	if n < 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
