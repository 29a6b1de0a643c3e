package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/auth"
	"github.com/ziadkadry99/policyvote/internal/controller"
)

var (
	adminStatusFilter string
	adminComment      string
	adminYes          bool
	adminCategory     string
	adminAuditLimit   int
	adminExportIDs    []string
	adminExportOut    string
	adminInactive     bool
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Moderate submitted policies",
	Long: `Moderation commands for admin and superuser accounts. Every change is
followed by a fresh listing and stats from the server.`,
}

// adminRun opens the app, checks admin access and refreshes the list
// before fn runs.
func adminRun(fn func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.require(cmd.Context(), auth.RequireAdmin); err != nil {
			return err
		}
		c := controller.NewAdmin(a.env())
		if err := c.Filter(adminStatusFilter); err != nil {
			return err
		}
		return explain(fn(cmd, args, a, c))
	}
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show policy, vote and student counters",
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}
		printStats(cmd, c.Stats())
		return nil
	}),
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List policies for review",
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}
		printStats(cmd, c.Stats())
		printAdminPolicies(cmd, a, c.Policies())
		return nil
	}),
}

var adminShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one policy with its admin fields",
	Args:  cobra.ExactArgs(1),
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		p, err := c.Show(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "ID\t%s\n", p.ID)
		fmt.Fprintf(tw, "Title\t%s\n", p.Title)
		fmt.Fprintf(tw, "Status\t%s\n", a.tr.T(string(p.Status)))
		fmt.Fprintf(tw, "Votes\t+%d/-%d\n", p.Upvotes, p.Downvotes)
		if p.CategoryName != "" {
			fmt.Fprintf(tw, "Category\t%s\n", p.CategoryName)
		}
		if p.ViewCount > 0 {
			fmt.Fprintf(tw, "Views\t%d\n", p.ViewCount)
		}
		if !p.CreatedAt.IsZero() {
			fmt.Fprintf(tw, "Submitted\t%s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		if p.AdminComment != "" {
			fmt.Fprintf(tw, "Comment\t%s\n", p.AdminComment)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\n", p.Description)
		return nil
	}),
}

var adminCreateStudentCmd = &cobra.Command{
	Use:   "create-student CODE",
	Short: "Create a student account with a classroom code",
	Args:  cobra.ExactArgs(1),
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		return c.CreateStudent(cmd.Context(), args[0], !adminInactive)
	}),
}

var adminStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Move a policy to a new status",
	Long: `Moves a policy to one of: ` + statusList() + `.
--comment attaches an explanation shown to students.`,
	Args: cobra.ExactArgs(2),
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		if err := c.SetStatus(cmd.Context(), args[0], api.Status(args[1]), adminComment); err != nil {
			return err
		}
		printAdminPolicies(cmd, a, c.Policies())
		return nil
	}),
}

var adminCommentCmd = &cobra.Command{
	Use:   "comment ID [TEXT]",
	Short: "Set or clear the admin comment on a policy",
	Args:  cobra.RangeArgs(1, 2),
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		text := ""
		if len(args) == 2 {
			text = args[1]
		}
		return c.Comment(cmd.Context(), args[0], text)
	}),
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete ID...",
	Short: "Delete one or more policies",
	Args:  cobra.MinimumNArgs(1),
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		if !adminYes {
			if err := confirm(fmt.Sprintf("Delete %d %s", len(args), plural(len(args), "policy", "policies"))); err != nil {
				return err
			}
		}
		if len(args) == 1 {
			return c.Delete(cmd.Context(), args[0])
		}
		return c.BulkDelete(cmd.Context(), args)
	}),
}

var adminBulkCmd = &cobra.Command{
	Use:   "bulk ACTION ID...",
	Short: "Apply one action to several policies",
	Long: `ACTION is one of approve, reject, uncertain, in_progress, completed,
on_hold, cannot_implement, delete or set_category (with --category).`,
	Args: cobra.MinimumNArgs(2),
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		if args[0] == controller.BulkDelete && !adminYes {
			if err := confirm(fmt.Sprintf("Delete %d policies", len(args)-1)); err != nil {
				return err
			}
		}
		return c.Bulk(cmd.Context(), args[0], args[1:], adminCategory)
	}),
}

var adminAnalyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show engagement analytics",
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		an, err := c.Analytics(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Policies:       %d\n", an.TotalPolicies)
		fmt.Fprintf(out, "Votes:          %d\n", an.TotalVotes)
		fmt.Fprintf(out, "Comments:       %d\n", an.TotalComments)
		fmt.Fprintf(out, "Participation:  %.1f%%\n", an.ParticipationRate)
		fmt.Fprintf(out, "Success rate:   %.1f%%\n", an.PolicySuccessRate)

		if len(an.TopClassrooms) > 0 {
			fmt.Fprintln(out, "\nTop classrooms")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tVOTES\tCOMMENTS\tPOLICIES\tSCORE")
			for _, cl := range an.TopClassrooms {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\n", cl.LoginCode, cl.VoteCount, cl.CommentCount, cl.PolicyCount, cl.EngagementScore)
			}
			tw.Flush()
		}
		if len(an.CategoryDistribution) > 0 {
			fmt.Fprintln(out, "\nBy category")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tPOLICIES\tVOTES")
			for _, cs := range an.CategoryDistribution {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", cs.CategoryName, cs.PolicyCount, cs.VoteCount)
			}
			tw.Flush()
		}
		if len(an.VotingTrends) > 0 {
			fmt.Fprintln(out, "\nVotes per day")
			for _, p := range an.VotingTrends {
				fmt.Fprintf(out, "  %s  %s %d\n", p.Date, strings.Repeat("▇", min(p.Count, 40)), p.Count)
			}
		}
		return nil
	}),
}

var adminAuditCmd = &cobra.Command{
	Use:   "audit-log",
	Short: "Show recent moderation activity",
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		entries, err := c.AuditLog(cmd.Context(), adminAuditLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tWHO\tACTION\tENTITY")
		for _, e := range entries {
			who := e.UserCode
			if who == "" {
				who = e.UserID
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), who, e.Action, e.EntityType, e.EntityID)
		}
		return tw.Flush()
	}),
}

var adminExportCmd = &cobra.Command{
	Use:       "export csv|xlsx",
	Short:     "Download policies as a spreadsheet",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"csv", "xlsx"},
	RunE: adminRun(func(cmd *cobra.Command, args []string, a *app, c *controller.Admin) error {
		rep := a.reporter(cmd, false)
		rep.Start(1, "Exporting")
		data, name, err := c.Export(cmd.Context(), api.ExportFormat(args[0]), adminExportIDs)
		rep.Finish()
		if err != nil {
			return err
		}
		if adminExportOut != "" {
			name = adminExportOut
		}
		if err := os.WriteFile(name, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", name, len(data))
		return nil
	}),
}

func printStats(cmd *cobra.Command, s *api.Stats) {
	if s == nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Policies: %d  Pending: %d  Votes: %d  Students: %d\n\n",
		s.TotalPolicies, s.PendingPolicies, s.TotalVotes, s.ActiveStudents)
}

func printAdminPolicies(cmd *cobra.Command, a *app, policies []api.Policy) {
	out := cmd.OutOrStdout()
	if len(policies) == 0 {
		fmt.Fprintln(out, "No policies found. Try adjusting your filter.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tVOTES\tSUBMITTED")
	for _, p := range policies {
		submitted := ""
		if !p.CreatedAt.IsZero() {
			submitted = p.CreatedAt.Local().Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t+%d/-%d\t%s\n", p.ID, truncate(p.Title, 48), a.tr.T(string(p.Status)), p.Upvotes, p.Downvotes, submitted)
	}
	tw.Flush()
}

func confirm(label string) error {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := prompt.Run(); err != nil {
		return fmt.Errorf("cancelled")
	}
	return nil
}

func statusList() string {
	names := make([]string, len(api.Statuses))
	for i, s := range api.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	adminCmd.PersistentFlags().StringVar(&adminStatusFilter, "status", "", "only list policies with this status")
	adminStatusCmd.Flags().StringVar(&adminComment, "comment", "", "comment shown to students")
	adminDeleteCmd.Flags().BoolVarP(&adminYes, "yes", "y", false, "do not ask for confirmation")
	adminBulkCmd.Flags().BoolVarP(&adminYes, "yes", "y", false, "do not ask for confirmation")
	adminBulkCmd.Flags().StringVar(&adminCategory, "category", "", "category id for set_category")
	adminAuditCmd.Flags().IntVar(&adminAuditLimit, "limit", 50, "number of entries")
	adminExportCmd.Flags().StringSliceVar(&adminExportIDs, "ids", nil, "export only these policy ids")
	adminExportCmd.Flags().StringVarP(&adminExportOut, "out", "o", "", "output file (default: server's file name)")
	adminCreateStudentCmd.Flags().BoolVar(&adminInactive, "inactive", false, "create the account disabled")

	adminCmd.AddCommand(adminStatsCmd, adminListCmd, adminShowCmd, adminCreateStudentCmd, adminStatusCmd, adminCommentCmd,
		adminDeleteCmd, adminBulkCmd, adminAnalyticsCmd, adminAuditCmd, adminExportCmd)
	rootCmd.AddCommand(adminCmd)
}
