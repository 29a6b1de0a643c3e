package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/auth"
	"github.com/ziadkadry99/policyvote/internal/controller"
	"github.com/ziadkadry99/policyvote/internal/view"
)

var (
	listSearch   string
	listCategory string
	listStatus   string
	listSort     string
	listFormat   string
	listOut      string
)

var policiesCmd = &cobra.Command{
	Use:     "policies",
	Aliases: []string{"p"},
	Short:   "Browse policy proposals",
}

var policiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List policies with vote counts and this device's vote state",
	Long: `Fetches the policy list, checks whether this device already voted on
each policy and renders the result. --format html writes a page with the
same cards; use --out to write it to a file.`,
	RunE: runPoliciesList,
}

var policiesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runPoliciesShow,
}

var policiesShareCmd = &cobra.Command{
	Use:   "share ID",
	Short: "Print links for sharing a policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runPoliciesShare,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List policy categories",
	RunE:  runCategories,
}

func runPoliciesList(cmd *cobra.Command, args []string) error {
	if listFormat != "text" && listFormat != "html" {
		return fmt.Errorf("unknown format %q: must be text or html", listFormat)
	}
	if listStatus != "" && !api.ValidStatus(listStatus) {
		return fmt.Errorf("unknown status %q", listStatus)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.require(ctx, auth.RequireAuth); err != nil {
		return err
	}

	d := controller.NewDashboard(a.env(), view.NewRegistry())
	d.SetProgress(a.reporter(cmd, listFormat == "html"))
	err = d.Load(ctx, api.PolicyFilter{
		Search:   listSearch,
		Category: listCategory,
		Status:   listStatus,
		Sort:     listSort,
	})
	if err != nil {
		return explain(err)
	}

	w := cmd.OutOrStdout()
	if listOut != "" {
		f, err := os.Create(listOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", listOut, err)
		}
		defer f.Close()
		w = f
	}

	cards := d.Registry().Cards()
	if listFormat == "html" {
		h, err := view.NewHTMLRenderer(a.theme, a.tr)
		if err != nil {
			return err
		}
		if err := h.Render(w, cards); err != nil {
			return err
		}
	} else if err := a.textRenderer(w).RenderCards(cards); err != nil {
		return err
	}
	if listOut != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d policies to %s\n", len(cards), listOut)
	}
	return nil
}

func runPoliciesShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.require(ctx, auth.RequireAuth); err != nil {
		return err
	}

	card, err := controller.NewDashboard(a.env(), view.NewRegistry()).Show(ctx, args[0])
	if err != nil {
		return explain(err)
	}
	if err := a.textRenderer(cmd.OutOrStdout()).RenderCard(card); err != nil {
		return err
	}
	p := card.Policy
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(cmd.OutOrStdout(), "  submitted %s\n", p.CreatedAt.Local().Format("2006-01-02"))
	}
	return nil
}

func runPoliciesShare(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.require(ctx, auth.RequireAuth); err != nil {
		return err
	}
	p, err := a.client.GetPolicy(ctx, args[0])
	if err != nil {
		return explain(err)
	}

	links := view.Share(a.cfg.BaseURL, p.ID, p.Title)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Link\t%s\n", links.URL)
	fmt.Fprintf(tw, "Twitter\t%s\n", links.Twitter)
	fmt.Fprintf(tw, "Facebook\t%s\n", links.Facebook)
	fmt.Fprintf(tw, "LinkedIn\t%s\n", links.LinkedIn)
	return tw.Flush()
}

func runCategories(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	cats, err := a.client.Categories(cmd.Context(), string(a.tr.Lang))
	if err != nil {
		return explain(err)
	}
	return printCategories(cmd.OutOrStdout(), cats)
}

func printCategories(w io.Writer, cats []api.Category) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSLUG")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Slug)
	}
	return tw.Flush()
}

func init() {
	policiesListCmd.Flags().StringVar(&listSearch, "search", "", "search title and description")
	policiesListCmd.Flags().StringVar(&listCategory, "category", "", "category id")
	policiesListCmd.Flags().StringVar(&listStatus, "status", "", "only this status")
	policiesListCmd.Flags().StringVar(&listSort, "sort", "", "newest, oldest, most_voted or trending")
	policiesListCmd.Flags().StringVar(&listFormat, "format", "text", "text or html")
	policiesListCmd.Flags().StringVarP(&listOut, "out", "o", "", "write to file instead of stdout")

	policiesCmd.AddCommand(policiesListCmd)
	policiesCmd.AddCommand(policiesShowCmd)
	policiesCmd.AddCommand(policiesShareCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(categoriesCmd)
}
