package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/auth"
	"github.com/ziadkadry99/policyvote/internal/controller"
	"github.com/ziadkadry99/policyvote/internal/view"
)

var voteCmd = &cobra.Command{
	Use:   "vote ID up|down",
	Short: "Vote on a policy from this device",
	Long: `Casts this device's vote. Each device votes once per policy; the
server rejects a second vote and the message is shown as-is.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"up", "down"},
	RunE:      runVote,
}

func parseVote(s string) (api.VoteType, error) {
	switch s {
	case "up", "upvote":
		return api.VoteUp, nil
	case "down", "downvote":
		return api.VoteDown, nil
	default:
		return "", fmt.Errorf("unknown vote %q: must be up or down", s)
	}
}

func runVote(cmd *cobra.Command, args []string) error {
	vt, err := parseVote(args[1])
	if err != nil {
		return err
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
	if err := d.Load(ctx, api.PolicyFilter{}); err != nil {
		return explain(err)
	}
	if err := d.Vote(ctx, args[0], vt); err != nil {
		return explain(err)
	}

	if card, ok := d.Registry().Card(args[0]); ok {
		return a.textRenderer(cmd.OutOrStdout()).RenderCard(card)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(voteCmd)
}
