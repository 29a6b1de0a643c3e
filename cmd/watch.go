package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/auth"
	"github.com/ziadkadry99/policyvote/internal/controller"
	"github.com/ziadkadry99/policyvote/internal/live"
	"github.com/ziadkadry99/policyvote/internal/preview"
	"github.com/ziadkadry99/policyvote/internal/view"
)

var (
	watchServe    string
	watchAllowAll bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow vote counts and status changes as they happen",
	Long: `Loads the policy list, then listens on the server's live channel and
prints every card that changes. With --serve the same cards are also
available as a web page that reflects each update on reload.

The channel reconnects after drops with a growing delay and stops trying
after live.max_attempts failures. Press Ctrl-C to stop.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.require(ctx, auth.RequireAuth); err != nil {
		return err
	}

	registry := view.NewRegistry()
	d := controller.NewDashboard(a.env(), registry)
	d.SetProgress(a.reporter(cmd, false))
	if err := d.Load(ctx, api.PolicyFilter{}); err != nil {
		return explain(err)
	}

	out := cmd.OutOrStdout()
	text := a.textRenderer(out)
	if err := text.RenderCards(registry.Cards()); err != nil {
		return err
	}
	registry.SetObserver(func(c view.Card) {
		if err := text.RenderPatch(c); err != nil {
			log.Printf("watch: render %s: %v", c.Policy.ID, err)
		}
	})

	wsURL, err := a.client.WebSocketURL(a.cfg.WSPath)
	if err != nil {
		return err
	}
	maxAttempts := a.cfg.Live.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = -1
	}
	channel := live.New(&live.WebSocketDialer{URL: wsURL, Header: a.client.Headers}, d, live.Options{
		BaseDelay:   a.cfg.Live.BaseDelay,
		MaxAttempts: maxAttempts,
		OnStateChange: func(s live.State) {
			log.Printf("watch: live channel %s", s)
		},
	})

	var srv *preview.Server
	if watchServe != "" {
		html, err := view.NewHTMLRenderer(a.theme, a.tr)
		if err != nil {
			return err
		}
		srv = preview.New(preview.Config{Addr: watchServe, AllowAll: watchAllowAll}, registry, html, a.notices, channel)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("watch: preview server: %v", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "Preview server stopped: %v\n", err)
			}
		}()
		fmt.Fprintf(cmd.ErrOrStderr(), "Preview at http://%s\n", watchServe)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for updates. Press Ctrl-C to stop.")
	if err := channel.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Live updates unavailable; counts will not refresh on their own.")
		if srv != nil {
			<-ctx.Done()
		}
	}

	if srv != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "\nShutting down preview...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}

func init() {
	watchCmd.Flags().StringVar(&watchServe, "serve", "", "also serve the cards as a web page on this address (e.g. 127.0.0.1:7070)")
	watchCmd.Flags().BoolVar(&watchAllowAll, "cors-allow-all", false, "allow every origin to read the preview API")
	rootCmd.AddCommand(watchCmd)
}
