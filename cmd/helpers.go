package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/auth"
	"github.com/ziadkadry99/policyvote/internal/config"
	"github.com/ziadkadry99/policyvote/internal/controller"
	"github.com/ziadkadry99/policyvote/internal/db"
	"github.com/ziadkadry99/policyvote/internal/kv"
	"github.com/ziadkadry99/policyvote/internal/notice"
	"github.com/ziadkadry99/policyvote/internal/prefs"
	"github.com/ziadkadry99/policyvote/internal/progress"
	"github.com/ziadkadry99/policyvote/internal/view"
)

// app is everything a command needs: config, the device profile and
// an API client signed in with the stored session.
type app struct {
	cfg     *config.Config
	db      *db.DB
	kv      *kv.Store
	session *auth.Store
	client  *api.Client
	themes  *prefs.Themes
	locales *prefs.Locales
	notices *notice.Board
	theme   prefs.Theme
	tr      prefs.Translator
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `policyvote init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openApp loads config, opens the device profile and wires the stores.
// Success banners are printed as they are shown; failures reach the user
// as the command's error.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path, err := cfg.ProfilePath()
	if err != nil {
		return nil, err
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profile: %w", err)
	}

	store := kv.NewStore(database)
	session := auth.NewStore(store)
	client := api.New(cfg.BaseURL, session)
	client.Prefix = cfg.APIPrefix
	if cfg.RequestTimeout > 0 {
		client.HTTP.Timeout = cfg.RequestTimeout
	}

	a := &app{
		cfg:     cfg,
		db:      database,
		kv:      store,
		session: session,
		client:  client,
		themes:  prefs.NewThemes(store, prefs.Theme(cfg.Theme)),
		locales: prefs.NewLocales(store, prefs.Lang(cfg.Language)),
		notices: notice.NewBoard(cfg.Notice.SuccessTTL, cfg.Notice.ErrorTTL, nil),
	}

	ctx := cmd.Context()
	if a.theme, err = a.themes.Current(ctx); err != nil {
		database.Close()
		return nil, err
	}
	if a.tr, err = a.locales.Translator(ctx); err != nil {
		database.Close()
		return nil, err
	}

	out := cmd.OutOrStdout()
	a.notices.OnShow(func(n notice.Notice) {
		if n.Kind == notice.KindSuccess {
			fmt.Fprintf(out, "✓ %s\n", n.Message)
		}
	})
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) env() controller.Env {
	return controller.Env{
		API:        a.client,
		Session:    a.session,
		Notices:    a.notices,
		Translator: a.tr,
	}
}

func (a *app) textRenderer(w io.Writer) *view.TextRenderer {
	_, noColor := os.LookupEnv("NO_COLOR")
	return view.NewTextRenderer(w, a.theme, a.tr, noColor)
}

func (a *app) reporter(cmd *cobra.Command, quiet bool) progress.Reporter {
	return progress.NewReporter(cmd.ErrOrStderr(), quiet)
}

// require runs an access check against the stored session. A failed
// check becomes an error naming where the user should go instead.
func (a *app) require(ctx context.Context, check func(auth.Session) auth.Decision) (auth.Session, error) {
	d, s, err := a.session.Authorize(ctx, check)
	if err != nil {
		return s, err
	}
	if !d.Allow {
		return s, &redirectError{page: d.Redirect}
	}
	return s, nil
}

type redirectError struct {
	page auth.Page
}

func (e *redirectError) Error() string {
	switch e.page {
	case auth.PageLogin:
		return "not signed in; run `policyvote login`"
	case auth.PageDashboard:
		return "your account cannot open this page; try `policyvote policies list`"
	case auth.PageAdmin:
		return "superuser access required; try `policyvote admin list`"
	default:
		return fmt.Sprintf("not allowed here; go to %s", e.page)
	}
}

// nextStep is the command a user lands on after signing in.
func nextStep(p auth.Page) string {
	switch p {
	case auth.PageSuperuser:
		return "policyvote superuser users list"
	case auth.PageAdmin:
		return "policyvote admin list"
	default:
		return "policyvote policies list"
	}
}

// explain turns a session expiry into the same hint as a missing login.
func explain(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("%w; run `policyvote login` again", err)
	}
	return err
}
