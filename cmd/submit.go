package cmd

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/auth"
	"github.com/ziadkadry99/policyvote/internal/controller"
	"github.com/ziadkadry99/policyvote/internal/draft"
)

var (
	submitTitle       string
	submitDescription string
	submitCategory    string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Propose a new policy",
	Long: `Walks through the submission form. The form is saved as a draft every
few seconds and when you leave with Ctrl-C, and is offered again the next
time unless it is older than a day. With --title and --description the
policy is sent without prompting.`,
	RunE: runSubmit,
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or discard the saved submission draft",
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		d, ok, err := a.drafts().Load(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintln(out, "No draft saved.")
			return nil
		}
		fmt.Fprintf(out, "Saved:       %s\n", d.SavedAt.Local().Format(time.RFC1123))
		fmt.Fprintf(out, "Title:       %s\n", d.Title)
		if d.CategoryID != "" {
			fmt.Fprintf(out, "Category:    %s\n", d.CategoryID)
		}
		fmt.Fprintf(out, "Description:\n%s\n", d.Description)
		return nil
	},
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the saved draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.drafts().Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Draft discarded.")
		return nil
	},
}

func (a *app) drafts() *draft.Store {
	return draft.NewStore(a.kv, a.cfg.Draft.MaxAge)
}

// formState is the form being filled in, read by the autosaver.
type formState struct {
	mu                           sync.Mutex
	title, description, category string
}

func (f *formState) Fields() (string, string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title, f.description, f.category
}

func (f *formState) set(field *string, v string) {
	f.mu.Lock()
	*field = v
	f.mu.Unlock()
}

func runSubmit(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.require(ctx, auth.RequireAuth); err != nil {
		return err
	}

	s := controller.NewSubmit(a.env(), a.drafts(), a.cfg.Draft.AutosaveInterval)

	if submitTitle != "" && submitDescription != "" {
		_, err := s.Submit(ctx, api.NewPolicy{Title: submitTitle, Description: submitDescription, CategoryID: submitCategory})
		return explain(err)
	}

	form := &formState{title: submitTitle, description: submitDescription, category: submitCategory}
	if d, ok, err := s.Resume(ctx); err != nil {
		return err
	} else if ok {
		resume := promptui.Prompt{
			Label:     fmt.Sprintf("Resume the draft %q saved %s", d.Title, d.SavedAt.Local().Format(time.Kitchen)),
			IsConfirm: true,
		}
		if _, err := resume.Run(); err == nil {
			form.title, form.description, form.category = d.Title, d.Description, d.CategoryID
		} else if errors.Is(err, promptui.ErrInterrupt) {
			return nil
		}
	}

	s.Open(ctx, form)
	if err := fillForm(cmd, a, form); err != nil {
		if cerr := s.Close(ctx); cerr != nil {
			return cerr
		}
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			fmt.Fprintln(cmd.OutOrStdout(), "Draft saved; run `policyvote submit` to continue.")
			return nil
		}
		return err
	}

	title, description, category := form.Fields()
	if _, err := s.Submit(ctx, api.NewPolicy{Title: title, Description: description, CategoryID: category}); err != nil {
		if cerr := s.Close(ctx); cerr != nil {
			return cerr
		}
		return explain(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Your policy is now pending admin review.")
	return nil
}

func fillForm(cmd *cobra.Command, a *app, form *formState) error {
	notEmpty := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("required")
		}
		return nil
	}

	title, description, category := form.Fields()
	titlePrompt := promptui.Prompt{Label: a.tr.T("policy_title"), Default: title, Validate: notEmpty, AllowEdit: true}
	v, err := titlePrompt.Run()
	if err != nil {
		return err
	}
	form.set(&form.title, v)

	descPrompt := promptui.Prompt{Label: a.tr.T("description"), Default: description, Validate: notEmpty, AllowEdit: true}
	v, err = descPrompt.Run()
	if err != nil {
		return err
	}
	form.set(&form.description, v)

	cats, err := a.client.Categories(cmd.Context(), string(a.tr.Lang))
	if err != nil || len(cats) == 0 {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not load categories: %v\n", err)
		}
		return nil
	}
	items := []string{"(none)"}
	cursor := 0
	for i, c := range cats {
		items = append(items, c.Name)
		if c.ID == category {
			cursor = i + 1
		}
	}
	sel := promptui.Select{Label: a.tr.T("category"), Items: items, CursorPos: cursor}
	idx, _, err := sel.Run()
	if err != nil {
		return err
	}
	if idx > 0 {
		form.set(&form.category, cats[idx-1].ID)
	} else {
		form.set(&form.category, "")
	}
	return nil
}

func init() {
	submitCmd.Flags().StringVar(&submitTitle, "title", "", "policy title")
	submitCmd.Flags().StringVar(&submitDescription, "description", "", "policy description")
	submitCmd.Flags().StringVar(&submitCategory, "category", "", "category id")

	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftClearCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(draftCmd)
}
