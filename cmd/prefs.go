package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change display preferences for this device",
}

var prefsThemeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or set the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		theme := a.theme
		switch {
		case len(args) == 0:
		case args[0] == "toggle":
			if theme, err = a.themes.Toggle(ctx); err != nil {
				return err
			}
		default:
			if theme, err = prefs.ParseTheme(args[0]); err != nil {
				return err
			}
			if err := a.themes.Set(ctx, theme); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
		return nil
	},
}

var prefsLangCmd = &cobra.Command{
	Use:       "lang [en|ro]",
	Short:     "Show or set the interface and category language",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"en", "ro"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		lang := a.tr.Lang
		if len(args) == 1 {
			if lang, err = prefs.ParseLang(args[0]); err != nil {
				return err
			}
			if err := a.locales.Set(ctx, lang); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Language: %s\n", lang)
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsThemeCmd, prefsLangCmd)
	rootCmd.AddCommand(prefsCmd)
}
