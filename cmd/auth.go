package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/auth"
	"github.com/ziadkadry99/policyvote/internal/controller"
)

var loginCode string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a classroom code",
	Long: `Exchanges a classroom code for a session stored on this device.
Without --code the code is prompted for.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out on this device",
	Long:  `Removes the stored session. The device fingerprint is kept, so votes already cast stay counted against this device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := controller.NewLogin(a.env()).Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account and this device's fingerprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		s, err := a.session.Load(ctx)
		if err != nil {
			return err
		}
		fp, err := a.session.DeviceFingerprint(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !s.Authenticated() {
			fmt.Fprintln(out, "Not signed in.")
		} else {
			fmt.Fprintf(out, "Role:    %s\n", s.Role)
			fmt.Fprintf(out, "User ID: %s\n", s.UserID)
			fmt.Fprintf(out, "Home:    %s\n", nextStep(auth.LandingPage(s.Role)))
		}
		fmt.Fprintf(out, "Device:  %s\n", fp)
		fmt.Fprintf(out, "Server:  %s\n", a.cfg.BaseURL)
		return nil
	},
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	code := loginCode
	if code == "" {
		prompt := promptui.Prompt{
			Label: a.tr.T("classroom_code"),
			Mask:  '*',
		}
		code, err = prompt.Run()
		if err != nil {
			return fmt.Errorf("reading code: %w", err)
		}
	}

	page, err := controller.NewLogin(a.env()).Login(cmd.Context(), code)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Next: %s\n", nextStep(page))
	return nil
}

func init() {
	loginCmd.Flags().StringVar(&loginCode, "code", "", "classroom code")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
