package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/auth"
	"github.com/ziadkadry99/policyvote/internal/controller"
)

var (
	userRole   string
	userCode   string
	userActive bool
	userYes    bool
)

var superuserCmd = &cobra.Command{
	Use:   "superuser",
	Short: "Superuser account management",
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage classroom, admin and superuser accounts",
}

func superuserRun(fn func(cmd *cobra.Command, args []string, c *controller.Superuser) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.require(cmd.Context(), auth.RequireSuperuser); err != nil {
			return err
		}
		c := controller.NewSuperuser(a.env())
		if err := fn(cmd, args, c); err != nil {
			return explain(err)
		}
		printUsers(cmd, c)
		return nil
	}
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: superuserRun(func(cmd *cobra.Command, args []string, c *controller.Superuser) error {
		return c.Refresh(cmd.Context())
	}),
}

var usersCreateCmd = &cobra.Command{
	Use:   "create CODE",
	Short: "Create an account with a login code",
	Args:  cobra.ExactArgs(1),
	RunE: superuserRun(func(cmd *cobra.Command, args []string, c *controller.Superuser) error {
		return c.Create(cmd.Context(), args[0], auth.Role(userRole))
	}),
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change an account's code, role or active flag",
	Args:  cobra.ExactArgs(1),
	RunE: superuserRun(func(cmd *cobra.Command, args []string, c *controller.Superuser) error {
		return c.Update(cmd.Context(), args[0], userCode, auth.Role(userRole), userActive)
	}),
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: superuserRun(func(cmd *cobra.Command, args []string, c *controller.Superuser) error {
		if !userYes {
			if err := confirm("Delete user " + args[0]); err != nil {
				return err
			}
		}
		return c.Delete(cmd.Context(), args[0])
	}),
}

var usersToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Activate or deactivate an account",
	Args:  cobra.ExactArgs(1),
	RunE: superuserRun(func(cmd *cobra.Command, args []string, c *controller.Superuser) error {
		return c.Toggle(cmd.Context(), args[0])
	}),
}

func printUsers(cmd *cobra.Command, c *controller.Superuser) {
	users := c.Users()
	out := cmd.OutOrStdout()
	if len(users) == 0 {
		fmt.Fprintln(out, "No users.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tROLE\tACTIVE\tCREATED")
	for _, u := range users {
		created := ""
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.Local().Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\n", u.ID, u.LoginCode, u.Role, u.IsActive, created)
	}
	tw.Flush()
}

func init() {
	usersCreateCmd.Flags().StringVar(&userRole, "role", string(auth.RoleStudent), "student, admin or superuser")
	usersUpdateCmd.Flags().StringVar(&userRole, "role", string(auth.RoleStudent), "student, admin or superuser")
	usersUpdateCmd.Flags().StringVar(&userCode, "code", "", "login code")
	usersUpdateCmd.Flags().BoolVar(&userActive, "active", true, "whether the account can sign in")
	usersUpdateCmd.MarkFlagRequired("code")
	usersDeleteCmd.Flags().BoolVarP(&userYes, "yes", "y", false, "do not ask for confirmation")

	usersCmd.AddCommand(usersListCmd, usersCreateCmd, usersUpdateCmd, usersDeleteCmd, usersToggleCmd)
	superuserCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(superuserCmd)
}
