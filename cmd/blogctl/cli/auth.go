package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign up, log in and log out",
	}
	cmd.AddCommand(a.loginCmd(), a.signupCmd(), a.logoutCmd())
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the token locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Login(ctxOf(cmd), email, password)
			if err != nil {
				return err
			}
			if err := a.saveSession(&session{APIURL: a.apiURL, Token: res.Token, UserID: res.User.ID, Email: res.User.Email}); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s (%s).\n", res.User.Name, res.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) signupCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Signup(ctxOf(cmd), email, password, name)
			if err != nil {
				return err
			}
			if err := a.saveSession(&session{APIURL: a.apiURL, Token: res.Token, UserID: res.User.ID, Email: res.User.Email}); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Account created. Logged in as %s (%s).\n", res.User.Name, res.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := a.clearSession()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(a.out, "No user logged in.")
				return nil
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}
