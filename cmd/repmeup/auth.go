package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohd-umair/repmeup-frontend/internal/dto"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
)

func printUser(user *model.User) {
	bold := color.New(color.Bold)
	bold.Printf("%s", user.FullName())
	fmt.Printf(" <%s>\n", user.Email)
	fmt.Printf("  role:         %s\n", user.Role)
	fmt.Printf("  organization: %s\n", user.Organization)
	if user.LastLogin != nil {
		fmt.Printf("  last login:   %s\n", user.LastLogin.Format("2006-01-02 15:04:05"))
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var req dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and a new organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.container.AuthService.Register(cmd.Context(), &req)
			if err != nil {
				return err
			}
			color.Green("Registered and signed in as %s", data.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.OrganizationName, "organization", "", "organization name")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.container.AuthService.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			color.Green("Signed in as %s", data.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.container.AuthService.Logout()
			color.Green("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if local {
				user := a.container.AuthService.CurrentUserValue()
				if user == nil {
					return fmt.Errorf("no cached user record")
				}
				printUser(user)
				return nil
			}
			user, err := a.container.AuthService.GetCurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			printUser(user)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "show the cached record without a server round-trip")
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	var req dto.UpdateProfileRequest
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			user, err := a.container.AuthService.UpdateProfile(cmd.Context(), &req)
			if err != nil {
				return err
			}
			color.Green("Profile updated")
			printUser(user)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "new last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "new email")
	cmd.Flags().StringVar(&req.Avatar, "avatar", "", "new avatar URL")
	return cmd
}

func newPasswdCmd(a *app) *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if err := a.container.AuthService.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}
			color.Green("Password changed")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	return cmd
}
