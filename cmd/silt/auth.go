package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authPassword string
	authConfirm  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the remote store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newService(ctx)
		if err != nil {
			fatal("Failed to initialize silt", err)
		}

		if err := svc.Login(ctx, authEmail, authPassword); err != nil {
			fatal("Login failed", err)
		}

		id, err := svc.CurrentIdentity()
		if err != nil {
			fatal("Login failed", err)
		}
		fmt.Printf("Logged in as %s\n", id.Email)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newService(ctx)
		if err != nil {
			fatal("Failed to initialize silt", err)
		}

		if err := svc.Register(ctx, authEmail, authPassword, authConfirm); err != nil {
			fatal("Registration failed", err)
		}

		id, err := svc.CurrentIdentity()
		if err != nil {
			fatal("Registration failed", err)
		}
		fmt.Printf("Registered and logged in as %s\n", id.Email)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate the current session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newService(ctx)
		if err != nil {
			fatal("Failed to initialize silt", err)
		}

		svc.Logout(ctx)
		fmt.Println("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newService(ctx)
		if err != nil {
			fatal("Failed to initialize silt", err)
		}

		id, err := svc.CurrentIdentity()
		if err != nil {
			fmt.Println("Not logged in.")
			os.Exit(1)
		}
		fmt.Printf("%s (%s)\n", id.Email, id.ID)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Account password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&authPassword, "password", "", "Account password")
	registerCmd.Flags().StringVar(&authConfirm, "confirm", "", "Password confirmation")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("confirm")
}
