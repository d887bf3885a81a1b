package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/storefront/internal/modules/user"
)

var (
	adminEmail     string
	adminPassword  string
	adminFirstName string
	adminLastName  string
)

// adminCmd groups admin account management
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
	Long: `Manage the accounts that may sign in to the admin API.

Available subcommands:
  create-user - Create an admin account`,
}

// adminCreateUserCmd creates an admin account
var adminCreateUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an admin account",
	Long: `Creates an admin account that can sign in at POST /api/v1/auth/login.

Example:
  storefront admin create-user --email owner@shop.example --password 'open sesame'`,
	RunE: runAdminCreateUser,
}

func init() {
	adminCreateUserCmd.Flags().StringVar(&adminEmail, "email", "", "Account email (required)")
	adminCreateUserCmd.Flags().StringVar(&adminPassword, "password", "", "Account password, at least 8 characters (required)")
	adminCreateUserCmd.Flags().StringVar(&adminFirstName, "first-name", "", "First name")
	adminCreateUserCmd.Flags().StringVar(&adminLastName, "last-name", "", "Last name")
	adminCreateUserCmd.MarkFlagRequired("email")
	adminCreateUserCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminCreateUserCmd)
}

func runAdminCreateUser(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := user.NewService(user.NewSQLRepository(db))
	u, err := svc.RegisterUser(ctx, adminEmail, adminPassword, adminFirstName, adminLastName)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email, u.ID)
	return nil
}
