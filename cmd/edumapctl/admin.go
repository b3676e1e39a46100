package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edumap/edumap-api/internal/domain/admin"
	"github.com/edumap/edumap-api/internal/pkg/database"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage back-office accounts",
	}
	cmd.AddCommand(newAdminCreateCmd())
	return cmd
}

func newAdminCreateCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a super_admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			url, err := databaseURL()
			if err != nil {
				return err
			}
			db, err := database.NewPostgres(url, database.DefaultPoolOptions())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer database.ClosePostgres(db)

			a, err := admin.NewService(admin.NewRepository(db)).Bootstrap(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with role %s\n", a.Email, a.ID, a.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
