package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edumap/edumap-api/internal/domain/institution"
	"github.com/edumap/edumap-api/internal/domain/section"
	"github.com/edumap/edumap-api/internal/pkg/database"
)

func newRecalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc",
		Short: "Re-score every stored section and refresh institution completeness",
		Long: `Re-score every stored section with the current classification table
and write the refreshed overall completeness back to each institution.
Run after changing the field classification.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL()
			if err != nil {
				return err
			}

			opts := database.DefaultPoolOptions()
			opts.MaxOpenConns = 4
			opts.MaxIdleConns = 2
			db, err := database.NewPostgres(url, opts)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer database.ClosePostgres(db)

			svc := section.NewService(section.NewRepository(db), institution.NewRepository(db))
			result, err := svc.Recalculate(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "records: %d, changed: %d, institutions: %d\n",
				result.Records, result.Changed, result.Institutions)
			return nil
		},
	}
}
