package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd verifies connectivity and schema of both databases without writing.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check database connectivity and schema",
	Long:  `Connects to the EPOS and storefront databases and verifies that every table the sync uses has the expected columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		_, l, svc, cleanup, err := setup(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := svc.Check(ctx)
		if err != nil {
			return err
		}

		for _, t := range report.Tables {
			if len(t.Missing) == 0 {
				l.Info("Table OK", zap.String("database", t.Database), zap.String("table", t.Table))
				continue
			}
			l.Error("Table is missing columns",
				zap.String("database", t.Database),
				zap.String("table", t.Table),
				zap.Strings("missing", t.Missing),
			)
		}

		return report.Err()
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}
