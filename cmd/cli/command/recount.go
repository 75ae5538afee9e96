package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"reportam/database"
	"reportam/internal/config"
	"reportam/internal/microservices/http-api/repository"
	"reportam/internal/microservices/http-api/service"

	"github.com/spf13/cobra"
)

var recountCmd = &cobra.Command{
	Use:   "recount",
	Short: "Recompute report comment counts from the stored comments",
	Long: `Recompute commentsCount for one report (--report) or every report (--all).

With --database-url (or DATABASE_URL) the counts are repaired directly in the
database. Otherwise a single report is recounted through the admin API, which
requires --token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reportID, _ := cmd.Flags().GetString("report")
		all, _ := cmd.Flags().GetBool("all")
		databaseURL, _ := cmd.Flags().GetString("database-url")

		if (reportID == "") == !all {
			return errors.New("exactly one of --report or --all is required")
		}

		if databaseURL == "" {
			if all {
				return errors.New("--all needs --database-url or DATABASE_URL")
			}
			result, err := GetClient().Recount(reportID)
			if err != nil {
				return fmt.Errorf("failed to recount report: %w", err)
			}
			fmt.Printf("✓ Report %s now has %d comments\n", result.ReportID, result.CommentsCount)
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return recountInDatabase(ctx, databaseURL, reportID)
	},
}

func recountInDatabase(ctx context.Context, databaseURL, reportID string) error {
	cfg := &config.Config{GoEnv: "production", DatabaseURL: databaseURL, LogLevel: "info", LogFormat: "text"}
	logger := cfg.NewLogger()

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	counter := service.NewReportCounter(
		repository.NewReportRepository(db),
		repository.NewCommentRepository(db),
		logger,
	)

	if reportID != "" {
		count, err := counter.Recount(ctx, reportID)
		if err != nil {
			return fmt.Errorf("failed to recount report %s: %w", reportID, err)
		}
		fmt.Printf("✓ Report %s now has %d comments\n", reportID, count)
		return nil
	}

	recounted, err := counter.RecountAll(ctx)
	fmt.Printf("Recounted %d reports\n", recounted)
	if err != nil {
		return fmt.Errorf("some reports failed: %w", err)
	}
	fmt.Println("✓ All report counts repaired")
	return nil
}

func init() {
	rootCmd.AddCommand(recountCmd)

	recountCmd.Flags().String("report", "", "Report ID to recount")
	recountCmd.Flags().Bool("all", false, "Recount every report (direct database access only)")
	recountCmd.Flags().String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL for direct repair")
}
