package admin

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrilog/nutrilog/internal/config"
	"github.com/nutrilog/nutrilog/internal/database"
	"github.com/nutrilog/nutrilog/internal/repository"
	"github.com/nutrilog/nutrilog/internal/service"
	"github.com/nutrilog/nutrilog/internal/storage"
)

func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the food log as CSV",
		Long:  "Write the full food log relation to a CSV file without starting the server",
		RunE:  runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Output path (defaults to <data dir>/logs_export.csv)")
	cmd.Flags().Bool("upload", false, "Also upload the artifact to the configured S3 bucket")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = cfg.ExportPath()
	}

	var uploader service.ExportUploader
	if upload, _ := cmd.Flags().GetBool("upload"); upload {
		if !cfg.HasS3() {
			return fmt.Errorf("--upload requires S3_ENDPOINT, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY")
		}
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		uploader = s3Client
	}

	logRepo := repository.NewLogEntryRepository(db)
	reportSvc := service.NewReportService(logRepo, cfg.DefaultUserID, uploader)

	data, err := reportSvc.Export(ctx, path)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("wrote %d bytes to %s\n", len(data), path)
	return nil
}
