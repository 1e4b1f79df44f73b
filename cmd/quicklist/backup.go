package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"quicklist/internal/backup"
	"quicklist/internal/config"
	"quicklist/internal/storage"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "snapshots the sqlite database and uploads it to s3",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, a, err := newBackupRunner(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		timeout, _ := cmd.Flags().GetDuration("timeout")
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		location, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), location)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "lists uploaded snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, a, err := newBackupRunner(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		snapshots, err := runner.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, obj := range snapshots {
			modified := ""
			if obj.LastModified != nil {
				modified = obj.LastModified.Format(time.RFC3339)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", obj.Key, obj.Size, modified)
		}
		return nil
	},
}

func newBackupRunner(ctx context.Context) (*backup.Runner, *app, error) {
	a, err := newApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	if a.sqlDB == nil {
		a.Close()
		return nil, nil, errors.New("backup requires the sqlite store")
	}

	store, err := buildStorage(ctx, a.cfg)
	if err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("setup storage: %w", err)
	}
	a.logger.Infof("using s3 bucket %s (region %s)", a.cfg.Backup.Bucket, a.cfg.Backup.Region)

	runner, err := backup.NewRunner(backup.Config{
		Bucket:    a.cfg.Backup.Bucket,
		KeyPrefix: a.cfg.Backup.KeyPrefix,
		Logger:    a.logger,
	}, a.sqlDB, store)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return runner, a, nil
}

func buildStorage(ctx context.Context, cfg config.Config) (storage.Service, error) {
	if cfg.Backup.Bucket == "" {
		return nil, fmt.Errorf("backup bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Backup.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Backup.Endpoint)
			o.UsePathStyle = true
		}
	})
	return storage.NewS3Service(client), nil
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupListCmd)

	backupCmd.Flags().Duration("timeout", 5*time.Minute, "upper bound for snapshot and upload")
}
