package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	gos3 "packrat/pkg/s3"
	"packrat/pkg/telemetry"
	"packrat/services/collector"
	"packrat/services/shipper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "packrat",
		Short:         "Groups named file sets and ships them to object storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newUploadCommand())
	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newVerifyCommand())
	cmd.AddCommand(newURLCommand())
	return cmd
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newUploadCommand() *cobra.Command {
	var (
		configPath      string
		base            string
		bucket          string
		prefix          string
		continueOnError bool
		compression     int
		dryRun          bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Resolve artifact definitions and upload each as a tar.zst archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			logger := newLogger()

			shutdown, err := telemetry.Init(ctx, "packrat")
			if err != nil {
				return err
			}
			defer shutdown(context.Background())

			cfg, err := collector.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if continueOnError {
				cfg.ContinueOnError = true
			}
			if cmd.Flags().Changed("compression") {
				if err := collector.ValidateCompressionLevel(compression); err != nil {
					return err
				}
				cfg.CompressionLevel = compression
			}

			baseDir, err := resolveBase(base)
			if err != nil {
				return err
			}

			var uploader collector.Uploader
			if !dryRun {
				store, err := gos3.NewClientFromEnv(ctx)
				if err != nil {
					return fmt.Errorf("s3 client: %w", err)
				}
				if bucket == "" {
					bucket = os.Getenv("S3_BUCKET")
				}
				if bucket == "" {
					return fmt.Errorf("--bucket or S3_BUCKET is required")
				}
				sh := shipper.New(store, bucket)
				if prefix != "" {
					sh.Prefix = prefix
				}
				if os.Getenv("AGE_SECRET_KEY") != "" {
					signer, err := shipper.NewSignerFromEnv()
					if err != nil {
						return err
					}
					sh.Signer = signer
				}
				logger.Info().Str("run_id", sh.RunID).Str("bucket", bucket).Msg("starting upload run")
				uploader = sh
			}

			sink := collector.LogSink{Logger: logger}
			grouper := &collector.Grouper{
				Base:     baseDir,
				Resolver: &collector.Resolver{Sink: sink},
				Uploader: uploader,
				Sink:     sink,
				Options: collector.UploadOptions{
					ContinueOnError:  cfg.ContinueOnError,
					CompressionLevel: cfg.CompressionLevel,
				},
			}

			artifacts, err := grouper.Run(ctx, cfg.Artifacts)
			if err != nil {
				return err
			}
			if dryRun {
				printArtifacts(artifacts)
			}
			logger.Info().Int("artifacts", len(artifacts)).Msg("run complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Artifact definitions file (JSON, comments allowed)")
	cmd.Flags().StringVar(&base, "base", "", "Base directory patterns are resolved against (default: working directory)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket (default: S3_BUCKET)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix (default \"artifacts\")")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Skip artifacts that match no files instead of failing")
	cmd.Flags().IntVar(&compression, "compression", collector.DefaultCompressionLevel, "Compression level 0-9, overrides the config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and print file sets without uploading")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newResolveCommand() *cobra.Command {
	var (
		configPath string
		base       string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve artifact definitions and print the file sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			logger := newLogger()

			cfg, err := collector.LoadConfig(configPath)
			if err != nil {
				return err
			}
			baseDir, err := resolveBase(base)
			if err != nil {
				return err
			}

			sink := collector.LogSink{Logger: logger}
			grouper := &collector.Grouper{
				Base:     baseDir,
				Resolver: &collector.Resolver{Sink: sink},
				Sink:     sink,
				Options:  collector.UploadOptions{ContinueOnError: cfg.ContinueOnError},
			}
			artifacts, err := grouper.Run(ctx, cfg.Artifacts)
			if err != nil {
				return err
			}
			printArtifacts(artifacts)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Artifact definitions file (JSON, comments allowed)")
	cmd.Flags().StringVar(&base, "base", "", "Base directory patterns are resolved against (default: working directory)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newVerifyCommand() *cobra.Command {
	var archivePath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a downloaded archive against its embedded manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			var signer *shipper.Signer
			if os.Getenv("AGE_SECRET_KEY") != "" || os.Getenv("AGE_PUBLIC_KEY") != "" {
				s, err := shipper.NewSignerFromEnv()
				if err != nil {
					return err
				}
				signer = s
			}

			manifest, err := shipper.VerifyArchive(archivePath, signer)
			if err != nil {
				return err
			}
			state := "unsigned"
			if manifest.Signature != "" {
				state = "signed"
			}
			fmt.Printf("artifact %s: %d files, %s, created %s\n",
				manifest.Artifact, len(manifest.Files), state, manifest.CreatedAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&archivePath, "file", "", "Path to the archive (tar.zst)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newURLCommand() *cobra.Command {
	var (
		bucket string
		key    string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print a presigned download URL for an uploaded archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			client, err := gos3.NewClientFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("s3 client: %w", err)
			}
			url, err := client.PresignGet(ctx, bucket, key, ttl)
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Bucket holding the archive")
	cmd.Flags().StringVar(&key, "key", "", "Object key of the archive")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "How long the URL stays valid")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func resolveBase(base string) (string, error) {
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("working directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("base directory: %w", err)
	}
	return abs, nil
}

func printArtifacts(artifacts []collector.ResolvedArtifact) {
	for _, artifact := range artifacts {
		fmt.Printf("%s (root %s)\n", artifact.Name, artifact.Root)
		for _, file := range artifact.Files {
			fmt.Printf("  %s\n", file)
		}
	}
}
