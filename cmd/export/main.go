// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

// Binary export reads the configured MongoDB (or Firestore) collections and
// uploads each one as an Athena-compatible NDJSON object. It is the container
// image's default process and exits once every collection has been attempted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cheggaaa/pb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alessandromg18/ingesta-m3/pkg/export"
	"github.com/Alessandromg18/ingesta-m3/pkg/export/schema"
	"github.com/Alessandromg18/ingesta-m3/pkg/export/source"
	"github.com/Alessandromg18/ingesta-m3/pkg/export/store"
)

var (
	dest       = flag.String("dest", "", "destination URI (s3://bucket/prefix, gs://bucket/prefix, file:///dir); defaults to s3://$BUCKET_NAME")
	configPath = flag.String("config", "", "path to a YAML collections config; the built-in TikTok metrics schema when empty")
	srcKind    = flag.String("source", "mongo", "document source [mongo, firestore]")
	project    = flag.String("project", "", "GCP project for the firestore source")
	progress   = flag.Bool("progress", false, "show per-document progress")
	format     = flag.String("format", "yaml", "schema output format [yaml, bigquery, athena]")
	location   = flag.String("location", "", "storage URI holding the exports, for athena DDL LOCATION clauses")
)

// version is stamped at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "export [subcommand]",
	Short: "Export database collections to object storage as Athena-compatible NDJSON",
}

var runCmd = &cobra.Command{
	Use:   "run [-dest <uri>] [-config <path>] [-source mongo|firestore]",
	Short: "Run the export job once and exit",
	Args:  cobra.NoArgs,
	// Silence because main prints the error itself via log.Fatal.
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.NewStore(ctx, destination())
		if err != nil {
			return err
		}
		src, err := openSource(ctx)
		if err != nil {
			return err
		}
		defer src.Close(ctx)
		job := &export.Job{Source: src, Store: st, Config: cfg}
		if *progress {
			bar := pb.New(0)
			bar.Output = cmd.ErrOrStderr()
			bar.ShowBar = false
			bar.ShowPercent = false
			bar.Start()
			defer bar.Finish()
			job.Progress = func() { bar.Increment() }
		}
		return job.Run(ctx).Err()
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema [-format=yaml|bigquery|athena] [-location <uri>]",
	Short: "Print the effective collection schemas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch *format {
		case "yaml":
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.Wrap(err, "marshalling config")
			}
			fmt.Fprint(out, string(b))
		case "bigquery":
			for _, c := range cfg.Collections {
				b, err := schema.BigQuerySchema(c).ToJSONFields()
				if err != nil {
					return errors.Wrapf(err, "rendering schema for %q", c.Name)
				}
				fmt.Fprintf(out, "// %s\n%s\n", c.Name, b)
			}
		case "athena":
			if *location == "" {
				return errors.New("-location is required for athena DDL")
			}
			base := strings.TrimSuffix(*location, "/")
			for _, c := range cfg.Collections {
				fmt.Fprintf(out, "%s\n\n", schema.AthenaDDL(c, base+"/"+c.Prefix))
			}
		default:
			return errors.Errorf("unknown format %q", *format)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func loadConfig() (schema.Config, error) {
	if *configPath == "" {
		return schema.Default(), nil
	}
	return schema.Load(*configPath)
}

// destination resolves the export destination, preserving the original env
// contract: with no -dest flag, upload to the bucket named by BUCKET_NAME
// (default "my-bucket").
func destination() string {
	if *dest != "" {
		return *dest
	}
	bucket := os.Getenv("BUCKET_NAME")
	if bucket == "" {
		bucket = "my-bucket"
	}
	return "s3://" + bucket
}

func openSource(ctx context.Context) (source.Source, error) {
	switch *srcKind {
	case "mongo":
		uri, db := os.Getenv("MONGODB_URI"), os.Getenv("MONGODB_DB")
		if uri == "" || db == "" {
			return nil, errors.New("MONGODB_URI and MONGODB_DB must be set")
		}
		return source.ConnectMongo(ctx, uri, db)
	case "firestore":
		if *project == "" {
			return nil, errors.New("-project is required for the firestore source")
		}
		return source.NewFirestoreSource(ctx, *project)
	default:
		return nil, errors.Errorf("unknown source %q", *srcKind)
	}
}

func main() {
	rootCmd.AddCommand(runCmd, schemaCmd, versionCmd)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
