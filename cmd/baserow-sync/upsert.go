package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Guizzs26/go-sync-baserow/internal/mapper"
	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/Guizzs26/go-sync-baserow/internal/processor"
	"github.com/Guizzs26/go-sync-baserow/internal/records"
	"github.com/Guizzs26/go-sync-baserow/pkg/infra"
	"github.com/spf13/cobra"
)

func newUpsertCmd(flags *globalFlags) *cobra.Command {
	var (
		file          string
		format        string
		inputEncoding string
	)

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update one row per input record",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := bootstrap(ctx, flags, false)
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(file)
			if err != nil {
				a.logger.Error("CRITICAL: cannot open input", "error", err)
				return err
			}
			defer closeIn()

			recs, err := records.Read(in, format, inputEncoding)
			if err != nil {
				a.logger.Error("CRITICAL: cannot read records", "error", err)
				return err
			}

			cat, err := a.loadCatalog(ctx)
			if err != nil {
				a.logger.Error("CRITICAL: schema unavailable", "error", err)
				return err
			}

			retrier := infra.NewLinearRetrier(infra.RetryPolicy{
				MaxCount: a.cfg.RetryMaxCount,
				Wait:     a.cfg.RetryWait(),
			}, a.logger)
			upserter := processor.NewRowUpserter(a.client, a.table, mapper.NewPayloadBuilder(), retrier, a.logger)

			var created, updated int
			for i, rec := range recs {
				if err := ctx.Err(); err != nil {
					a.logger.Warn("Shutdown signal received, stopping", "processed", i, "total", len(recs))
					return err
				}

				typed, err := records.Coerce(rec, cat)
				if err != nil {
					a.logger.Error("Record rejected", "index", i, "error", err)
					return fmt.Errorf("record %d: %w", i, err)
				}

				res, err := upserter.UpsertDetailed(ctx, typed, cat)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				if res.Action == models.ActionCreated {
					created++
				} else {
					updated++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\n", i, res.Action, res.RowID)
			}

			a.logger.Info("Upsert run complete", "records", len(recs), "created", created, "updated", updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Input file, - for stdin")
	cmd.Flags().StringVar(&format, "format", records.FormatJSON, "Input format (json, csv)")
	cmd.Flags().StringVar(&inputEncoding, "encoding", "utf8", "CSV input encoding (utf8, win1252)")
	return cmd
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
