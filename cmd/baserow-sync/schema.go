package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Guizzs26/go-sync-baserow/internal/catalog"
	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/spf13/cobra"
)

func newSchemaCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect or snapshot the table schema",
	}

	var out string
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Fetch the schema and write it as a YAML snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, flags, true)
			if err != nil {
				return err
			}
			cat, err := catalog.Fetch(ctx, a.client, a.table)
			if err != nil {
				a.logger.Error("Schema fetch failed", "error", err)
				return err
			}

			if out == "" || out == "-" {
				return catalog.Save(cmd.OutOrStdout(), cat)
			}
			if err := catalog.SaveFile(out, cat); err != nil {
				return err
			}
			a.logger.Info("Schema snapshot written", "path", out, "columns", cat.Len())
			return nil
		},
	}
	dump.Flags().StringVarP(&out, "out", "o", "-", "Output path, - for stdout")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the columns of the table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := bootstrap(ctx, flags, false)
			if err != nil {
				return err
			}
			cat, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}
			printCatalog(cmd, cat)
			return nil
		},
	}

	cmd.AddCommand(dump, show)
	return cmd
}

func printCatalog(cmd *cobra.Command, cat *models.SchemaCatalog) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tPRIMARY\tREAD ONLY\tDETAILS")
	for _, f := range cat.Fields() {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%s\n", f.Name, f.Type, f.IsPrimary, f.IsReadOnly, details(f))
	}
	tw.Flush()
}

func details(f models.FieldDefinition) string {
	switch {
	case f.Select != nil:
		return "options: " + strings.Join(f.Select.Options, ", ")
	case f.Date != nil:
		return fmt.Sprintf("format: %s, include time: %t", f.Date.Format, f.Date.IncludeTime)
	default:
		return ""
	}
}
