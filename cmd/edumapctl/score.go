package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edumap/edumap-api/internal/domain/completeness"
	"github.com/edumap/edumap-api/internal/domain/section"
)

func newScoreCmd() *cobra.Command {
	var (
		sectionName string
		file        string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a section document offline",
		Long: `Score a section document without touching the database.
The document is a JSON object of field values; use --file - to read stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := completeness.ParseSection(sectionName)
			if err != nil {
				return err
			}

			data, err := readData(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			if err := section.ValidatePayload(name, data); err != nil {
				var payloadErr *section.PayloadError
				if errors.As(err, &payloadErr) {
					printFieldErrors(cmd.ErrOrStderr(), payloadErr.Fields)
				}
				return err
			}

			report := completeness.Breakdown(name, data)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&sectionName, "section", "s", "", "section name, see the sections command")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON document, - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("section")

	return cmd
}

func readData(stdin io.Reader, file string) (completeness.Data, error) {
	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", file, err)
		}
		defer f.Close()
		r = f
	}

	var data completeness.Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if data == nil {
		data = completeness.Data{}
	}
	return data, nil
}

func printReport(w io.Writer, report completeness.SectionReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "section\t%s\n", report.Section)
	fmt.Fprintf(tw, "score\t%d\n", report.Score)
	fmt.Fprintf(tw, "missing required\t%s\n", joinOrDash(report.MissingRequired))
	fmt.Fprintf(tw, "missing important\t%s\n", joinOrDash(report.MissingImportant))
	return tw.Flush()
}

func printFieldErrors(w io.Writer, fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, fields[name])
	}
	tw.Flush()
}

func joinOrDash(fields []string) string {
	if len(fields) == 0 {
		return "-"
	}
	return strings.Join(fields, ", ")
}
