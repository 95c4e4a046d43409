/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbnread/pkg/reader"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the metadata and first records of a file",
	Long: `Show the metadata block (when present) and the first MBO records of a
file. Records of other types are skipped and counted.

Examples:
  dbnread inspect data.dbn
  dbnread inspect data.dbn --limit 20 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("output")

		in, err := sourceFor(args[0])
		if err != nil {
			return err
		}
		ins, err := reader.Inspect(in, limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			return outputJSON(out, ins)
		case "table", "":
			fmt.Fprintf(out, "File:\t%s (%d bytes)\n", args[0], ins.Size)
			outputMetadata(out, ins.Metadata)
			fmt.Fprintln(out)
			outputRecordsTable(out, ins.Records)
			if ins.Skipped > 0 {
				fmt.Fprintf(out, "Skipped %d records of other types\n", ins.Skipped)
			}
			return nil
		default:
			return fmt.Errorf("unknown output format %q (use table or json)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().IntP("limit", "n", 10, "Number of records to show")
	inspectCmd.Flags().StringP("output", "o", "table", "Output format: table or json")
}
