/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/ssargent/dbnread/pkg/reader"
	"github.com/ssargent/dbnread/pkg/recordstore"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Decode a file and persist its records in the record store",
	Long: `Stream the MBO records of a file into the Pebble record store under a
new session ID. Records are keyed by instrument, event time and sequence.

Examples:
  dbnread export data.dbn
  dbnread export data.dbn --store-dir ./records --flush-every 10000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		storeDir := appConfig.Store.Dir
		if cmd.Flags().Changed("store-dir") {
			storeDir, _ = cmd.Flags().GetString("store-dir")
		}
		flushEvery, _ := cmd.Flags().GetInt("flush-every")

		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}
		store, err := container.GetStoreOpener()(storeDir)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				err = multierror.Append(err, cerr).ErrorOrNil()
			}
		}()

		in, err := sourceFor(args[0])
		if err != nil {
			return err
		}

		w := store.NewWriter(store.NewSession(), flushEvery)
		stats, err := reader.ParseWithCallback(in, w.PutView, readerOptions()...)
		if err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}

		slog.Info("export complete", "session", w.Session().String(), "records", w.Written(), "store", storeDir)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session: %s\n", w.Session())
		fmt.Fprintf(out, "Stored %d records in %s\n", w.Written(), storeDir)
		fmt.Fprintln(out, stats.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("store-dir", "", "Record store directory (default from config)")
	exportCmd.Flags().Int("flush-every", recordstore.DefaultFlushEvery, "Records per committed batch")
}
