/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/reader"
)

// directCmd represents the direct command
var directCmd = &cobra.Command{
	Use:   "direct <file>",
	Short: "Decode every record of a file into memory",
	Long: `Decode every MBO record of a file into an in-memory slice and print
the parse statistics.

Examples:
  dbnread direct data.dbn
  dbnread direct data.dbn --mode buffered --parallelism 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := sourceFor(args[0])
		if err != nil {
			return err
		}

		var stats reader.ParseStats
		records, err := reader.ParseAll(in, append(readerOptions(), reader.CaptureStats(&stats))...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Parsed %d records from %s\n", len(records), args[0])
		if len(records) > 0 {
			first, last := records[0], records[len(records)-1]
			fmt.Fprintf(out, "First: order %d %s %s @ %s\n", first.OrderID, first.Action, first.Side, formatPrice(first.Price))
			fmt.Fprintf(out, "Last:  order %d %s %s @ %s\n", last.OrderID, last.Action, last.Side, formatPrice(last.Price))
		}
		fmt.Fprintln(out, stats.String())
		return nil
	},
}

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Decode a file in bounded batches",
	Long: `Decode the MBO records of a file in batches of at most --batch-size
records and print the number of batches and the parse statistics.

Examples:
  dbnread batch data.dbn
  dbnread batch data.dbn --batch-size 50000 --reuse`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batchSize := appConfig.Reader.BatchSize
		if cmd.Flags().Changed("batch-size") {
			batchSize, _ = cmd.Flags().GetInt("batch-size")
		}
		opts := readerOptions()
		if cmd.Flags().Changed("reuse") {
			reuse, _ := cmd.Flags().GetBool("reuse")
			opts = append(opts, reader.WithBufferReuse(reuse))
		}

		in, err := sourceFor(args[0])
		if err != nil {
			return err
		}
		it, err := reader.ParseInBatches(in, batchSize, opts...)
		if err != nil {
			return err
		}
		defer it.Close()

		batches := 0
		largest := 0
		for it.Next() {
			batches++
			largest = max(largest, len(it.Batch()))
		}
		if err := it.Err(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Parsed %d records in %d batches (batch size %d, largest %d)\n",
			it.Records(), batches, batchSize, largest)
		fmt.Fprintln(out, it.Stats().String())
		return nil
	},
}

// streamCmd represents the stream command
var streamCmd = &cobra.Command{
	Use:   "stream <file>...",
	Short: "Stream records through a counting handler",
	Long: `Stream the MBO records of one or more files through a handler that
counts actions and sides, then print the histograms and parse statistics.
Several files are parsed concurrently.

Examples:
  dbnread stream data.dbn
  dbnread stream day1.dbn day2.dbn day3.dbn --concurrency 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		opts, err := appConfig.SourceOptions()
		if err != nil {
			return err
		}

		hist := newHistogram()
		stats, err := reader.ParseFiles(cmd.Context(), args, opts, concurrency, func(string) reader.Handler {
			return hist.handler()
		}, readerOptions()...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var total reader.ParseStats
		for i, s := range stats {
			if len(args) > 1 {
				fmt.Fprintf(out, "%s: %d records\n", args[i], s.TotalRecords)
			}
			total.TotalRecords += s.TotalRecords
			total.BytesProcessed += s.BytesProcessed
			total.Elapsed = max(total.Elapsed, s.Elapsed)
		}
		outputHistogram(out, "Actions:", hist.actionCounts())
		outputHistogram(out, "Sides:", hist.sideCounts())
		fmt.Fprintln(out, total.String())
		return nil
	},
}

// histogram counts actions and sides across concurrently parsed files.
// Each file counts into its own arrays; the totals are summed on read.
type histogram struct {
	mu    sync.Mutex
	files []*fileCounts
}

type fileCounts struct {
	actions [256]uint64
	sides   [256]uint64
}

func newHistogram() *histogram {
	return &histogram{}
}

func (h *histogram) handler() reader.Handler {
	fc := &fileCounts{}
	h.mu.Lock()
	h.files = append(h.files, fc)
	h.mu.Unlock()

	return func(v dbn.MBOView) error {
		fc.actions[v.Action()]++
		fc.sides[v.Side()]++
		return nil
	}
}

func (h *histogram) actionCounts() map[string]uint64 {
	return h.counts(func(fc *fileCounts) *[256]uint64 { return &fc.actions }, func(i int) string { return dbn.Action(i).String() })
}

func (h *histogram) sideCounts() map[string]uint64 {
	return h.counts(func(fc *fileCounts) *[256]uint64 { return &fc.sides }, func(i int) string { return dbn.Side(i).String() })
}

func (h *histogram) counts(pick func(*fileCounts) *[256]uint64, label func(int) string) map[string]uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	var total [256]uint64
	for _, fc := range h.files {
		for i, n := range pick(fc) {
			total[i] += n
		}
	}

	out := make(map[string]uint64)
	for i, n := range total {
		if n > 0 {
			out[label(i)] = n
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(directCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(streamCmd)

	batchCmd.Flags().IntP("batch-size", "b", 0, "Records per batch (default from config)")
	batchCmd.Flags().Bool("reuse", false, "Refill one batch buffer instead of allocating per batch")
	streamCmd.Flags().Int("concurrency", 1, "Number of files parsed at the same time")
}
