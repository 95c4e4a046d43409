/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbnread/pkg/dbn"
)

// genOptions describes a synthetic MBO file.
type genOptions struct {
	Count        int
	InstrumentID uint32
	PublisherID  uint16
	BasePrice    float64
	Tick         float64
	Start        time.Time
	Metadata     bool
}

var genActions = []dbn.Action{dbn.ActionAdd, dbn.ActionModify, dbn.ActionCancel, dbn.ActionTrade, dbn.ActionFill}

// syntheticRecord returns the i-th record of a generated file.
func syntheticRecord(opts genOptions, i int) dbn.MBOMsg {
	ts := uint64(opts.Start.UnixNano()) + uint64(i)*1000
	side := dbn.SideBid
	if i%2 == 1 {
		side = dbn.SideAsk
	}
	flags := dbn.Flags(0)
	if i == opts.Count-1 {
		flags = dbn.FlagLast
	}
	return dbn.MBOMsg{
		Header: dbn.RecordHeader{
			PublisherID:  opts.PublisherID,
			InstrumentID: opts.InstrumentID,
			TsEvent:      ts,
		},
		OrderID:   uint64(i + 1),
		Price:     dbn.PriceFromFloat(opts.BasePrice + float64(i%20)*opts.Tick),
		Size:      uint32(100 + i%50),
		Flags:     flags,
		ChannelID: 1,
		Action:    genActions[i%len(genActions)],
		Side:      side,
		TsRecv:    ts + 100,
		TsInDelta: 100,
		Sequence:  uint32(i),
		SymbolID:  1234,
	}
}

// writeSynthetic writes a generated file to w.
func writeSynthetic(w io.Writer, opts genOptions) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	if opts.Metadata {
		md := dbn.Metadata{
			Dataset: "SYNTH.MBO",
			Start:   uint64(opts.Start.UnixNano()),
			End:     uint64(opts.Start.UnixNano()) + uint64(opts.Count)*1000,
		}
		if _, err := bw.Write(dbn.AppendMetadata(nil, md)); err != nil {
			return err
		}
	}

	buf := make([]byte, 0, dbn.MBOSize)
	for i := 0; i < opts.Count; i++ {
		buf = dbn.AppendMBO(buf[:0], syntheticRecord(opts, i))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen <file>",
	Short: "Write a synthetic MBO file",
	Long: `Write a file of synthetic MBO records for testing and benchmarking.
Order IDs, sequences and timestamps increase with every record; actions and
sides cycle.

Examples:
  dbnread gen sample.dbn
  dbnread gen big.dbn --count 10000000 --instrument 4916 --metadata`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		instrument, _ := cmd.Flags().GetUint32("instrument")
		publisher, _ := cmd.Flags().GetUint16("publisher")
		price, _ := cmd.Flags().GetFloat64("price")
		tick, _ := cmd.Flags().GetFloat64("tick")
		withMetadata, _ := cmd.Flags().GetBool("metadata")

		if count < 0 {
			return fmt.Errorf("--count must not be negative")
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", args[0], err)
		}

		opts := genOptions{
			Count:        count,
			InstrumentID: instrument,
			PublisherID:  publisher,
			BasePrice:    price,
			Tick:         tick,
			Start:        time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC),
			Metadata:     withMetadata,
		}
		if err := writeSynthetic(f, opts); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		cmd.Printf("Created %s with %d records\n", args[0], count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().Int("count", 1000, "Number of records to write")
	genCmd.Flags().Uint32("instrument", 100, "Instrument ID of every record")
	genCmd.Flags().Uint16("publisher", 1, "Publisher ID of every record")
	genCmd.Flags().Float64("price", 100.0, "Price of the first record")
	genCmd.Flags().Float64("tick", 0.25, "Price step between records")
	genCmd.Flags().Bool("metadata", false, "Prefix the records with a metadata block")
}
