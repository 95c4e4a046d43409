package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/reader"
)

// outputJSON writes v as indented JSON
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputMetadata displays a metadata block in table format
func outputMetadata(w io.Writer, md dbn.Metadata) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	if !md.Present {
		fmt.Fprintln(tw, "Metadata:\tnone")
		return
	}
	fmt.Fprintf(tw, "Version:\t%d\n", md.Version)
	fmt.Fprintf(tw, "Dataset:\t%s\n", md.Dataset)
	fmt.Fprintf(tw, "Schema:\t%d\n", md.Schema)
	fmt.Fprintf(tw, "Start:\t%s\n", formatNanos(md.Start))
	if md.End != 0 {
		fmt.Fprintf(tw, "End:\t%s\n", formatNanos(md.End))
	}
	if md.Limit != 0 {
		fmt.Fprintf(tw, "Limit:\t%d\n", md.Limit)
	}
	fmt.Fprintf(tw, "Records offset:\t%d\n", md.RecordsOffset())
}

// outputRecordsTable displays inspected records in table format
func outputRecordsTable(w io.Writer, records []reader.InspectedRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No MBO records found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "OFFSET\tINSTRUMENT\tTS_EVENT\tORDER_ID\tACTION\tSIDE\tPRICE\tSIZE\tSEQ")
	for _, r := range records {
		m := r.Record
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\t%s\t%s\t%d\t%d\n",
			r.Offset,
			m.Header.InstrumentID,
			formatNanos(m.Header.TsEvent),
			m.OrderID,
			m.Action,
			m.Side,
			formatPrice(m.Price),
			m.Size,
			m.Sequence,
		)
	}
}

// outputHistogram displays counts sorted by label
func outputHistogram(w io.Writer, title string, counts map[string]uint64) {
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "%s\n", title)
	for _, l := range labels {
		fmt.Fprintf(tw, "  %s\t%d\n", l, counts[l])
	}
}

func formatNanos(ns uint64) string {
	return time.Unix(0, int64(ns)).UTC().Format(time.RFC3339Nano)
}

func formatPrice(p int64) string {
	if p == dbn.UndefPrice {
		return "-"
	}
	return fmt.Sprintf("%.9g", dbn.PriceToFloat(p))
}
