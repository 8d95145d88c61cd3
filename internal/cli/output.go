package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// printer renders command results as indented JSON or an aligned table.
type printer struct {
	w      io.Writer
	format string
}

// print writes v as JSON, or rows under header as a table.
func (p printer) print(v any, header []string, rows [][]string) error {
	if p.format == outputJSON {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// message writes a one-line confirmation in table mode and v in JSON mode.
func (p printer) message(v any, format string, args ...any) error {
	if p.format == outputJSON {
		return p.print(v, nil, nil)
	}
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
