// Package format renders plain-text reports for the command-line subcommands.
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
)

// Columns formats rows in evenly spaced columns under headers, with a dashed
// separator line. Short rows are padded; cells are flattened to one line.
func Columns(headers []string, rows [][]string) (string, error) {
	if len(headers) == 0 {
		return "", errors.New("format columns: headers are empty")
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = strings.Repeat("-", len(headers[i]))
	}
	fmt.Fprintln(w, strings.Join(sep, "\t"))

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = flatten(row[i])
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	if err := w.Flush(); err != nil {
		return "", errors.Wrap(err, "format columns: flush failed")
	}
	return buf.String(), nil
}

// Truncate shortens s to at most maxLen runes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func flatten(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(s)
}
