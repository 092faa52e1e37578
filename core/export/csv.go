// Package export serializes filtered collections to delimited text for the
// dashboards' download buttons.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
)

// CSV writes header then rows as RFC 4180 CSV; embedded commas, quotes and
// newlines are quoted properly.
func CSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "writing CSV rows")
	}
	return errors.Wrap(cw.Error(), "flushing CSV")
}

// Filename builds a dated download name, eg. "payments-20210131.csv".
func Filename(prefix string) string {
	return fmt.Sprintf("%s-%s.csv", prefix, time.Now().UTC().Format("20060102"))
}
