// Package export writes search results in machine-readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/wsnlife/core/schedule"
	"github.com/kilianp07/wsnlife/core/search"
)

// WriteJSON writes the search result to w in JSON format.
func WriteJSON(w io.Writer, res search.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes one row per active sensor per step. Step i covers the time
// interval [i*battery, (i+1)*battery).
func WriteCSV(w io.Writer, trace schedule.Trace, battery int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "start", "end", "sensor_x", "sensor_y"}); err != nil {
		return err
	}
	for i, step := range trace {
		start := strconv.Itoa(i * battery)
		end := strconv.Itoa((i + 1) * battery)
		for _, p := range step {
			rec := []string{
				strconv.Itoa(i),
				start,
				end,
				strconv.FormatFloat(p.X, 'f', -1, 64),
				strconv.FormatFloat(p.Y, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
