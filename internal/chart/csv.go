package chart

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"quyca-monitor/internal/risk"
	"quyca-monitor/internal/simulator"
)

// WriteCSV writes one row per sample with its chart mean and tier.
func WriteCSV(w io.Writer, series simulator.Series, table risk.Table) error {
	writer := csv.NewWriter(w)

	header := []string{"time", "at", "open", "high", "low", "close", "is_rising", "mean", "tier"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, s := range series {
		mean := Mean(s)
		record := []string{
			s.Time,
			s.At.Format(time.RFC3339),
			formatTemp(s.Open),
			formatTemp(s.High),
			formatTemp(s.Low),
			formatTemp(s.Close),
			strconv.FormatBool(s.IsRising),
			strconv.FormatFloat(mean, 'f', 0, 64),
			table.Classify(mean).String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
