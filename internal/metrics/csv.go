package metrics

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/11X0r/network-monitor/internal/model"
)

var csvHeader = []string{
	"timestamp",
	"target",
	"rtt_ms",
	"jitter_ms",
	"loss_pct",
	"latency_quality",
	"jitter_quality",
	"stability",
	"trend",
	"health",
	"tier",
	"interval_sec",
	"packets",
	"alert",
}

// WriteCSV writes records to CSV with a fixed column order.
func WriteCSV(w io.Writer, items []model.CycleRecord) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range items {
		if err := writer.Write(record(rec)); err != nil {
			return err
		}
	}
	return writer.Error()
}

// AppendCSV appends records to the file at path, creating it (with a
// header) if needed. Append-only so restarts never truncate history.
func AppendCSV(path string, items []model.CycleRecord) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if info.Size() == 0 {
		if err := writer.Write(csvHeader); err != nil {
			return err
		}
	}
	for _, rec := range items {
		if err := writer.Write(record(rec)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func record(m model.CycleRecord) []string {
	return []string{
		m.Timestamp.UTC().Format(time.RFC3339Nano),
		m.Target,
		strconv.FormatFloat(m.RTTMs, 'f', 3, 64),
		strconv.FormatFloat(m.JitterMs, 'f', 3, 64),
		strconv.FormatFloat(m.LossPct, 'f', 3, 64),
		strconv.FormatFloat(m.LatencyQuality, 'f', 4, 64),
		strconv.FormatFloat(m.JitterQuality, 'f', 4, 64),
		strconv.FormatFloat(m.Stability, 'f', 4, 64),
		m.Trend,
		strconv.FormatFloat(m.Health, 'f', 4, 64),
		m.Tier,
		strconv.FormatFloat(m.IntervalSec, 'f', 1, 64),
		strconv.Itoa(m.Packets),
		m.Alert,
	}
}
