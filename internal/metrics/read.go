package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/11X0r/network-monitor/internal/model"
)

// ReadCSV loads cycle records from a CSV file.
func ReadCSV(path string) ([]model.CycleRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readCSV(file)
}

func readCSV(r io.Reader) ([]model.CycleRecord, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	start := 0
	if len(records[0]) > 0 && records[0][0] == "timestamp" {
		start = 1
	}

	items := make([]model.CycleRecord, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		if len(rec) < len(csvHeader) {
			return nil, fmt.Errorf("invalid record at line %d", i+1)
		}
		ts, err := time.Parse(time.RFC3339Nano, rec[0])
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp at line %d: %w", i+1, err)
		}
		rtt, _ := strconv.ParseFloat(rec[2], 64)
		jitter, _ := strconv.ParseFloat(rec[3], 64)
		loss, _ := strconv.ParseFloat(rec[4], 64)
		latQ, _ := strconv.ParseFloat(rec[5], 64)
		jitQ, _ := strconv.ParseFloat(rec[6], 64)
		stab, _ := strconv.ParseFloat(rec[7], 64)
		health, _ := strconv.ParseFloat(rec[9], 64)
		interval, _ := strconv.ParseFloat(rec[11], 64)
		packets, _ := strconv.Atoi(rec[12])
		items = append(items, model.CycleRecord{
			Timestamp:      ts,
			Target:         rec[1],
			RTTMs:          rtt,
			JitterMs:       jitter,
			LossPct:        loss,
			LatencyQuality: latQ,
			JitterQuality:  jitQ,
			Stability:      stab,
			Trend:          rec[8],
			Health:         health,
			Tier:           rec[10],
			IntervalSec:    interval,
			Packets:        packets,
			Alert:          rec[13],
		})
	}

	return items, nil
}
