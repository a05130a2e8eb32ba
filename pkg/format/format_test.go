package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/quantifiedbob/basis-export/pkg/basis"
)

const metricsBody = `{
  "starttime": 1396238400,
  "interval": 60,
  "metrics": {
    "heartrate": {
      "min": 41, "max": 181, "sum": 300, "avg": 70.5, "stdev": 12.25,
      "values": [62, null, 64],
      "summary": {"max_heartrate_per_minute": 181, "min_heartrate_per_minute": 41}
    },
    "steps": {"values": [10, 20, 30]},
    "calories": {"values": [1.2, 1.3, 1.4]},
    "gsr": {"values": [0.0003, null, 0.0005]},
    "skin_temp": {"values": [88.1, 88.2, 88.3]},
    "air_temp": {"values": [72, 72, 73]}
  },
  "bodystates": [[1396238400, 1396242000, "light_activity"]]
}`

const sleepBody = `{
  "content": {
    "activities": [
      {
        "id": "a1", "type": "sleep", "state": "complete", "version": 3,
        "start_time": {
          "timestamp": 1396238460,
          "iso": "2014-03-31T00:01:00-04:00",
          "time_zone": {"name": "America/New_York", "offset": -240}
        },
        "end_time": {"timestamp": 1396265640},
        "heart_rate": {"avg": 58, "min": 45, "max": 92},
        "actual_seconds": 27180,
        "calories": 355,
        "sleep": {"light_minutes": 241, "deep_minutes": 103, "rem_minutes": 95}
      },
      {"id": "a2", "type": "sleep", "state": "complete"}
    ]
  }
}`

func metricsPayload(t *testing.T) (*basis.Payload, []basis.Record) {
	t.Helper()
	var report basis.MetricsReport
	if err := json.Unmarshal([]byte(metricsBody), &report); err != nil {
		t.Fatalf("decode metrics fixture: %v", err)
	}
	payload := &basis.Payload{Kind: basis.KindMetrics, Raw: []byte(metricsBody), Metrics: &report}
	records, err := basis.Normalize(payload)
	if err != nil {
		t.Fatalf("normalize metrics fixture: %v", err)
	}
	return payload, records
}

func sleepPayload(t *testing.T) (*basis.Payload, []basis.Record) {
	t.Helper()
	var list basis.EpisodeList
	if err := json.Unmarshal([]byte(sleepBody), &list); err != nil {
		t.Fatalf("decode sleep fixture: %v", err)
	}
	payload := &basis.Payload{Kind: basis.KindSleep, Raw: []byte(sleepBody), Episodes: &list}
	records, err := basis.Normalize(payload)
	if err != nil {
		t.Fatalf("normalize sleep fixture: %v", err)
	}
	return payload, records
}

func TestNewCoversEveryFormat(t *testing.T) {
	for _, f := range basis.Formats() {
		if _, err := New(f); err != nil {
			t.Errorf("New(%q): %v", f, err)
		}
	}
	if _, err := New(basis.Format("yaml")); !basis.IsValidation(err) {
		t.Errorf("New(yaml) error kind = %q, want validation", basis.KindOf(err))
	}
	if got := len(Registry()); got != len(basis.Formats()) {
		t.Errorf("Registry has %d entries, want %d", got, len(basis.Formats()))
	}
}

func TestJSONPassthroughIsByteIdentical(t *testing.T) {
	for _, build := range []func(*testing.T) (*basis.Payload, []basis.Record){metricsPayload, sleepPayload} {
		payload, records := build(t)
		out, err := (JSON{}).Serialize(payload, records)
		if err != nil {
			t.Fatalf("Serialize: %v", err)
		}
		if !bytes.Equal(out, payload.Raw) {
			t.Fatal("json output differs from raw payload")
		}
		// The passthrough must be a copy, not an alias.
		out[0] = 'X'
		if payload.Raw[0] == 'X' {
			t.Fatal("json output aliases the raw payload")
		}
	}
}

func TestCSVMetrics(t *testing.T) {
	payload, records := metricsPayload(t)
	out, err := (CSV{}).Serialize(payload, records)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-read csv: %v", err)
	}
	// Header plus one row per heart-rate sample.
	if len(rows) != 1+3 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	wantHeader := basis.Columns(basis.KindMetrics)
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][1] != "62" {
		t.Errorf("row 1 heart_rate = %q, want 62", rows[1][1])
	}
	// Null sample renders as an empty cell.
	if rows[2][1] != "" {
		t.Errorf("row 2 heart_rate = %q, want empty", rows[2][1])
	}
}

func TestCSVSleepRowCountAndDefaults(t *testing.T) {
	payload, records := sleepPayload(t)
	out, err := (CSV{}).Serialize(payload, records)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-read csv: %v", err)
	}
	if len(rows) != 1+2 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	index := make(map[string]int)
	for i, col := range rows[0] {
		index[col] = i
	}
	sparse := rows[2]
	if got := sparse[index["calories"]]; got != "0" {
		t.Errorf("sparse calories = %q, want 0", got)
	}
	if got := sparse[index["heart_rate_avg"]]; got != "" {
		t.Errorf("sparse heart_rate_avg = %q, want empty", got)
	}
	if got := sparse[index["id"]]; got != "a2" {
		t.Errorf("sparse id = %q, want a2", got)
	}
}

func TestSerializersDoNotMutateRecords(t *testing.T) {
	payload, records := sleepPayload(t)
	before := records[0]["calories"]
	for _, s := range Registry() {
		if _, err := s.Serialize(payload, records); err != nil {
			t.Fatalf("Serialize: %v", err)
		}
	}
	if records[0]["calories"] != before {
		t.Fatal("serializer mutated input records")
	}
}
