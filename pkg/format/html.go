package format

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"time"

	"github.com/quantifiedbob/basis-export/pkg/basis"
)

//go:embed templates/*.tpl.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.tpl.html"))

// HTML renders a self-contained document with inline styling. For
// metrics it starts with a summary table and a body-state table built
// straight from the raw aggregates, bypassing the records; the per-row
// table then mirrors the CSV rows in tag markup. Sleep and activity
// get the per-episode table only.
type HTML struct{}

// Absent-cell markers, matching what the legacy export pages showed.
const (
	metricsMarker = "null"
	episodeMarker = "-"
)

type htmlDocument struct {
	Title      string
	ReportDate string
	Columns    []string
	Rows       [][]string
	Summary    []summaryRow
	BodyStates []bodyStateRow
}

type summaryRow struct {
	Label        string
	Min          string
	Max          string
	Sum          string
	Avg          string
	Stdev        string
	PerMinuteMax string
	PerMinuteMin string
}

type bodyStateRow struct {
	Start string
	End   string
	State string
}

func (HTML) Serialize(payload *basis.Payload, records []basis.Record) ([]byte, error) {
	if payload == nil {
		return nil, basis.NewError(basis.ErrMalformed, "no payload to serialize")
	}

	columns := basis.Columns(payload.Kind)
	doc := htmlDocument{
		Title:   kindTitle(payload.Kind),
		Columns: columnLabels(columns),
	}

	name := "episodes.tpl.html"
	switch payload.Kind {
	case basis.KindMetrics:
		name = "metrics.tpl.html"
		doc.Rows = tableRows(records, columns, metricsMarker)
		if payload.Metrics != nil {
			doc.ReportDate = time.Unix(payload.Metrics.StartTime, 0).Format("2006-01-02")
			doc.Summary = summaryRows(payload.Metrics)
			doc.BodyStates = bodyStateRows(payload.Metrics.BodyStates)
		}
	default:
		doc.Rows = tableRows(records, columns, episodeMarker)
		doc.ReportDate = episodeReportDate(payload.Episodes)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tableRows(records []basis.Record, columns []string, marker string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			v := rec[col]
			if v.Present {
				row[i] = v.Raw
			} else {
				row[i] = marker
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func summaryRows(report *basis.MetricsReport) []summaryRow {
	channels := []struct {
		label string
		ch    basis.Channel
	}{
		{"Heart Rate", report.Metrics.HeartRate},
		{"Steps", report.Metrics.Steps},
		{"Calories", report.Metrics.Calories},
		{"GSR", report.Metrics.GSR},
		{"Skin Temp", report.Metrics.SkinTemp},
		{"Air Temp", report.Metrics.AirTemp},
	}
	rows := make([]summaryRow, 0, len(channels))
	for _, c := range channels {
		rows = append(rows, summaryRow{
			Label:        c.label,
			Min:          aggregate(c.ch.Min),
			Max:          aggregate(c.ch.Max),
			Sum:          aggregate(c.ch.Sum),
			Avg:          aggregate(c.ch.Avg),
			Stdev:        aggregate(c.ch.Stdev),
			PerMinuteMax: aggregate(c.ch.PerMinuteMax()),
			PerMinuteMin: aggregate(c.ch.PerMinuteMin()),
		})
	}
	return rows
}

func bodyStateRows(states []basis.BodyState) []bodyStateRow {
	rows := make([]bodyStateRow, 0, len(states))
	for _, s := range states {
		rows = append(rows, bodyStateRow{
			Start: time.Unix(s.Start, 0).Format(basis.TimestampLayout),
			End:   time.Unix(s.End, 0).Format(basis.TimestampLayout),
			State: s.State,
		})
	}
	return rows
}

func episodeReportDate(list *basis.EpisodeList) string {
	if list == nil {
		return ""
	}
	items := list.Items()
	if len(items) == 0 || items[0].StartTime == nil || items[0].StartTime.Timestamp == nil {
		return ""
	}
	return time.Unix(*items[0].StartTime.Timestamp, 0).Format("2006-01-02")
}

func aggregate(v *float64) string {
	if v == nil {
		return episodeMarker
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func kindTitle(k basis.Kind) string {
	switch k {
	case basis.KindMetrics:
		return "My Metrics Data"
	case basis.KindSleep:
		return "My Sleep Data"
	case basis.KindActivity:
		return "My Activity Data"
	}
	return "My Data"
}

// columnLabels maps record column names onto the table headers the
// legacy pages used.
func columnLabels(columns []string) []string {
	labels := make([]string, len(columns))
	for i, col := range columns {
		if label, ok := headerLabels[col]; ok {
			labels[i] = label
			continue
		}
		labels[i] = col
	}
	return labels
}

var headerLabels = map[string]string{
	"timestamp":            "Reading",
	"heart_rate":           "Heartrate",
	"steps":                "Steps",
	"calories":             "Calories",
	"gsr":                  "GSR",
	"skin_temp":            "Skin Temp",
	"air_temp":             "Air Temp",
	"start_time":           "Start Time",
	"start_time_iso":       "Start Time ISO",
	"start_time_timezone":  "Start Time Timezone",
	"start_time_offset":    "Start Time Offset",
	"end_time":             "End Time",
	"end_time_iso":         "End Time ISO",
	"end_time_timezone":    "End Time Timezone",
	"end_time_offset":      "End Time Offset",
	"light_minutes":        "Light Mins",
	"deep_minutes":         "Deep Mins",
	"rem_minutes":          "REM Mins",
	"interruption_minutes": "Interruption Mins",
	"unknown_minutes":      "Unknown Mins",
	"interruption_count":   "Interruptions",
	"toss_and_turn_count":  "Toss Turns",
	"episode_type":         "Type",
	"actual_seconds":       "Actual Secs",
	"minutes":              "Minutes",
	"heart_rate_avg":       "Heart Rate Avg",
	"heart_rate_min":       "Heart Rate Min",
	"heart_rate_max":       "Heart Rate Max",
	"state":                "State",
	"version":              "Version",
	"id":                   "ID",
}
