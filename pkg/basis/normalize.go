package basis

import (
	"fmt"
	"time"
)

// TimestampLayout is how derived and episode timestamps render in
// tabular output.
const TimestampLayout = "2006-01-02 15:04:05"

// Normalize flattens a decoded payload into one canonical record per
// metrics sample or per episode. It is a pure function: the payload is
// not mutated and repeated calls yield identical records.
func Normalize(p *Payload) ([]Record, error) {
	switch p.Kind {
	case KindMetrics:
		if p.Metrics == nil {
			return nil, NewError(ErrMalformed, "metrics payload missing report")
		}
		return normalizeMetrics(p.Metrics), nil
	case KindSleep, KindActivity:
		if p.Episodes == nil {
			return nil, NewError(ErrMalformed, fmt.Sprintf("%s payload missing episode list", p.Kind))
		}
		return normalizeEpisodes(p.Kind, p.Episodes), nil
	}
	return nil, NewError(ErrValidation, fmt.Sprintf("invalid kind %q", p.Kind))
}

// normalizeMetrics emits one record per heart-rate sample. The other
// channel series run in lockstep; a shorter series or a null entry
// yields an absent cell, never a panic and never a dropped row. Each
// row's timestamp is derived from the report start and the fixed
// sample interval rather than read from the payload.
func normalizeMetrics(r *MetricsReport) []Record {
	interval := r.Interval
	if interval <= 0 {
		interval = SampleInterval
	}
	start := time.Unix(r.StartTime, 0)

	channels := []struct {
		name   string
		values []*float64
	}{
		{"heart_rate", r.Metrics.HeartRate.Values},
		{"steps", r.Metrics.Steps.Values},
		{"calories", r.Metrics.Calories.Values},
		{"gsr", r.Metrics.GSR.Values},
		{"skin_temp", r.Metrics.SkinTemp.Values},
		{"air_temp", r.Metrics.AirTemp.Values},
	}

	n := len(r.Metrics.HeartRate.Values)
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i*interval) * time.Second)
		rec := Record{"timestamp": stringValue(at.Format(TimestampLayout))}
		for _, ch := range channels {
			rec[ch.name] = sampleAt(ch.values, i)
		}
		records = append(records, rec)
	}
	return records
}

func sampleAt(values []*float64, i int) Value {
	if i >= len(values) || values[i] == nil {
		return Value{}
	}
	return numberValue(*values[i])
}

// normalizeEpisodes emits one record per episode, in server order.
// Missing textual and identifier fields become empty strings, missing
// counters become zero, and missing heart-rate stats stay absent so
// serializers can pick their marker.
func normalizeEpisodes(k Kind, list *EpisodeList) []Record {
	items := list.Items()
	records := make([]Record, 0, len(items))
	for _, ep := range items {
		rec := Record{
			"start_time":          eventTimestamp(ep.StartTime),
			"start_time_iso":      eventISO(ep.StartTime),
			"start_time_timezone": eventZoneName(ep.StartTime),
			"start_time_offset":   eventZoneOffset(ep.StartTime),
			"end_time":            eventTimestamp(ep.EndTime),
			"end_time_iso":        eventISO(ep.EndTime),
			"end_time_timezone":   eventZoneName(ep.EndTime),
			"end_time_offset":     eventZoneOffset(ep.EndTime),
			"episode_type":        stringValue(ep.Type),
			"actual_seconds":      counter(ep.ActualSeconds),
			"calories":            counter(ep.Calories),
			"heart_rate_avg":      stat(heartRateField(ep.HeartRate, func(h *HeartRateStats) *float64 { return h.Avg })),
			"heart_rate_min":      stat(heartRateField(ep.HeartRate, func(h *HeartRateStats) *float64 { return h.Min })),
			"heart_rate_max":      stat(heartRateField(ep.HeartRate, func(h *HeartRateStats) *float64 { return h.Max })),
			"state":               stringValue(ep.State),
			"version":             versionValue(ep.Version),
			"id":                  stringValue(ep.ID),
		}
		switch k {
		case KindSleep:
			rec["light_minutes"] = counter(sleepField(ep.Sleep, func(s *SleepDetail) *float64 { return s.LightMinutes }))
			rec["deep_minutes"] = counter(sleepField(ep.Sleep, func(s *SleepDetail) *float64 { return s.DeepMinutes }))
			rec["rem_minutes"] = counter(sleepField(ep.Sleep, func(s *SleepDetail) *float64 { return s.REMMinutes }))
			rec["interruption_minutes"] = counter(sleepField(ep.Sleep, func(s *SleepDetail) *float64 { return s.InterruptionMinutes }))
			rec["unknown_minutes"] = counter(sleepField(ep.Sleep, func(s *SleepDetail) *float64 { return s.UnknownMinutes }))
			rec["interruption_count"] = counter(sleepField(ep.Sleep, func(s *SleepDetail) *float64 { return s.Interruptions }))
			rec["toss_and_turn_count"] = counter(sleepField(ep.Sleep, func(s *SleepDetail) *float64 { return s.TossAndTurn }))
		case KindActivity:
			rec["steps"] = counter(ep.Steps)
			rec["minutes"] = counter(ep.Minutes)
		}
		records = append(records, rec)
	}
	return records
}

func eventTimestamp(t *EventTime) Value {
	if t == nil || t.Timestamp == nil {
		return stringValue("")
	}
	return stringValue(time.Unix(*t.Timestamp, 0).Format(TimestampLayout))
}

func eventISO(t *EventTime) Value {
	if t == nil {
		return stringValue("")
	}
	return stringValue(t.ISO)
}

func eventZoneName(t *EventTime) Value {
	if t == nil || t.TimeZone == nil {
		return stringValue("")
	}
	return stringValue(t.TimeZone.Name)
}

func eventZoneOffset(t *EventTime) Value {
	if t == nil || t.TimeZone == nil || t.TimeZone.Offset == nil {
		return stringValue("")
	}
	return numberValue(*t.TimeZone.Offset)
}

func heartRateField(h *HeartRateStats, pick func(*HeartRateStats) *float64) *float64 {
	if h == nil {
		return nil
	}
	return pick(h)
}

func sleepField(s *SleepDetail, pick func(*SleepDetail) *float64) *float64 {
	if s == nil {
		return nil
	}
	return pick(s)
}

// counter defaults missing numeric counters to an explicit zero.
func counter(v *float64) Value {
	if v == nil {
		return numberValue(0)
	}
	return numberValue(*v)
}

// stat keeps missing aggregate stats absent instead of zero, so a
// missing average is distinguishable from a measured zero.
func stat(v *float64) Value {
	if v == nil {
		return Value{}
	}
	return numberValue(*v)
}

func versionValue(v *float64) Value {
	if v == nil {
		return stringValue("")
	}
	return numberValue(*v)
}
