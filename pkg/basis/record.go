package basis

import "strconv"

// Value is one scalar cell of a Record. Cells backed by data the device
// never recorded keep Present false, so each serializer can pick its
// own no-data marker.
type Value struct {
	Raw     string
	Present bool
}

func stringValue(s string) Value {
	return Value{Raw: s, Present: true}
}

func numberValue(f float64) Value {
	return Value{Raw: formatNumber(f), Present: true}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Record is one flattened sample or episode, keyed by column name. The
// key set is fixed per kind; Columns gives the serialization order.
type Record map[string]Value

// Columns returns the fixed column order for records of kind k.
func Columns(k Kind) []string {
	switch k {
	case KindMetrics:
		return []string{
			"timestamp",
			"heart_rate",
			"steps",
			"calories",
			"gsr",
			"skin_temp",
			"air_temp",
		}
	case KindSleep:
		return []string{
			"start_time",
			"start_time_iso",
			"start_time_timezone",
			"start_time_offset",
			"end_time",
			"end_time_iso",
			"end_time_timezone",
			"end_time_offset",
			"light_minutes",
			"deep_minutes",
			"rem_minutes",
			"interruption_minutes",
			"unknown_minutes",
			"interruption_count",
			"toss_and_turn_count",
			"episode_type",
			"actual_seconds",
			"calories",
			"heart_rate_avg",
			"heart_rate_min",
			"heart_rate_max",
			"state",
			"version",
			"id",
		}
	case KindActivity:
		return []string{
			"start_time",
			"start_time_iso",
			"start_time_timezone",
			"start_time_offset",
			"end_time",
			"end_time_iso",
			"end_time_timezone",
			"end_time_offset",
			"episode_type",
			"actual_seconds",
			"steps",
			"calories",
			"minutes",
			"heart_rate_avg",
			"heart_rate_min",
			"heart_rate_max",
			"state",
			"version",
			"id",
		}
	}
	return nil
}
