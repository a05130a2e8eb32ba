package basis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is one decoded endpoint response together with the raw bytes
// it was decoded from. Exactly one of Metrics or Episodes is set,
// matching Kind.
type Payload struct {
	Kind     Kind
	Raw      []byte
	Metrics  *MetricsReport
	Episodes *EpisodeList
}

// Sample:
//
// {
//     "starttime": 1396238400,
//     "endtime": 1396324740,
//     "interval": 60,
//     "timezone": "America/New_York",
//     "metrics": {
//         "heartrate": { ... },
//         "steps": { ... }
//     },
//     "bodystates": [
//         [1396238400, 1396242000, "light_activity"]
//     ]
// }
type MetricsReport struct {
	StartTime  int64           `json:"starttime"`
	EndTime    int64           `json:"endtime"`
	Interval   int             `json:"interval"`
	TimeZone   string          `json:"timezone"`
	Metrics    MetricsChannels `json:"metrics"`
	BodyStates []BodyState     `json:"bodystates"`
}

// MetricsChannels holds the six continuous channels reported for a day.
// All value series run in lockstep at the report interval.
type MetricsChannels struct {
	HeartRate Channel `json:"heartrate"`
	Steps     Channel `json:"steps"`
	Calories  Channel `json:"calories"`
	GSR       Channel `json:"gsr"`
	SkinTemp  Channel `json:"skin_temp"`
	AirTemp   Channel `json:"air_temp"`
}

// Sample:
//
// {
//     "min": 41,
//     "max": 181,
//     "sum": 102964,
//     "avg": 71.5,
//     "stdev": 12.2,
//     "values": [62, null, 64],
//     "summary": {
//         "max_heartrate_per_minute": 181,
//         "min_heartrate_per_minute": 41
//     }
// }
//
// Samples the device never recorded appear as JSON nulls in values.
// The summary keys embed the channel name, so they are kept as a map
// and looked up by shape.
type Channel struct {
	Min     *float64            `json:"min"`
	Max     *float64            `json:"max"`
	Sum     *float64            `json:"sum"`
	Avg     *float64            `json:"avg"`
	Stdev   *float64            `json:"stdev"`
	Values  []*float64          `json:"values"`
	Summary map[string]*float64 `json:"summary"`
}

// PerMinuteMax returns the summary's max_<channel>_per_minute entry,
// or nil when the report carried none.
func (c Channel) PerMinuteMax() *float64 {
	return c.summaryEntry("max_")
}

// PerMinuteMin returns the summary's min_<channel>_per_minute entry,
// or nil when the report carried none.
func (c Channel) PerMinuteMin() *float64 {
	return c.summaryEntry("min_")
}

func (c Channel) summaryEntry(prefix string) *float64 {
	for key, v := range c.Summary {
		if strings.HasPrefix(key, prefix) && strings.HasSuffix(key, "_per_minute") {
			return v
		}
	}
	return nil
}

// BodyState is one wearing-state interval of the day. On the wire it is
// a bare [start, end, state] triple, so it needs a custom unmarshaler.
type BodyState struct {
	Start int64
	End   int64
	State string
}

func (b *BodyState) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 3 {
		return fmt.Errorf("bodystate: want 3 elements, got %d", len(tuple))
	}
	var start, end float64
	if err := json.Unmarshal(tuple[0], &start); err != nil {
		return fmt.Errorf("bodystate start: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &end); err != nil {
		return fmt.Errorf("bodystate end: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &b.State); err != nil {
		return fmt.Errorf("bodystate state: %w", err)
	}
	b.Start = int64(start)
	b.End = int64(end)
	return nil
}

// Sample:
//
// {
//     "content": {
//         "activities": [
//             {
//                 "id": "a9011a2e",
//                 "type": "sleep",
//                 "state": "complete",
//                 "version": 3,
//                 "start_time": {
//                     "timestamp": 1396238460,
//                     "iso": "2014-03-31T00:01:00-04:00",
//                     "time_zone": {"name": "America/New_York", "offset": -240}
//                 },
//                 "end_time": { ... },
//                 "heart_rate": {"avg": 58, "min": 45, "max": 92},
//                 "actual_seconds": 27180,
//                 "calories": 355,
//                 "sleep": {
//                     "light_minutes": 241,
//                     "deep_minutes": 103,
//                     "rem_minutes": 95,
//                     "interruption_minutes": 14,
//                     "unknown_minutes": 0,
//                     "interruptions": 3,
//                     "toss_and_turn": 21
//                 }
//             }
//         ]
//     }
// }
//
// The same envelope carries run/walk/bike episodes, which drop the
// sleep block and gain steps/minutes.
type EpisodeList struct {
	Content struct {
		Activities []Episode `json:"activities"`
	} `json:"content"`
}

// Items returns the day's episodes in server order.
func (l *EpisodeList) Items() []Episode {
	return l.Content.Activities
}

// Episode is one discrete time-bounded event, either a sleep period or
// an activity session. Fields the device did not report are nil.
type Episode struct {
	StartTime     *EventTime      `json:"start_time"`
	EndTime       *EventTime      `json:"end_time"`
	HeartRate     *HeartRateStats `json:"heart_rate"`
	ActualSeconds *float64        `json:"actual_seconds"`
	Calories      *float64        `json:"calories"`
	Steps         *float64        `json:"steps"`
	Minutes       *float64        `json:"minutes"`
	Sleep         *SleepDetail    `json:"sleep"`
	Type          string          `json:"type"`
	State         string          `json:"state"`
	Version       *float64        `json:"version"`
	ID            string          `json:"id"`
}

// EventTime is an episode boundary with its zone context.
type EventTime struct {
	Timestamp *int64    `json:"timestamp"`
	ISO       string    `json:"iso"`
	TimeZone  *TimeZone `json:"time_zone"`
}

type TimeZone struct {
	Name   string   `json:"name"`
	Offset *float64 `json:"offset"`
}

type HeartRateStats struct {
	Avg *float64 `json:"avg"`
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// SleepDetail breaks a sleep episode down by stage.
type SleepDetail struct {
	LightMinutes        *float64 `json:"light_minutes"`
	DeepMinutes         *float64 `json:"deep_minutes"`
	REMMinutes          *float64 `json:"rem_minutes"`
	InterruptionMinutes *float64 `json:"interruption_minutes"`
	UnknownMinutes      *float64 `json:"unknown_minutes"`
	Interruptions       *float64 `json:"interruptions"`
	TossAndTurn         *float64 `json:"toss_and_turn"`
}
