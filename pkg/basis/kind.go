package basis

import "fmt"

// Kind selects one of the three data shapes the Basis service exposes.
type Kind string

const (
	KindMetrics  Kind = "metrics"
	KindSleep    Kind = "sleep"
	KindActivity Kind = "activity"
)

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindMetrics, KindSleep, KindActivity}
}

// ParseKind validates a kind name coming from a front end.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindMetrics, KindSleep, KindActivity:
		return Kind(s), nil
	}
	return "", NewError(ErrValidation, fmt.Sprintf("invalid kind %q (want metrics, sleep or activity)", s))
}

// Format selects the output encoding of an export.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// Formats returns every supported format in a stable order.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatHTML}
}

// ParseFormat validates a format name coming from a front end.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatHTML:
		return Format(s), nil
	}
	return "", NewError(ErrValidation, fmt.Sprintf("invalid format %q (want json, csv or html)", s))
}

// Extension returns the file extension conventionally used for f.
func (f Format) Extension() string {
	return string(f)
}
