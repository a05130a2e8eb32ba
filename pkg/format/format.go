// Package format renders canonical Basis records into the supported
// output encodings: raw JSON passthrough, delimited CSV, and a
// self-contained HTML document.
package format

import (
	"fmt"

	"github.com/quantifiedbob/basis-export/pkg/basis"
)

// New returns the serializer for f.
func New(f basis.Format) (basis.Serializer, error) {
	switch f {
	case basis.FormatJSON:
		return JSON{}, nil
	case basis.FormatCSV:
		return CSV{}, nil
	case basis.FormatHTML:
		return HTML{}, nil
	}
	return nil, basis.NewError(basis.ErrValidation, fmt.Sprintf("invalid format %q", f))
}

// Registry returns all serializers keyed by format, ready to hand to
// an Exporter.
func Registry() map[basis.Format]basis.Serializer {
	registry := make(map[basis.Format]basis.Serializer, len(basis.Formats()))
	for _, f := range basis.Formats() {
		s, err := New(f)
		if err != nil {
			continue
		}
		registry[f] = s
	}
	return registry
}
