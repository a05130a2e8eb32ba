package format

import "github.com/quantifiedbob/basis-export/pkg/basis"

// JSON passes the raw service response through byte for byte. The
// canonical records are deliberately unused: the passthrough preserves
// every field the normalizer discards.
type JSON struct{}

func (JSON) Serialize(payload *basis.Payload, _ []basis.Record) ([]byte, error) {
	if payload == nil || payload.Raw == nil {
		return nil, basis.NewError(basis.ErrMalformed, "no raw payload to pass through")
	}
	out := make([]byte, len(payload.Raw))
	copy(out, payload.Raw)
	return out, nil
}
