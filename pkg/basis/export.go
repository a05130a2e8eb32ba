package basis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ExportRequest names one day of one kind in one format.
type ExportRequest struct {
	Date   Date
	Kind   Kind
	Format Format
}

// Artifact is a finished, serialized export.
type Artifact struct {
	Date   Date
	Kind   Kind
	Format Format
	Data   []byte
}

// Sink persists finished artifacts. Implementations live outside the
// core; naming and placement of the stored artifact are theirs.
type Sink interface {
	Store(ctx context.Context, artifact Artifact) error
}

// Serializer renders canonical records into output bytes. The raw
// payload rides along for formats that need server-side aggregates or
// full response fidelity.
type Serializer interface {
	Serialize(payload *Payload, records []Record) ([]byte, error)
}

// Exporter drives the login, fetch, normalize, serialize pipeline for
// single-day exports.
type Exporter struct {
	sessions    *SessionManager
	client      *Client
	serializers map[Format]Serializer
	sink        Sink
	logger      *slog.Logger
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithSink supplies the persistence collaborator. Without one the
// artifact is only returned to the caller.
func WithSink(s Sink) ExporterOption {
	return func(e *Exporter) { e.sink = s }
}

// WithLogger supplies the structured logger.
func WithLogger(l *slog.Logger) ExporterOption {
	return func(e *Exporter) { e.logger = l }
}

// NewExporter composes the pipeline. The serializer map is keyed by
// format; requests for formats absent from it fail validation.
func NewExporter(sessions *SessionManager, client *Client, serializers map[Format]Serializer, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		sessions:    sessions,
		client:      client,
		serializers: serializers,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export runs one day's export end to end. Request validation happens
// before any network activity. A 401 mid-fetch triggers exactly one
// re-authenticate-and-retry; a second consecutive 401 surfaces as
// ErrUnauthorized. Every failure carries a classified kind.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (*Artifact, error) {
	if _, err := ParseKind(string(req.Kind)); err != nil {
		return nil, err
	}
	if _, err := ParseFormat(string(req.Format)); err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, NewError(ErrValidation, "export date is required")
	}
	serializer, ok := e.serializers[req.Format]
	if !ok {
		return nil, NewError(ErrValidation, fmt.Sprintf("no serializer registered for format %q", req.Format))
	}

	logger := e.logger.With(
		"run_id", uuid.NewString(),
		"date", req.Date.String(),
		"kind", string(req.Kind),
		"format", string(req.Format),
	)

	token, err := e.sessions.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := e.client.Fetch(ctx, token, req.Date, req.Kind)
	if IsUnauthorized(err) {
		logger.Warn("session rejected, re-authenticating")
		token, err = e.sessions.Authenticate(ctx)
		if err != nil {
			return nil, err
		}
		payload, err = e.client.Fetch(ctx, token, req.Date, req.Kind)
	}
	if err != nil {
		// The service has been seen answering with usable bodies on
		// odd statuses, so a decodable body on a non-2xx status is
		// kept. Undecodable bodies and a second 401 still surface.
		if !IsFetch(err) || payload == nil {
			return nil, err
		}
		logger.Warn("using response body despite fetch status", "status", StatusOf(err))
	}

	records, err := Normalize(payload)
	if err != nil {
		return nil, err
	}
	logger.Debug("normalized payload", "records", len(records))

	data, err := serializer.Serialize(payload, records)
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{
		Date:   req.Date,
		Kind:   req.Kind,
		Format: req.Format,
		Data:   data,
	}
	if e.sink != nil {
		if err := e.sink.Store(ctx, *artifact); err != nil {
			return nil, WrapError(ErrSink, fmt.Sprintf("store %s artifact for %s", req.Kind, req.Date), err)
		}
	}
	logger.Info("export complete", "bytes", len(data))
	return artifact, nil
}
