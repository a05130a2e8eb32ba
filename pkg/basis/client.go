package basis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SampleInterval is the fixed metrics granularity in seconds: one
// reading per minute. The API contract expects exactly this value.
const SampleInterval = 60

// exportPadding is the number of seconds of data requested around the
// export day. Always zero.
const exportPadding = 0

// Client performs the day-scoped data fetches against the Basis API.
// It never authenticates; callers hand it a session token per call.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient supplies the transport used for data fetches.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.client = c }
}

// WithBaseURL overrides the service root, for tests.
func WithBaseURL(u string) ClientOption {
	return func(cl *Client) { cl.baseURL = u }
}

// WithClientLogger supplies the structured logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) { cl.logger = l }
}

// NewClient builds an endpoint client against the fixed service root.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves one day of data of the given kind, authenticated by
// the session token travelling as the access_token cookie.
//
// A 401 status is returned as ErrUnauthorized; the client never
// re-authenticates on its own. Any other non-2xx status is returned as
// ErrFetch with the status attached, but the body is still decoded and
// the payload returned alongside the error when the decode succeeds,
// so callers can choose the lenient path the service historically
// required.
func (c *Client) Fetch(ctx context.Context, token string, day Date, kind Kind) (*Payload, error) {
	u, err := c.endpointURL(day, kind)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, WrapError(ErrTransport, "build fetch request", err)
	}
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: token})
	req.Header.Set("Accept-Language", "en")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, WrapError(ErrTransport, fmt.Sprintf("fetch %s for %s", kind, day), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(ErrTransport, "read fetch response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &Error{
			Kind:    ErrUnauthorized,
			Message: fmt.Sprintf("fetch %s for %s: session no longer valid", kind, day),
			Status:  resp.StatusCode,
		}
	}

	payload, decodeErr := decodePayload(kind, body)
	if decodeErr != nil {
		return nil, &Error{
			Kind:    ErrMalformed,
			Message: fmt.Sprintf("fetch %s for %s: undecodable response body", kind, day),
			Status:  resp.StatusCode,
			Raw:     body,
			wrapped: decodeErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return payload, &Error{
			Kind:    ErrFetch,
			Message: fmt.Sprintf("fetch %s for %s: unexpected status %d", kind, day, resp.StatusCode),
			Status:  resp.StatusCode,
			Raw:     body,
		}
	}

	c.logger.Debug("fetched payload", "kind", string(kind), "date", day.String(), "bytes", len(body))
	return payload, nil
}

// endpointURL builds the fixed query template for kind. None of the
// parameters are user-tunable.
func (c *Client) endpointURL(day Date, kind Kind) (string, error) {
	q := url.Values{}
	switch kind {
	case KindMetrics:
		q.Set("day", day.String())
		q.Set("padding", strconv.Itoa(exportPadding))
		q.Set("interval", strconv.Itoa(SampleInterval))
		for _, channel := range []string{"heartrate", "steps", "calories", "gsr", "skin_temp", "air_temp", "bodystates"} {
			q.Set(channel, "true")
		}
		return c.baseURL + "/api/v1/metricsday/me?" + q.Encode(), nil
	case KindSleep:
		q.Set("type", "sleep")
		q.Set("expand", "activities.stages,activities.events")
		return c.baseURL + "/api/v2/users/me/days/" + day.String() + "/activities?" + q.Encode(), nil
	case KindActivity:
		q.Set("type", "run,walk,bike")
		q.Set("expand", "activities")
		return c.baseURL + "/api/v2/users/me/days/" + day.String() + "/activities?" + q.Encode(), nil
	}
	return "", NewError(ErrValidation, fmt.Sprintf("invalid kind %q", kind))
}

func decodePayload(kind Kind, raw []byte) (*Payload, error) {
	p := &Payload{Kind: kind, Raw: raw}
	switch kind {
	case KindMetrics:
		var report MetricsReport
		if err := json.Unmarshal(raw, &report); err != nil {
			return nil, err
		}
		p.Metrics = &report
	default:
		var list EpisodeList
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		p.Episodes = &list
	}
	return p, nil
}
