package rate

import "net/http"

// NewTransport returns a http RoundTripper which honors the given rate limit
func NewTransport(l Limiter, transport http.RoundTripper) http.RoundTripper {
	return &limitingTransport{
		wrappedTransport: transport,
		limiter:          l,
	}
}

// limitingTransport represents a http.RoundTripper valuing the provided rate limit
type limitingTransport struct {
	wrappedTransport http.RoundTripper
	limiter          Limiter
}

// RoundTrip dispatches the HTTP request to the network
func (t *limitingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	// Blocking call; honors the rate limit before dispatch.
	if err := t.limiter.Wait(request.Context()); err != nil {
		return nil, err
	}
	return t.wrappedTransport.RoundTrip(request)
}
