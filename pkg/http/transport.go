package http

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"
)

// LogTransport returns a RoundTripper that dumps every request and
// response through the logger. Meant for debugging; the session cookie
// is redacted and login form bodies are never dumped.
func LogTransport(logger *slog.Logger, transport http.RoundTripper) http.RoundTripper {
	return &logTransport{logger: logger, transport: transport}
}

type logTransport struct {
	logger    *slog.Logger
	transport http.RoundTripper
}

func (l *logTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	dumpBody := request.URL.Path != "/login"
	dump, err := httputil.DumpRequestOut(redact(request), dumpBody)
	if err != nil {
		l.logger.Warn("dump request", "error", err)
	} else {
		l.logger.Debug("outgoing request", "dump", string(dump))
	}

	response, respErr := l.transport.RoundTrip(request)
	if respErr != nil {
		l.logger.Warn("request failed", "error", respErr)
		return response, respErr
	}

	masked := redactResponse(response)
	dump, err = httputil.DumpResponse(masked, true)
	// DumpResponse drains and replaces the body on the value it is
	// handed; carry the replacement over so the caller can still read it.
	response.Body = masked.Body
	if err != nil {
		l.logger.Warn("dump response", "error", err)
	} else {
		l.logger.Debug("incoming response", "dump", string(dump))
	}
	return response, respErr
}

// redactResponse shallow-copies the response with any Set-Cookie
// access_token value masked, so the login response never logs the live
// token. The header clone keeps the real cookies intact for the jar.
func redactResponse(response *http.Response) *http.Response {
	masked := *response
	if cookies := response.Header.Values("Set-Cookie"); len(cookies) > 0 {
		masked.Header = response.Header.Clone()
		redacted := make([]string, len(cookies))
		for i, c := range cookies {
			redacted[i] = redactSetCookie(c)
		}
		masked.Header["Set-Cookie"] = redacted
	}
	return &masked
}

func redactSetCookie(c string) string {
	nameValue, attrs, hasAttrs := strings.Cut(c, ";")
	name, _, _ := strings.Cut(nameValue, "=")
	if strings.TrimSpace(name) != "access_token" {
		return c
	}
	if hasAttrs {
		return "access_token=REDACTED;" + attrs
	}
	return "access_token=REDACTED"
}

// redact clones the request with the access_token cookie value masked.
func redact(request *http.Request) *http.Request {
	cookies := request.Cookies()
	masked := request.Clone(request.Context())
	masked.Header.Del("Cookie")
	for _, c := range cookies {
		if c.Name == "access_token" {
			c.Value = "REDACTED"
		}
		masked.AddCookie(c)
	}
	return masked
}
