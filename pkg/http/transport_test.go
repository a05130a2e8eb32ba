package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
)

type roundTrip func(*http.Request) (*http.Response, error)

func (r roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return r(req)
}

func TestLogTransportRedactsSessionCookie(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	transport := LogTransport(logger, roundTrip(func(req *http.Request) (*http.Response, error) {
		// The real request still carries the live token.
		if cookie, err := req.Cookie("access_token"); err != nil || cookie.Value != "secret-token" {
			t.Errorf("live request cookie = %v, %v", cookie, err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("{}")),
			Header:     http.Header{},
		}, nil
	}))

	req, _ := http.NewRequest(http.MethodGet, "https://basis.test/api/v1/metricsday/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "secret-token"})
	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	resp.Body.Close()

	logged := buf.String()
	if strings.Contains(logged, "secret-token") {
		t.Fatal("session token leaked into the debug log")
	}
	if !strings.Contains(logged, "REDACTED") {
		t.Fatal("redaction marker missing from the debug log")
	}
}

func TestLogTransportRedactsSetCookieHeader(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	transport := LogTransport(logger, roundTrip(func(req *http.Request) (*http.Response, error) {
		header := http.Header{}
		header.Add("Set-Cookie", "access_token=super-secret-token; Path=/; HttpOnly")
		header.Add("Set-Cookie", "session_hint=abc; Path=/")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("welcome")),
			Header:     header,
		}, nil
	}))

	form := strings.NewReader("username=bob&password=pw")
	req, _ := http.NewRequest(http.MethodPost, "https://basis.test/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}

	logged := buf.String()
	if strings.Contains(logged, "super-secret-token") {
		t.Fatal("session token from Set-Cookie leaked into the debug log")
	}
	if !strings.Contains(logged, "access_token=REDACTED") {
		t.Fatal("redaction marker missing from the response dump")
	}
	if !strings.Contains(logged, "session_hint=abc") {
		t.Fatal("non-token cookies should survive the dump untouched")
	}

	// The caller still sees the real cookie and a readable body.
	var token string
	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			token = c.Value
		}
	}
	if token != "super-secret-token" {
		t.Fatalf("returned response cookie = %q, want the live token", token)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	resp.Body.Close()
	if string(body) != "welcome" {
		t.Fatalf("response body = %q after dump", body)
	}
}

func TestLogTransportSkipsLoginBody(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	transport := LogTransport(logger, roundTrip(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("ok")),
			Header:     http.Header{},
		}, nil
	}))

	form := strings.NewReader("username=bob&password=hunter2")
	req, _ := http.NewRequest(http.MethodPost, "https://basis.test/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	resp.Body.Close()

	if strings.Contains(buf.String(), "hunter2") {
		t.Fatal("login credentials leaked into the debug log")
	}
}
