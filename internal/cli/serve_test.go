package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tangent/pkg/cache"
	"github.com/matzehuels/tangent/pkg/config"
	"github.com/matzehuels/tangent/pkg/errors"
	"github.com/matzehuels/tangent/pkg/httputil"
	"github.com/matzehuels/tangent/pkg/paragraph"
	"github.com/matzehuels/tangent/pkg/pipeline"
)

func newTestServer(t *testing.T, c cache.Cache) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, nil, logger)
	srv := httptest.NewServer(newFrameHandler(runner, paragraph.Default, config.Default(), logger))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &got); err != nil || got.Status != "ok" {
		t.Errorf("body = %s (%v)", body, err)
	}
}

func TestServeFrame(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"png", "image/png", "\x89PNG"},
		{"json", "application/json", "{"},
		{"txt", "text/plain; charset=utf-8", ""},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, body := get(t, srv.URL+"/frame/"+tt.format+"?inputs=40,400&width=300&height=200&seed=5")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if resp.Header.Get("X-Frame-Id") == "" {
				t.Error("missing X-Frame-Id")
			}
			if resp.Header.Get("X-Cache") != "MISS" {
				t.Errorf("X-Cache = %q, want MISS", resp.Header.Get("X-Cache"))
			}
			if !strings.HasPrefix(string(body), tt.prefix) || len(body) == 0 {
				t.Errorf("body starts with %q", body[:min(len(body), 16)])
			}
		})
	}
}

func TestServeDeterministic(t *testing.T) {
	srv := newTestServer(t, nil)
	url := srv.URL + "/frame/txt?inputs=90,10&width=300&height=200&seed=11"

	_, a := get(t, url)
	_, b := get(t, url)
	if string(a) != string(b) {
		t.Error("same query should produce the same frame")
	}
}

func TestServeCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, fc)
	url := srv.URL + "/frame/svg?inputs=50&width=300&height=200"

	first, body1 := get(t, url)
	second, body2 := get(t, url)
	if first.Header.Get("X-Cache") != "MISS" || second.Header.Get("X-Cache") != "HIT" {
		t.Errorf("X-Cache = %q then %q", first.Header.Get("X-Cache"), second.Header.Get("X-Cache"))
	}
	if string(body1) != string(body2) {
		t.Error("cached body differs")
	}

	refreshed, _ := get(t, url+"&refresh")
	if refreshed.Header.Get("X-Cache") != "MISS" {
		t.Errorf("refresh X-Cache = %q, want MISS", refreshed.Header.Get("X-Cache"))
	}
}

func TestServeErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		path   string
		status int
		code   errors.Code
	}{
		{"unknown format", "/frame/gif", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad inputs", "/frame/svg?inputs=1,x", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad width", "/frame/svg?width=-5", http.StatusBadRequest, errors.ErrCodeInvalidSize},
		{"bad seed", "/frame/svg?seed=abc", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"oversized png", "/frame/png?width=16384&height=16384", http.StatusBadRequest, errors.ErrCodeInvalidSize},
		{"png scale", "/frame/png?width=300&height=200&scale=1000000", http.StatusBadRequest, errors.ErrCodeInvalidSize},
		{"negative scale", "/frame/svg?scale=-1", http.StatusBadRequest, errors.ErrCodeInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var eb httputil.ErrorBody
			if err := json.Unmarshal(body, &eb); err != nil {
				t.Fatal(err)
			}
			if eb.Code != tt.code {
				t.Errorf("code = %q, want %q", eb.Code, tt.code)
			}
		})
	}
}

func TestServeNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, _ := get(t, srv.URL+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
