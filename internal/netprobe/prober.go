// Package netprobe checks general internet reachability.
//
// It is only consulted after a Pushbullet call times out, to tell a missing
// network connection apart from a slow or unresponsive service.
package netprobe

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pbsms/internal/domain"
)

const (
	// DefaultURL is a stable, well-known host.
	DefaultURL = "https://www.google.com"
	// DefaultTimeout bounds a single probe.
	DefaultTimeout = 5 * time.Second
)

// Prober issues a single GET against a known-reachable URL.
type Prober struct {
	URL     string
	Timeout time.Duration
	HTTP    *http.Client
	Log     *zap.Logger
}

// New returns a Prober for url using httpClient.
func New(url string, timeout time.Duration, httpClient *http.Client, log *zap.Logger) *Prober {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Prober{URL: url, Timeout: timeout, HTTP: httpClient, Log: log}
}

// IsOnline reports true only if the probe URL answers 2xx within Timeout.
func (p *Prober) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		p.Log.Debug("probe request", zap.Error(err))
		return false
	}
	resp, err := p.HTTP.Do(req)
	if err != nil {
		p.Log.Debug("probe failed", zap.String("url", p.URL), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	p.Log.Debug("probe answered", zap.String("url", p.URL), zap.Int("status", resp.StatusCode))
	return resp.StatusCode/100 == 2
}

var _ domain.ConnectivityProber = (*Prober)(nil)
