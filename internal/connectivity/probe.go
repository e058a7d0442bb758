package connectivity

import (
	"context"
	"time"

	"github.com/guonaihong/gout"
)

const (
	// DefaultProbeURL answers 204 with no body; any 2xx/3xx counts as
	// validated capability.
	DefaultProbeURL      = "https://www.gstatic.com/generate_204"
	DefaultProbeTimeout  = 5 * time.Second
	DefaultProbeInterval = 30 * time.Second
)

// HTTPProbe returns a ProbeFunc that validates internet capability by
// issuing a real request against url.
func HTTPProbe(url string, timeout time.Duration) ProbeFunc {
	if url == "" {
		url = DefaultProbeURL
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return func(ctx context.Context) bool {
		var code int
		err := gout.GET(url).
			WithContext(ctx).
			SetTimeout(timeout).
			Code(&code).
			Do()
		return err == nil && code >= 200 && code < 400
	}
}

// Always returns a ProbeFunc pinned to a fixed state, for tests and
// for environments without a usable probe endpoint.
func Always(online bool) ProbeFunc {
	return func(context.Context) bool { return online }
}
