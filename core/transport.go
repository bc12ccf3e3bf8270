package core

import "time"

// DefaultAttemptTimeout bounds a single PUT attempt. Exceeding it is treated
// like any other transient transfer failure.
const DefaultAttemptTimeout = 5 * time.Minute

// TransportOptions tune the HTTP transport used for PUT attempts. The zero
// value is not usable directly; start from DefaultTransportOptions and apply
// overrides via Merge.
type TransportOptions struct {
	// AttemptTimeout bounds one PUT attempt including connect, send and
	// response drain.
	AttemptTimeout time.Duration

	// MaxIdleConns caps idle keep-alive connections on the transport.
	MaxIdleConns int

	// ProxyURL, when set, routes attempts through the given HTTP proxy.
	ProxyURL string

	// InsecureSkipVerify disables TLS certificate verification. Intended for
	// local object-store emulators only.
	InsecureSkipVerify bool
}

// DefaultTransportOptions are the client-level transport defaults.
var DefaultTransportOptions = TransportOptions{
	AttemptTimeout: DefaultAttemptTimeout,
	MaxIdleConns:   16,
}

// Merge returns base with every non-zero field of override applied on top.
// A nil override returns base unchanged.
func (base TransportOptions) Merge(override *TransportOptions) TransportOptions {
	if override == nil {
		return base
	}
	out := base
	if override.AttemptTimeout > 0 {
		out.AttemptTimeout = override.AttemptTimeout
	}
	if override.MaxIdleConns > 0 {
		out.MaxIdleConns = override.MaxIdleConns
	}
	if override.ProxyURL != "" {
		out.ProxyURL = override.ProxyURL
	}
	if override.InsecureSkipVerify {
		out.InsecureSkipVerify = true
	}
	return out
}
