// Package requestip resolves the client IP used as a rate-limit key.
// Forwarded headers are attacker-controlled unless the direct peer is a
// proxy we operate, so they are consulted only for trusted peers.
package requestip

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// forwardHeaders are consulted in order once the peer is trusted. The
// leftmost parseable X-Forwarded-For entry wins.
var forwardHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// ParseTrustedProxyCIDRs parses a comma-separated CIDR list, as supplied
// via TRUSTED_PROXY_CIDRS. An empty value means no proxy is trusted.
func ParseTrustedProxyCIDRs(value string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(part)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q: %w", part, err)
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}

// ClientIP returns the request's client IP. When the connection peer falls
// inside a trusted proxy range the forwarded headers are honored; otherwise
// the peer address itself is the answer.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer, ok := parseHost(r.RemoteAddr)
	if !ok {
		return strings.TrimSpace(r.RemoteAddr)
	}
	if !containsAddr(trusted, peer) {
		return peer.String()
	}

	for _, name := range forwardHeaders {
		for _, entry := range strings.Split(r.Header.Get(name), ",") {
			if addr, ok := parseHost(entry); ok {
				return addr.String()
			}
		}
	}
	return peer.String()
}

func containsAddr(prefixes []netip.Prefix, addr netip.Addr) bool {
	for _, prefix := range prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// parseHost accepts a bare IP, host:port, or a bracketed IPv6 form.
func parseHost(value string) (netip.Addr, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return netip.Addr{}, false
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}
	addr, err := netip.ParseAddr(strings.Trim(value, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr, true
}
