package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// UnknownIP is returned when no proxy header named a client address.
const UnknownIP = "0.0.0.0"

// ClientIP extracts the originating address from proxy-set headers, first
// present wins. Values are trusted as-is: the deployment sits behind a proxy
// that controls these headers, and the result is only ever hashed into a
// rate-limit key, never used for access decisions.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return UnknownIP
}

// HashIP digests an address so the ledger never stores raw IPs. The hash is
// deterministic, so the same address still correlates across rows; it only
// guards against casual exposure.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}
