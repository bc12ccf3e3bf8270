package util

import (
	"maps"
	"strings"
)

// CloneHeaders returns a shallow copy of h, or an empty map when h is nil.
// The upload pipeline injects entries (content-length) into the request
// header map; cloning keeps the caller's map untouched.
func CloneHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h)+1)
	maps.Copy(out, h)
	return out
}

// MergeHeaders returns base with every entry of override applied on top.
// Neither input is mutated.
func MergeHeaders(base, override map[string]string) map[string]string {
	out := CloneHeaders(base)
	maps.Copy(out, override)
	return out
}

// HeaderValue performs a case-insensitive lookup in a header map. HTTP
// header names are case-insensitive on the wire but callers supply plain
// string maps.
func HeaderValue(h map[string]string, name string) (string, bool) {
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
