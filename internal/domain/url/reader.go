// Package url provides URL manipulation utilities for reading mode.
package url

import (
	"fmt"
	neturl "net/url"
	"strings"
)

// readerPrefix marks a URL as the extracted-readable-content variant
// of an original page URL.
const readerPrefix = "about:reader?url="

// EncodeReader returns the reader-encoded form of an original page URL.
func EncodeReader(original string) string {
	return readerPrefix + neturl.QueryEscape(original)
}

// DecodeReader returns the original URL embedded in a reader-encoded URL.
// It fails if raw is not reader-encoded or the embedded URL is malformed.
func DecodeReader(raw string) (string, error) {
	if !IsReader(raw) {
		return "", fmt.Errorf("not a reader url: %q", raw)
	}
	original, err := neturl.QueryUnescape(strings.TrimPrefix(raw, readerPrefix))
	if err != nil {
		return "", fmt.Errorf("decode reader url: %w", err)
	}
	if original == "" {
		return "", fmt.Errorf("reader url has empty target: %q", raw)
	}
	return original, nil
}

// IsReader reports whether raw is a reader-encoded URL.
func IsReader(raw string) bool {
	return strings.HasPrefix(raw, readerPrefix)
}

// IsReaderOf reports whether raw is the reader-encoded form of original.
func IsReaderOf(raw, original string) bool {
	decoded, err := DecodeReader(raw)
	if err != nil {
		return false
	}
	return decoded == original
}
