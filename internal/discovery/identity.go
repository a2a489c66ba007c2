package discovery

import (
	"crypto/md5" //nolint:gosec // job ids are a dedup key, not a security boundary
	"encoding/hex"
	"net/url"
	"strings"
)

// jobIDLength is the number of hex characters kept from the digest.
const jobIDLength = 12

// CanonicalURL normalizes a job URL for identity: scheme and host lowercased,
// fragment and trailing slash dropped. Query strings are kept because some boards
// identify postings by query parameter.
func CanonicalURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return strings.TrimRight(trimmed, "/")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	parsed.RawPath = ""
	return parsed.String()
}

// JobID is the first 12 hex characters of the MD5 of the canonical URL.
func JobID(rawURL string) string {
	sum := md5.Sum([]byte(CanonicalURL(rawURL))) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])[:jobIDLength]
}

// ResolveURL resolves ref against base. Unresolvable refs are returned trimmed.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Host == "" {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
