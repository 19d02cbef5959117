// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package checksum implements the keyed URL checksum scheme used to
// authenticate calls to and from the conferencing server API. The checksum is
// a hex digest of the API method name, the query string (with any existing
// checksum parameter removed) and a shared secret.
package checksum

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"net/url"
	"regexp"
	"strings"
)

// Algorithm identifies a supported digest algorithm.
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA384 Algorithm = "sha384"
	SHA512 Algorithm = "sha512"
)

// DefaultAPIPath is the conferencing server API mount point used to extract
// the method name from a URL when no explicit path is configured.
const DefaultAPIPath = "/bigbluebutton/api/"

// DefaultSupportedAlgorithms is the set of algorithms accepted for inbound
// checksum validation unless the caller narrows it.
var DefaultSupportedAlgorithms = []Algorithm{SHA1, SHA256, SHA384, SHA512}

var checksumParamRe = []*regexp.Regexp{
	regexp.MustCompile(`&checksum=[^&]*`),
	regexp.MustCompile(`checksum=[^&]*&`),
	regexp.MustCompile(`checksum=[^&]*$`),
}

// newHash returns a hash.Hash for the given algorithm.
func newHash(algo Algorithm) (hash.Hash, error) {
	switch algo {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported checksum algorithm: %s", algo)
	}
}

// algorithmFromLength infers the digest algorithm from the hex length of a
// checksum. It returns an error when the length matches no known algorithm.
func algorithmFromLength(length int) (Algorithm, error) {
	switch length {
	case 40:
		return SHA1, nil
	case 64:
		return SHA256, nil
	case 96:
		return SHA384, nil
	case 128:
		return SHA512, nil
	default:
		return "", fmt.Errorf("no algorithm matches the provided checksum length: %d", length)
	}
}

// queryFromURL returns the raw query string of a URL with any checksum
// parameter stripped, preserving the encoding and ordering of the remaining
// parameters.
func queryFromURL(fullURL string) string {
	stripped := fullURL
	for _, re := range checksumParamRe {
		stripped = re.ReplaceAllString(stripped, "")
	}
	if idx := strings.Index(stripped, "?"); idx != -1 {
		return stripped[idx+1:]
	}
	return ""
}

// methodFromURL returns the API method component of a URL, i.e. the request
// path with the API mount point removed.
func methodFromURL(fullURL, apiPath string) (string, error) {
	parsed, err := url.Parse(fullURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if apiPath == "" {
		apiPath = DefaultAPIPath
	}
	return strings.TrimPrefix(parsed.Path, apiPath), nil
}

// Compute calculates the checksum of a URL using the shared secret and the
// requested algorithm. The apiPath argument is the conferencing server API
// mount point; pass "" to use DefaultAPIPath.
func Compute(fullURL, apiPath, secret string, algo Algorithm) (string, error) {
	method, err := methodFromURL(fullURL, apiPath)
	if err != nil {
		return "", err
	}
	query := queryFromURL(fullURL)

	h, err := newHash(algo)
	if err != nil {
		return "", err
	}
	h.Write([]byte(method + query + secret))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Validate checks the checksum parameter of a URL against the shared secret.
// The algorithm is inferred from the checksum length and must be included in
// the supported set. Validation is a pure function of the URL and secret.
func Validate(fullURL, apiPath, secret string, supported []Algorithm) error {
	parsed, err := url.Parse(fullURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	provided := parsed.Query().Get("checksum")
	if provided == "" {
		return fmt.Errorf("missing checksum parameter")
	}

	algo, err := algorithmFromLength(len(provided))
	if err != nil {
		return err
	}

	if !isSupported(algo, supported) {
		return fmt.Errorf("checksum algorithm %s is not supported", algo)
	}

	expected, err := Compute(fullURL, apiPath, secret, algo)
	if err != nil {
		return err
	}

	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return fmt.Errorf("invalid checksum")
	}

	return nil
}

func isSupported(algo Algorithm, supported []Algorithm) bool {
	for _, s := range supported {
		if s == algo {
			return true
		}
	}
	return false
}
