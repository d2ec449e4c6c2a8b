package tei

import (
	"fmt"
	"io"
	"net/url"
	"strings"
)

// maxSourceSize is the largest edition NewReader accepts: 256 MB.
const maxSourceSize int64 = 256 * 1024 * 1024

// readSource reads at most maxSourceSize bytes of XML from r and drops a
// leading UTF-8 byte order mark.
func readSource(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSourceSize+1))
	if err != nil {
		return nil, fmt.Errorf("tei: read source: %w", err)
	}
	if int64(len(data)) > maxSourceSize {
		return nil, fmt.Errorf("tei: source exceeds %d bytes: %w", maxSourceSize, ErrInvalidTEI)
	}
	return stripBOM(data), nil
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// isSafeLink reports whether a link target taken from the source may be
// emitted as an anchor href: relative references, fragments and the http,
// https and mailto schemes.
func isSafeLink(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" || strings.HasPrefix(v, "#") || strings.HasPrefix(v, "/") || strings.HasPrefix(v, ".") {
		return true
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return true
	}
	return false
}
