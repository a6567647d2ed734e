package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// CompressConfig defines response compression options.
type CompressConfig struct {
	// MinSize is the smallest body, in bytes, that is compressed. Screenshots
	// and source dumps are large; envelopes for most commands are not.
	MinSize int
}

// DefaultCompressConfig returns the default compression configuration.
func DefaultCompressConfig() CompressConfig {
	return CompressConfig{MinSize: 1024}
}

// Compress wraps h so that responses of at least MinSize bytes are gzip
// encoded for clients that accept it. Bodyless responses pass through
// unchanged.
func Compress(cfg CompressConfig, h http.Handler) (http.Handler, error) {
	if cfg.MinSize <= 0 {
		cfg.MinSize = gzhttp.DefaultMinSize
	}
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(cfg.MinSize))
	if err != nil {
		return nil, err
	}
	return wrap(h), nil
}
