package middleware

import (
	"compress/gzip"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Compression encodes responses with brotli when the client accepts it and
// with gzip otherwise. Empty bodies are left untouched.
func (m *Middleware) Compression() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.config.Server.EnableCompression {
			c.Next()
			return
		}

		encoding := negotiateEncoding(c.GetHeader("Accept-Encoding"))
		if encoding == "" {
			c.Next()
			return
		}

		cw := &compressWriter{ResponseWriter: c.Writer, encoding: encoding}
		c.Writer = cw
		defer cw.Close()

		c.Next()
	}
}

func negotiateEncoding(accept string) string {
	accept = strings.ToLower(accept)
	switch {
	case strings.Contains(accept, "br"):
		return "br"
	case strings.Contains(accept, "gzip"):
		return "gzip"
	default:
		return ""
	}
}

type compressWriter struct {
	gin.ResponseWriter
	encoding string
	encoder  io.WriteCloser
}

func (w *compressWriter) Write(data []byte) (int, error) {
	if w.encoder == nil {
		h := w.Header()
		h.Set("Content-Encoding", w.encoding)
		h.Add("Vary", "Accept-Encoding")
		h.Del("Content-Length")

		if w.encoding == "br" {
			w.encoder = brotli.NewWriterLevel(w.ResponseWriter, brotli.DefaultCompression)
		} else {
			w.encoder = gzip.NewWriter(w.ResponseWriter)
		}
	}
	return w.encoder.Write(data)
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *compressWriter) Close() error {
	if w.encoder == nil {
		return nil
	}
	return w.encoder.Close()
}
