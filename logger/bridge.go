package logger

import (
	"log"
	"strings"
)

// serverWriter implements io.Writer to redirect an *http.Server's error
// log (TLS handshake failures, panics recovered by the server, etc.)
// through this package instead of directly to stderr.
type serverWriter struct{}

func (serverWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return len(p), nil
	}
	switch {
	case strings.Contains(msg, "TLS") || strings.Contains(msg, "tls"):
		Warn("http server: %s", msg)
	case strings.Contains(msg, "error") || strings.Contains(msg, "Error"):
		Error("http server: %s", msg)
	default:
		Info("http server: %s", msg)
	}
	return len(p), nil
}

// SetHTTPServerErrorLog returns a *log.Logger suitable for
// http.Server.ErrorLog that routes every line through this package at
// the appropriate level.
func SetHTTPServerErrorLog() *log.Logger {
	return log.New(serverWriter{}, "", 0)
}
