package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes one access line per request and puts a request-scoped
// logger on the context, retrievable with zerolog.Ctx.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lc := log.With().Str("request_id", chimw.GetReqID(r.Context()))
		if agent, ok := GetAgent(r.Context()); ok {
			lc = lc.Str("agent", agent.String())
		}
		logger := lc.Logger()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))

		status := statusOf(ww)
		logger.WithLevel(accessLevel(r.URL.Path, status)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// accessLevel picks the level of an access line. Profile failures reach
// the client as 5xx.
func accessLevel(path string, status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	case path == "/health":
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// statusOf reports the status sent through ww; handlers that only write a
// body send 200.
func statusOf(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}
