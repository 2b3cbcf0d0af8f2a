package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aminovt/solvault/internal/utils"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID attaches a trace id to every request. An id supplied by the
// caller in the X-Trace-ID header is kept so multi-hop calls correlate;
// otherwise a new one is generated. The id is stamped onto the
// request-scoped logger and echoed back in the response header.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = utils.NewTraceID()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
