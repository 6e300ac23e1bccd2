package httptransport

import (
	"net/http"
	"strings"

	"bracket-arbiter/internal/events"
)

// EventFeed replays buffered events as JSON, or streams them as SSE when the
// client asks for text/event-stream. Last-Event-ID (or ?after=) resumes the
// stream past already-seen events.
func (h *Handlers) EventFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after := r.URL.Query().Get("after")
		if after == "" {
			after = r.Header.Get("Last-Event-ID")
		}

		if !strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
			writeJSON(w, map[string]any{"items": h.events.ReplayAfter(after)})
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "streaming_unsupported")
			return
		}
		events.SetSSEHeaders(w)
		w.WriteHeader(http.StatusOK)

		for _, ev := range h.events.ReplayAfter(after) {
			if err := events.WriteSSE(w, ev); err != nil {
				return
			}
		}
		flusher.Flush()

		ch, cancel := h.events.Watch()
		defer cancel()
		for {
			select {
			case <-r.Context().Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if err := events.WriteSSE(w, ev); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
