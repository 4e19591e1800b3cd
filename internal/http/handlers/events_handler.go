package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	applog "storefront/internal/log"
	"storefront/internal/session"
	"storefront/internal/views"
)

// DefaultHeartbeat is how often an idle event stream is pinged. The ping
// also keeps the session from being evicted while a page is open.
const DefaultHeartbeat = 15 * time.Second

type EventsHandler struct {
	Sessions  *session.Manager
	Heartbeat time.Duration // zero means DefaultHeartbeat
}

// Stream pushes a header snapshot to the page every time the visitor's cart
// or login changes, so other open tabs stay in step.
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	s := current(c)
	reqID, _ := c.Locals("requestid").(string)
	beat := h.Heartbeat
	if beat <= 0 {
		beat = DefaultHeartbeat
	}

	changed := make(chan views.Header, 1)
	watch := views.WatchHeader(s.Store, s.Bus, func(hd views.Header) {
		// Only the newest snapshot matters.
		select {
		case <-changed:
		default:
		}
		select {
		case changed <- hd:
		default:
		}
	})

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer watch.Close()
		ticker := time.NewTicker(beat)
		defer ticker.Stop()

		if err := writeHeader(w, watch.Current()); err != nil {
			return
		}
		for {
			select {
			case hd := <-changed:
				if err := writeHeader(w, hd); err != nil {
					return
				}
			case <-ticker.C:
				h.Sessions.Touch(s.Origin)
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					applog.Info(nil, "events.closed", map[string]any{"req_id": reqID, "origin": s.Origin})
					return
				}
			}
		}
	}))
	return nil
}

func writeHeader(w *bufio.Writer, hd views.Header) error {
	b, err := json.Marshal(hd)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: header\ndata: %s\n\n", b); err != nil {
		return err
	}
	return w.Flush()
}
