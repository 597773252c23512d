package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/carcare/internal/server/writequeue"
)

// QueueStats reports write-queue state; the Queue itself satisfies it.
type QueueStats interface {
	Stats() writequeue.Stats
}

// QueueHandler exposes the pending counter and the recent-failures log.
// This is the only place a caller can learn that an accepted write
// later failed.
type QueueHandler struct {
	Queue QueueStats
}

func (h *QueueHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Queue.Stats())
}
