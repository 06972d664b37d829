// Sync control HTTP handlers: status, manual trigger, queue inspection and
// the platform callbacks that feed the connectivity monitor.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/http/middleware"
)

// SyncStatus is the observable state of the sync processor.
type SyncStatus struct {
	IsSyncing   bool `json:"is_syncing"`
	QueueLength int  `json:"queue_length"`
	Online      bool `json:"online"`
	Enabled     bool `json:"enabled"`
}

// ConnectivityRequest is the OS reachability callback payload.
type ConnectivityRequest struct {
	Online *bool `json:"online" binding:"required"`
}

// ConnectivityResponse reports the recorded state.
type ConnectivityResponse struct {
	Online       bool `json:"online"`
	BecameOnline bool `json:"became_online"`
}

// ClearQueueResponse reports how many items were discarded.
type ClearQueueResponse struct {
	Discarded int64 `json:"discarded"`
}

func (h *Handlers) status(c *gin.Context) SyncStatus {
	return SyncStatus{
		IsSyncing:   h.sync.IsSyncing(),
		QueueLength: h.sync.RefreshLength(c.Request.Context()),
		Online:      h.conn.Online(),
		Enabled:     h.sync.Enabled(),
	}
}

// GetSyncStatus godoc
// @ID          syncStatus
// @Summary     Sync processor status
// @Tags        Sync
// @Produce     json
// @Success     200  {object}  handlers.SyncStatus
// @Router      /sync/status [get]
func (h *Handlers) GetSyncStatus(c *gin.Context) {
	ok(c, http.StatusOK, h.status(c))
}

// TriggerSync godoc
// @ID          triggerSync
// @Summary     Request a drain of the sync queue
// @Description Without wait the drain is scheduled and 202 is returned. With wait=true the drain runs inline and its result is returned.
// @Tags        Sync
// @Produce     json
// @Param       wait  query  bool  false  "Run the drain inline"
// @Success     200  {object}  processor.DrainResult
// @Success     202  {object}  handlers.SyncStatus
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /sync/trigger [post]
func (h *Handlers) TriggerSync(c *gin.Context) {
	if c.Query("wait") != "true" {
		h.sync.Trigger()
		ok(c, http.StatusAccepted, h.status(c))
		return
	}
	res, err := h.sync.Drain(c.Request.Context())
	if err != nil {
		failErr(c, err, ErrCodeQueueFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// ListQueue godoc
// @ID          listQueue
// @Summary     Pending sync items in FIFO order
// @Tags        Sync
// @Produce     json
// @Success     200  {object}  handlers.ListResponse[domain.SyncQueueItem]
// @Router      /sync/queue [get]
func (h *Handlers) ListQueue(c *gin.Context) {
	items, err := h.queue.ListPending(c.Request.Context())
	if err != nil {
		failErr(c, err, ErrCodeQueueFailed)
		return
	}
	if items == nil {
		items = []domain.SyncQueueItem{}
	}
	ok(c, http.StatusOK, ListResponse[domain.SyncQueueItem]{Items: items})
}

// ClearQueue godoc
// @ID          clearQueue
// @Summary     Discard every pending sync item
// @Tags        Sync
// @Produce     json
// @Success     200  {object}  handlers.ClearQueueResponse
// @Router      /sync/queue [delete]
func (h *Handlers) ClearQueue(c *gin.Context) {
	n, err := h.queue.Clear(c.Request.Context())
	if err != nil {
		failErr(c, err, ErrCodeQueueFailed)
		return
	}
	h.sync.RefreshLength(c.Request.Context())
	lg := middleware.LoggerFrom(c)
	lg.Warn().Int64("discarded", n).Msg("sync_queue_cleared")
	ok(c, http.StatusOK, ClearQueueResponse{Discarded: n})
}

// SetConnectivity godoc
// @ID          setConnectivity
// @Summary     Report OS network reachability
// @Description An offline to online transition wakes the sync processor.
// @Tags        Sync
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.ConnectivityRequest  true  "Reachability"
// @Success     200  {object}  handlers.ConnectivityResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /connectivity [post]
func (h *Handlers) SetConnectivity(c *gin.Context) {
	var req ConnectivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "online is required")
		return
	}
	became := h.conn.Set(*req.Online)
	ok(c, http.StatusOK, ConnectivityResponse{Online: *req.Online, BecameOnline: became})
}

// Foreground godoc
// @ID          foreground
// @Summary     App returned to the foreground
// @Description Re-probes reachability and requests a drain.
// @Tags        Sync
// @Produce     json
// @Success     200  {object}  handlers.SyncStatus
// @Router      /lifecycle/foreground [post]
func (h *Handlers) Foreground(c *gin.Context) {
	h.conn.Foreground(c.Request.Context())
	h.sync.Trigger()
	ok(c, http.StatusOK, h.status(c))
}
