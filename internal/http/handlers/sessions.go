// Workout session HTTP handlers.
//
// Endpoints:
//   - PUT    /sessions/{id}       (create or update)
//   - GET    /sessions            (list, optional ?since=RFC3339)
//   - GET    /sessions/{id}       (session with sets)
//   - DELETE /sessions/{id}       (session and its sets)
//   - PUT    /sessions/{id}/sets  (create or update sets)
//   - GET    /sessions/{id}/sets
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/services"
)

// SaveSetsRequest is the JSON payload for PUT /sessions/{id}/sets.
type SaveSetsRequest struct {
	Sets []domain.SetLog `json:"sets" binding:"required"`
}

// WriteResponse reports the outcome of a local write.
type WriteResponse struct {
	ID string `json:"id" example:"s-42"`
	services.WriteResult
}

func writeResponse(id string, res services.WriteResult) WriteResponse {
	return WriteResponse{ID: id, WriteResult: res}
}

// SaveSession godoc
// @ID          saveSession
// @Summary     Create or update a workout session
// @Description Stores the session locally and queues it for sync once completed.
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string                 false  "Acting user"
// @Param       id         path    string                 true   "Session ID"
// @Param       body       body    domain.WorkoutSession  true   "Session"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /sessions/{id} [put]
func (h *Handlers) SaveSession(c *gin.Context) {
	var sess domain.WorkoutSession
	if err := c.ShouldBindJSON(&sess); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sess.ID = c.Param("id")
	res, err := h.log.SaveSession(c.Request.Context(), userID(c), &sess)
	if err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	ok(c, http.StatusOK, writeResponse(sess.ID, res))
}

// ListSessions godoc
// @ID          listSessions
// @Summary     List workout sessions
// @Tags        Sessions
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       since      query   string  false  "Only sessions started at or after (RFC3339)"
// @Success     200  {object}  handlers.ListResponse[domain.WorkoutSession]
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /sessions [get]
func (h *Handlers) ListSessions(c *gin.Context) {
	var since time.Time
	if s := c.Query("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "since must be RFC3339")
			return
		}
		since = t
	}
	rows, err := h.query.ListSessions(c.Request.Context(), userID(c), since)
	okList(c, rows, err, ErrCodeQueryFailed)
}

// GetSession godoc
// @ID          getSession
// @Summary     Get a session with its sets
// @Tags        Sessions
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Session ID"
// @Success     200  {object}  services.SessionDetail
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id} [get]
func (h *Handlers) GetSession(c *gin.Context) {
	d, err := h.query.GetSession(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeQueryFailed)
		return
	}
	ok(c, http.StatusOK, d)
}

// DeleteSession godoc
// @ID          deleteSession
// @Summary     Delete a session and its sets
// @Tags        Sessions
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Session ID"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id} [delete]
func (h *Handlers) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	res, err := h.log.DeleteSession(c.Request.Context(), userID(c), id)
	if err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	ok(c, http.StatusOK, writeResponse(id, res))
}

// SaveSets godoc
// @ID          saveSets
// @Summary     Create or update sets of a session
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string                    false  "Acting user"
// @Param       id         path    string                    true   "Session ID"
// @Param       body       body    handlers.SaveSetsRequest  true   "Sets"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/sets [put]
func (h *Handlers) SaveSets(c *gin.Context) {
	var req SaveSetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	id := c.Param("id")
	res, err := h.log.SaveSetLogs(c.Request.Context(), userID(c), id, req.Sets)
	if err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	ok(c, http.StatusOK, writeResponse(id, res))
}

// ListSets godoc
// @ID          listSets
// @Summary     List sets of a session
// @Tags        Sessions
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Session ID"
// @Success     200  {object}  handlers.ListResponse[domain.SetLog]
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/sets [get]
func (h *Handlers) ListSets(c *gin.Context) {
	rows, err := h.query.ListSetLogs(c.Request.Context(), userID(c), c.Param("id"))
	okList(c, rows, err, ErrCodeQueryFailed)
}
