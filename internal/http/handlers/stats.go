// Statistics HTTP handlers. All aggregates are served from the query cache
// when fresh.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fitness-sync/internal/repo"
)

// RecordResponse is the personal record of one exercise plus its recent
// per-session history.
type RecordResponse struct {
	ExerciseID string               `json:"exercise_id" example:"bench-press"`
	BestWeight float64              `json:"best_weight" example:"102.5"`
	History    []repo.ExercisePoint `json:"history"`
}

// queryInt parses an optional integer query parameter. ok is false when the
// value is present but not a number.
func queryInt(c *gin.Context, name string, def int) (n int, ok bool) {
	s := c.Query(name)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Volume godoc
// @ID          statsVolume
// @Summary     Training volume per day
// @Tags        Stats
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       days       query   int     false  "Window in days"  default(7)
// @Success     200  {array}   repo.DailyTotal
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /stats/volume [get]
func (h *Handlers) Volume(c *gin.Context) {
	days, valid := queryInt(c, "days", 0)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "days must be an integer")
		return
	}
	out, err := h.stats.Volume(c.Request.Context(), userID(c), days)
	if err != nil {
		failErr(c, err, ErrCodeQueryFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// Frequency godoc
// @ID          statsFrequency
// @Summary     Sessions per day
// @Tags        Stats
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       days       query   int     false  "Window in days"  default(7)
// @Success     200  {array}   repo.DailyTotal
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /stats/frequency [get]
func (h *Handlers) Frequency(c *gin.Context) {
	days, valid := queryInt(c, "days", 0)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "days must be an integer")
		return
	}
	out, err := h.stats.Frequency(c.Request.Context(), userID(c), days)
	if err != nil {
		failErr(c, err, ErrCodeQueryFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// Streaks godoc
// @ID          statsStreaks
// @Summary     Current and longest training streak
// @Tags        Stats
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Success     200  {object}  repo.Streaks
// @Router      /stats/streaks [get]
func (h *Handlers) Streaks(c *gin.Context) {
	out, err := h.stats.Streaks(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeQueryFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// Record godoc
// @ID          statsRecord
// @Summary     Personal record and history of an exercise
// @Tags        Stats
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       exercise   path    string  true   "Exercise ID"
// @Param       limit      query   int     false  "History length"  default(10)
// @Success     200  {object}  handlers.RecordResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /stats/records/{exercise} [get]
func (h *Handlers) Record(c *gin.Context) {
	limit, valid := queryInt(c, "limit", 10)
	if !valid || limit < 1 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit must be a positive integer")
		return
	}
	ctx, uid, ex := c.Request.Context(), userID(c), c.Param("exercise")
	best, err := h.stats.PersonalRecord(ctx, uid, ex)
	if err != nil {
		failErr(c, err, ErrCodeQueryFailed)
		return
	}
	hist, err := h.stats.History(ctx, uid, ex, limit)
	if err != nil {
		failErr(c, err, ErrCodeQueryFailed)
		return
	}
	if hist == nil {
		hist = []repo.ExercisePoint{}
	}
	ok(c, http.StatusOK, RecordResponse{ExerciseID: ex, BestWeight: best, History: hist})
}
