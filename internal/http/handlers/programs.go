// Training program HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/repo"
)

// SaveProgramRequest is the JSON payload for PUT /programs/{id}. When
// Exercises is present it replaces the program's exercise list; when omitted
// the exercises are left unchanged.
type SaveProgramRequest struct {
	Program   domain.Program           `json:"program"`
	Exercises []domain.ProgramExercise `json:"exercises"`
}

// ProgramResponse is a program detail with an optional decode warning.
type ProgramResponse struct {
	Program   domain.Program           `json:"program"`
	Exercises []domain.ProgramExercise `json:"exercises"`
	Progress  []domain.ProgramProgress `json:"progress"`
	Warnings  []string                 `json:"warnings,omitempty"`
}

// SaveProgram godoc
// @ID          saveProgram
// @Summary     Create or update a program
// @Tags        Programs
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string                       false  "Acting user"
// @Param       id         path    string                       true   "Program ID"
// @Param       body       body    handlers.SaveProgramRequest  true   "Program and exercises"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /programs/{id} [put]
func (h *Handlers) SaveProgram(c *gin.Context) {
	var req SaveProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	req.Program.ID = c.Param("id")
	res, err := h.log.SaveProgram(c.Request.Context(), userID(c), &req.Program, req.Exercises)
	if err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	ok(c, http.StatusOK, writeResponse(req.Program.ID, res))
}

// ListPrograms godoc
// @ID          listPrograms
// @Summary     List programs
// @Tags        Programs
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Success     200  {object}  handlers.ListResponse[domain.Program]
// @Router      /programs [get]
func (h *Handlers) ListPrograms(c *gin.Context) {
	rows, err := h.query.ListPrograms(c.Request.Context(), userID(c))
	okList(c, rows, err, ErrCodeQueryFailed)
}

// GetProgram godoc
// @ID          getProgram
// @Summary     Get a program with exercises and progress
// @Tags        Programs
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Program ID"
// @Success     200  {object}  handlers.ProgramResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /programs/{id} [get]
func (h *Handlers) GetProgram(c *gin.Context) {
	d, err := h.query.GetProgram(c.Request.Context(), userID(c), c.Param("id"))
	if d == nil {
		failErr(c, err, ErrCodeQueryFailed)
		return
	}
	resp := ProgramResponse{Program: d.Program, Exercises: d.Exercises, Progress: d.Progress}
	if err != nil && repo.IsDeserialization(err) {
		resp.Warnings = []string{err.Error()}
	}
	ok(c, http.StatusOK, resp)
}

// DeleteProgram godoc
// @ID          deleteProgram
// @Summary     Delete a program
// @Description Removes the program with its exercises and progress; derived programs are detached.
// @Tags        Programs
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Program ID"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /programs/{id} [delete]
func (h *Handlers) DeleteProgram(c *gin.Context) {
	id := c.Param("id")
	res, err := h.log.DeleteProgram(c.Request.Context(), userID(c), id)
	if err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	ok(c, http.StatusOK, writeResponse(id, res))
}
