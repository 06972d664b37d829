// Account and preference HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// SignOutRequest is the JSON payload for POST /account/signout.
type SignOutRequest struct {
	// WipeQueue discards unsynced writes. Defaults to false, keeping them
	// for the next sign-in.
	WipeQueue bool `json:"wipe_queue" example:"false"`
}

// UIStateRequest is the JSON payload for PUT /ui-state/{key}.
type UIStateRequest struct {
	Value string `json:"value" example:"history"`
}

// UIStateResponse is a stored UI state entry.
type UIStateResponse struct {
	Key   string `json:"key"   example:"last_tab"`
	Value string `json:"value" example:"history"`
}

// SignOut godoc
// @ID          signOut
// @Summary     Sign the current user out
// @Description Disables sync, clears UI state and cached queries, and optionally discards the sync queue.
// @Tags        Account
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string                   false  "Acting user"
// @Param       body       body    handlers.SignOutRequest  false  "Options"
// @Success     200  {object}  services.SignOutResult
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /account/signout [post]
func (h *Handlers) SignOut(c *gin.Context) {
	var req SignOutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	res, err := h.account.SignOut(c.Request.Context(), userID(c), req.WipeQueue)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, res)
}

// SignIn godoc
// @ID          signIn
// @Summary     Resume sync for the current user
// @Tags        Account
// @Param       X-User-ID  header  string  false  "Acting user"
// @Success     204
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /account/signin [post]
func (h *Handlers) SignIn(c *gin.Context) {
	if err := h.account.SignIn(c.Request.Context(), userID(c)); err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

// SavePreferences godoc
// @ID          savePreferences
// @Summary     Store user preferences
// @Tags        Account
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string                 false  "Acting user"
// @Param       body       body    domain.UserPreference  true   "Preferences"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /preferences [put]
func (h *Handlers) SavePreferences(c *gin.Context) {
	var p domain.UserPreference
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res, err := h.log.SavePreferences(c.Request.Context(), userID(c), &p)
	if err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	ok(c, http.StatusOK, writeResponse(p.ID, res))
}

// PutUIState godoc
// @ID          putUIState
// @Summary     Store a UI state value
// @Tags        Account
// @Accept      json
// @Param       X-User-ID  header  string                   false  "Acting user"
// @Param       key        path    string                   true   "State key"
// @Param       body       body    handlers.UIStateRequest  true   "Value"
// @Success     204
// @Router      /ui-state/{key} [put]
func (h *Handlers) PutUIState(c *gin.Context) {
	var req UIStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.account.PutUIState(c.Request.Context(), userID(c), c.Param("key"), req.Value); err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	noContent(c)
}

// GetUIState godoc
// @ID          getUIState
// @Summary     Read a UI state value
// @Tags        Account
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       key        path    string  true   "State key"
// @Success     200  {object}  handlers.UIStateResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /ui-state/{key} [get]
func (h *Handlers) GetUIState(c *gin.Context) {
	key := c.Param("key")
	v, err := h.account.GetUIState(c.Request.Context(), userID(c), key)
	if err != nil {
		failErr(c, err, ErrCodeQueryFailed)
		return
	}
	ok(c, http.StatusOK, UIStateResponse{Key: key, Value: v})
}
