// Handlers for the remaining user records: templates, gyms with their
// equipment, body measurements, goals and achievements.
//
// Every resource follows the same shape:
//   - PUT    /{resource}/{id}  (create or update, queued for sync)
//   - GET    /{resource}       (list)
//   - DELETE /{resource}/{id}
//
// Gyms also have GET /gyms/{id}, returning the gym with its equipment.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/services"
)

// SaveGymRequest is the JSON payload for PUT /gyms/{id}. When Equipment is
// present it replaces the gym's equipment list; when omitted the equipment
// is left unchanged.
type SaveGymRequest struct {
	Gym       domain.Gym            `json:"gym"`
	Equipment []domain.GymEquipment `json:"equipment"`
}

// saveRecord binds a record of T, stamps the path id and calls save.
func saveRecord[T any](c *gin.Context, setID func(*T, string), save func(*gin.Context, *T) (services.WriteResult, error)) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	id := c.Param("id")
	setID(&rec, id)
	res, err := save(c, &rec)
	if err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	ok(c, http.StatusOK, writeResponse(id, res))
}

// deleteRecord calls del with the path id.
func deleteRecord(c *gin.Context, del func(c *gin.Context, id string) (services.WriteResult, error)) {
	id := c.Param("id")
	res, err := del(c, id)
	if err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	ok(c, http.StatusOK, writeResponse(id, res))
}

// SaveTemplate godoc
// @ID          saveTemplate
// @Summary     Create or update a workout template
// @Tags        Templates
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string           false  "Acting user"
// @Param       id         path    string           true   "Template ID"
// @Param       body       body    domain.Template  true   "Template"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /templates/{id} [put]
func (h *Handlers) SaveTemplate(c *gin.Context) {
	saveRecord(c,
		func(t *domain.Template, id string) { t.ID = id },
		func(c *gin.Context, t *domain.Template) (services.WriteResult, error) {
			return h.log.SaveTemplate(c.Request.Context(), userID(c), t)
		})
}

// ListTemplates godoc
// @ID          listTemplates
// @Summary     List workout templates
// @Tags        Templates
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Success     200  {object}  handlers.ListResponse[domain.Template]
// @Router      /templates [get]
func (h *Handlers) ListTemplates(c *gin.Context) {
	rows, err := h.query.ListTemplates(c.Request.Context(), userID(c))
	okList(c, rows, err, ErrCodeQueryFailed)
}

// DeleteTemplate godoc
// @ID          deleteTemplate
// @Summary     Delete a workout template
// @Tags        Templates
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Template ID"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /templates/{id} [delete]
func (h *Handlers) DeleteTemplate(c *gin.Context) {
	deleteRecord(c, func(c *gin.Context, id string) (services.WriteResult, error) {
		return h.log.DeleteTemplate(c.Request.Context(), userID(c), id)
	})
}

// SaveGym godoc
// @ID          saveGym
// @Summary     Create or update a gym
// @Tags        Gyms
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string                   false  "Acting user"
// @Param       id         path    string                   true   "Gym ID"
// @Param       body       body    handlers.SaveGymRequest  true   "Gym and equipment"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /gyms/{id} [put]
func (h *Handlers) SaveGym(c *gin.Context) {
	var req SaveGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	req.Gym.ID = c.Param("id")
	res, err := h.log.SaveGym(c.Request.Context(), userID(c), &req.Gym, req.Equipment)
	if err != nil {
		failErr(c, err, ErrCodeWriteFailed)
		return
	}
	ok(c, http.StatusOK, writeResponse(req.Gym.ID, res))
}

// ListGyms godoc
// @ID          listGyms
// @Summary     List gyms
// @Tags        Gyms
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Success     200  {object}  handlers.ListResponse[domain.Gym]
// @Router      /gyms [get]
func (h *Handlers) ListGyms(c *gin.Context) {
	rows, err := h.query.ListGyms(c.Request.Context(), userID(c))
	okList(c, rows, err, ErrCodeQueryFailed)
}

// GetGym godoc
// @ID          getGym
// @Summary     Get a gym with its equipment
// @Tags        Gyms
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Gym ID"
// @Success     200  {object}  services.GymDetail
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /gyms/{id} [get]
func (h *Handlers) GetGym(c *gin.Context) {
	d, err := h.query.GetGym(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeQueryFailed)
		return
	}
	ok(c, http.StatusOK, d)
}

// DeleteGym godoc
// @ID          deleteGym
// @Summary     Delete a gym and its equipment
// @Tags        Gyms
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Gym ID"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /gyms/{id} [delete]
func (h *Handlers) DeleteGym(c *gin.Context) {
	deleteRecord(c, func(c *gin.Context, id string) (services.WriteResult, error) {
		return h.log.DeleteGym(c.Request.Context(), userID(c), id)
	})
}

// SaveMeasurement godoc
// @ID          saveMeasurement
// @Summary     Record a body measurement
// @Tags        Measurements
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string              false  "Acting user"
// @Param       id         path    string              true   "Measurement ID"
// @Param       body       body    domain.Measurement  true   "Measurement"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /measurements/{id} [put]
func (h *Handlers) SaveMeasurement(c *gin.Context) {
	saveRecord(c,
		func(m *domain.Measurement, id string) { m.ID = id },
		func(c *gin.Context, m *domain.Measurement) (services.WriteResult, error) {
			return h.log.SaveMeasurement(c.Request.Context(), userID(c), m)
		})
}

// ListMeasurements godoc
// @ID          listMeasurements
// @Summary     List body measurements, newest first
// @Tags        Measurements
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       metric     query   string  false  "Only this metric (e.g. weight)"
// @Success     200  {object}  handlers.ListResponse[domain.Measurement]
// @Router      /measurements [get]
func (h *Handlers) ListMeasurements(c *gin.Context) {
	rows, err := h.query.ListMeasurements(c.Request.Context(), userID(c), c.Query("metric"))
	okList(c, rows, err, ErrCodeQueryFailed)
}

// DeleteMeasurement godoc
// @ID          deleteMeasurement
// @Summary     Delete a body measurement
// @Tags        Measurements
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Measurement ID"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /measurements/{id} [delete]
func (h *Handlers) DeleteMeasurement(c *gin.Context) {
	deleteRecord(c, func(c *gin.Context, id string) (services.WriteResult, error) {
		return h.log.DeleteMeasurement(c.Request.Context(), userID(c), id)
	})
}

// SaveGoal godoc
// @ID          saveGoal
// @Summary     Create or update a goal
// @Tags        Goals
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string       false  "Acting user"
// @Param       id         path    string       true   "Goal ID"
// @Param       body       body    domain.Goal  true   "Goal"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /goals/{id} [put]
func (h *Handlers) SaveGoal(c *gin.Context) {
	saveRecord(c,
		func(g *domain.Goal, id string) { g.ID = id },
		func(c *gin.Context, g *domain.Goal) (services.WriteResult, error) {
			return h.log.SaveGoal(c.Request.Context(), userID(c), g)
		})
}

// ListGoals godoc
// @ID          listGoals
// @Summary     List goals, open goals first
// @Tags        Goals
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Success     200  {object}  handlers.ListResponse[domain.Goal]
// @Router      /goals [get]
func (h *Handlers) ListGoals(c *gin.Context) {
	rows, err := h.query.ListGoals(c.Request.Context(), userID(c))
	okList(c, rows, err, ErrCodeQueryFailed)
}

// DeleteGoal godoc
// @ID          deleteGoal
// @Summary     Delete a goal
// @Tags        Goals
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Goal ID"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /goals/{id} [delete]
func (h *Handlers) DeleteGoal(c *gin.Context) {
	deleteRecord(c, func(c *gin.Context, id string) (services.WriteResult, error) {
		return h.log.DeleteGoal(c.Request.Context(), userID(c), id)
	})
}

// SaveAchievement godoc
// @ID          saveAchievement
// @Summary     Record an unlocked achievement
// @Tags        Achievements
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string              false  "Acting user"
// @Param       id         path    string              true   "Achievement ID"
// @Param       body       body    domain.Achievement  true   "Achievement"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /achievements/{id} [put]
func (h *Handlers) SaveAchievement(c *gin.Context) {
	saveRecord(c,
		func(a *domain.Achievement, id string) { a.ID = id },
		func(c *gin.Context, a *domain.Achievement) (services.WriteResult, error) {
			return h.log.SaveAchievement(c.Request.Context(), userID(c), a)
		})
}

// ListAchievements godoc
// @ID          listAchievements
// @Summary     List achievements in unlock order
// @Tags        Achievements
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Success     200  {object}  handlers.ListResponse[domain.Achievement]
// @Router      /achievements [get]
func (h *Handlers) ListAchievements(c *gin.Context) {
	rows, err := h.query.ListAchievements(c.Request.Context(), userID(c))
	okList(c, rows, err, ErrCodeQueryFailed)
}

// DeleteAchievement godoc
// @ID          deleteAchievement
// @Summary     Delete an achievement
// @Tags        Achievements
// @Produce     json
// @Param       X-User-ID  header  string  false  "Acting user"
// @Param       id         path    string  true   "Achievement ID"
// @Success     200  {object}  handlers.WriteResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /achievements/{id} [delete]
func (h *Handlers) DeleteAchievement(c *gin.Context) {
	deleteRecord(c, func(c *gin.Context, id string) (services.WriteResult, error) {
		return h.log.DeleteAchievement(c.Request.Context(), userID(c), id)
	})
}
