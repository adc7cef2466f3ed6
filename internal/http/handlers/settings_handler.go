// Dashboard and settings HTTP handlers.
//
//   - GET /stats/dashboard
//   - GET /settings
//   - PUT /settings
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatihsenyuz/Randevu/internal/domain"
)

// UpdateSettingsRequest replaces the business hours.
type UpdateSettingsRequest struct {
	WorkStartHour       *int `json:"work_start_hour" binding:"required" example:"7"`
	WorkEndHour         *int `json:"work_end_hour" binding:"required" example:"3"`
	AppointmentInterval *int `json:"appointment_interval" binding:"required" example:"30"`
}

// DashboardStats godoc
// @ID          dashboardStats
// @Summary     Dashboard summary
// @Description Today's appointment counts and income for today, the last seven days and the current month, in the reporting time zone.
// @Tags        Stats
// @Produce     json
// @Success     200  {object}  services.DashboardStats
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /stats/dashboard [get]
func (h *Handlers) DashboardStats(c *gin.Context) {
	out, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetSettings godoc
// @ID          getSettings
// @Summary     Business hours
// @Tags        Settings
// @Produce     json
// @Success     200  {object}  domain.Settings
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /settings [get]
func (h *Handlers) GetSettings(c *gin.Context) {
	out, err := h.settings.Get(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// UpdateSettings godoc
// @ID          updateSettings
// @Summary     Replace business hours
// @Description An end hour below the start hour means the working day ends after midnight.
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.UpdateSettingsRequest  true  "Settings"
// @Success     200   {object}  domain.Settings
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /settings [put]
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := h.bindJSON(c, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "work_start_hour, work_end_hour and appointment_interval are required")
		return
	}
	out, err := h.settings.Update(c.Request.Context(), domain.Settings{
		WorkStartHour:       *req.WorkStartHour,
		WorkEndHour:         *req.WorkEndHour,
		AppointmentInterval: *req.AppointmentInterval,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}
