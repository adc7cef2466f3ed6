// Appointment HTTP handlers.
//
//   - POST   /appointments                 (book; honours Idempotency-Key)
//   - GET    /appointments                 (list; date, status, search filters)
//   - GET    /appointments/slots           (slot grid for a date)
//   - GET    /appointments/{id}
//   - PUT    /appointments/{id}            (edit / reschedule)
//   - PUT    /appointments/{id}/status
//   - DELETE /appointments/{id}
//   - GET    /customers/{phone}/history
//
// Idempotency:
// When a booking carries an Idempotency-Key and a result was already stored
// for it, the stored appointment is returned with Idempotency-Replayed: true
// instead of booking again.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"
	"github.com/fatihsenyuz/Randevu/internal/http/middleware"
	"github.com/fatihsenyuz/Randevu/internal/repo"
	"github.com/fatihsenyuz/Randevu/internal/services"
)

//
// DTOs
//

// CreateAppointmentRequest is the JSON payload for booking.
type CreateAppointmentRequest struct {
	CustomerName    string `json:"customer_name" example:"Ayşe Yılmaz"`
	Phone           string `json:"phone" example:"05321234567"`
	Address         string `json:"address" example:"Moda Cd. 12, Kadıköy"`
	ServiceID       string `json:"service_id" example:"3f0c1a9e-7d1b-4c55-9a43-2f1d2b8e6a10"`
	AppointmentDate string `json:"appointment_date" example:"2024-06-01"`
	AppointmentTime string `json:"appointment_time" example:"10:00"`
	Notes           string `json:"notes" example:"Kapı kodu 1234"`
}

// UpdateAppointmentRequest carries a partial edit. Omitted fields are left
// unchanged. Status accepts pending, completed, cancelled and the legacy
// labels Bekliyor, Tamamlandı, İptal.
type UpdateAppointmentRequest struct {
	CustomerName    *string `json:"customer_name"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	ServiceID       *string `json:"service_id"`
	AppointmentDate *string `json:"appointment_date" example:"2024-06-02"`
	AppointmentTime *string `json:"appointment_time" example:"14:30"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status" example:"completed"`
}

// UpdateStatusRequest is the payload of PUT /appointments/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"completed"`
}

//
// Handlers
//

// CreateAppointment godoc
// @ID          createAppointment
// @Summary     Book an appointment
// @Description Books a pending appointment, snapshotting the service name and price.
// @Description A slot already held by a non-cancelled appointment yields 400 with code "conflict".
// @Description Supports idempotency via the Idempotency-Key header (same key returns the same appointment).
// @Tags        Appointments
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header    string                             false  "Idempotency key for safe retries"
// @Param       body             body      handlers.CreateAppointmentRequest  true   "Appointment"
// @Success     201              {object}  domain.Appointment
// @Failure     400              {object}  handlers.ErrorResponse  "Validation error or slot conflict"
// @Failure     404              {object}  handlers.ErrorResponse  "Service not found"
// @Failure     500              {object}  handlers.ErrorResponse
// @Router      /appointments [post]
func (h *Handlers) CreateAppointment(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateAppointmentRequest
	if err := h.bindJSON(c, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)
	scope := middleware.IdempotencyScope(c)
	db := h.appointmentDB()

	// Replay path.
	if idemKey != "" && db != nil {
		if rec, err := repo.GetIdempotency(ctx, db, scope, idemKey, time.Now().UTC()); err == nil {
			if prev, err := h.appts.Get(ctx, rec.ResourceID); err == nil {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				ok(c, rec.Status, prev)
				return
			}
		}
	}

	a, err := h.appts.Book(ctx, services.BookRequest{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		ServiceID:    req.ServiceID,
		Date:         req.AppointmentDate,
		Time:         req.AppointmentTime,
		Notes:        req.Notes,
	})
	if err != nil {
		failErr(c, err)
		return
	}

	// Store path, best effort.
	if idemKey != "" && db != nil {
		if _, err := repo.CreateIdempotency(ctx, db, scope, idemKey, a.ID, http.StatusCreated, h.idemTTL); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
		}
	}
	ok(c, http.StatusCreated, a)
}

// ListAppointments godoc
// @ID          listAppointments
// @Summary     List appointments
// @Description Most recent date first. search matches customer name or phone, case-insensitively.
// @Tags        Appointments
// @Produce     json
// @Param       date    query     string  false  "YYYY-MM-DD"
// @Param       status  query     string  false  "pending, completed or cancelled"
// @Param       search  query     string  false  "Name or phone substring"
// @Success     200     {array}   domain.Appointment
// @Failure     400     {object}  handlers.ErrorResponse
// @Router      /appointments [get]
func (h *Handlers) ListAppointments(c *gin.Context) {
	f := services.AppointmentFilter{
		Date:   c.Query("date"),
		Search: c.Query("search"),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			failErr(c, err)
			return
		}
		f.Status = st
	}
	out, err := h.appts.List(c.Request.Context(), f)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// ListSlots godoc
// @ID          listSlots
// @Summary     Slot grid for a date
// @Description Slot labels generated from the business hours, each flagged when held by a non-cancelled appointment.
// @Tags        Appointments
// @Produce     json
// @Param       date  query     string  true  "YYYY-MM-DD"
// @Success     200   {array}   services.Slot
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /appointments/slots [get]
func (h *Handlers) ListSlots(c *gin.Context) {
	out, err := h.appts.AvailableSlots(c.Request.Context(), c.Query("date"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetAppointment godoc
// @ID          getAppointment
// @Summary     Get an appointment
// @Tags        Appointments
// @Produce     json
// @Param       id   path      string  true  "Appointment ID"
// @Success     200  {object}  domain.Appointment
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /appointments/{id} [get]
func (h *Handlers) GetAppointment(c *gin.Context) {
	a, err := h.appts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// UpdateAppointment godoc
// @ID          updateAppointment
// @Summary     Edit or reschedule an appointment
// @Description Changing date or time re-checks the slot. Setting status to completed records the cash-register entry once.
// @Tags        Appointments
// @Accept      json
// @Produce     json
// @Param       id    path      string                             true  "Appointment ID"
// @Param       body  body      handlers.UpdateAppointmentRequest  true  "Fields to change"
// @Success     200   {object}  domain.Appointment
// @Failure     400   {object}  handlers.ErrorResponse  "Validation error or slot conflict"
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /appointments/{id} [put]
func (h *Handlers) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if err := h.bindJSON(c, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p := services.AppointmentPatch{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		ServiceID:    req.ServiceID,
		Date:         req.AppointmentDate,
		Time:         req.AppointmentTime,
		Notes:        req.Notes,
	}
	if req.Status != nil {
		st, err := domain.ParseStatus(*req.Status)
		if err != nil {
			failErr(c, err)
			return
		}
		p.Status = &st
	}
	a, err := h.appts.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// UpdateAppointmentStatus godoc
// @ID          updateAppointmentStatus
// @Summary     Change an appointment's status
// @Tags        Appointments
// @Accept      json
// @Produce     json
// @Param       id    path      string                        true  "Appointment ID"
// @Param       body  body      handlers.UpdateStatusRequest  true  "New status"
// @Success     200   {object}  domain.Appointment
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /appointments/{id}/status [put]
func (h *Handlers) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := h.bindJSON(c, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}
	st, err := domain.ParseStatus(req.Status)
	if err != nil {
		failErr(c, err)
		return
	}
	a, err := h.appts.ChangeStatus(c.Request.Context(), c.Param("id"), st)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// DeleteAppointment godoc
// @ID          deleteAppointment
// @Summary     Delete an appointment
// @Description Its cash-register entry, if any, is kept.
// @Tags        Appointments
// @Param       id   path    string  true  "Appointment ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse
// @Router      /appointments/{id} [delete]
func (h *Handlers) DeleteAppointment(c *gin.Context) {
	if err := h.appts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// CustomerHistory godoc
// @ID          customerHistory
// @Summary     Appointment history of a customer
// @Tags        Customers
// @Produce     json
// @Param       phone  path      string  true  "Phone number as booked"
// @Success     200    {object}  services.CustomerHistory
// @Failure     400    {object}  handlers.ErrorResponse
// @Router      /customers/{phone}/history [get]
func (h *Handlers) CustomerHistory(c *gin.Context) {
	out, err := h.appts.CustomerHistory(c.Request.Context(), c.Param("phone"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// appointmentDB returns the database behind the concrete scheduler, used for
// idempotency records. Stubs yield nil, which disables replay.
func (h *Handlers) appointmentDB() *gorm.DB {
	if svc, ok := h.appts.(*services.AppointmentService); ok {
		return svc.DB
	}
	return nil
}
