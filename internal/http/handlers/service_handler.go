// Catalog HTTP handlers.
//
//   - POST   /services
//   - GET    /services
//   - GET    /services/{id}
//   - PUT    /services/{id}
//   - DELETE /services/{id}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fatihsenyuz/Randevu/internal/services"
)

// CreateServiceRequest is the JSON payload for adding a catalog entry.
type CreateServiceRequest struct {
	Name  string           `json:"name" binding:"required" example:"Koltuk Yıkama"`
	Price *decimal.Decimal `json:"price" binding:"required" swaggertype:"number" example:"750"`
}

// UpdateServiceRequest carries a partial catalog update.
type UpdateServiceRequest struct {
	Name  *string          `json:"name" example:"Koltuk Yıkama (3+2+1)"`
	Price *decimal.Decimal `json:"price" swaggertype:"number" example:"900"`
}

// CreateService godoc
// @ID          createService
// @Summary     Add a service to the catalog
// @Tags        Services
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateServiceRequest  true  "Service"
// @Success     201   {object}  domain.Service
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     500   {object}  handlers.ErrorResponse
// @Router      /services [post]
func (h *Handlers) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := h.bindJSON(c, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and price are required")
		return
	}
	svc, err := h.catalog.Create(c.Request.Context(), req.Name, *req.Price)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, svc)
}

// ListServices godoc
// @ID          listServices
// @Summary     List the catalog
// @Description Newest entries first.
// @Tags        Services
// @Produce     json
// @Success     200  {array}   domain.Service
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /services [get]
func (h *Handlers) ListServices(c *gin.Context) {
	out, err := h.catalog.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetService godoc
// @ID          getService
// @Summary     Get a catalog entry
// @Tags        Services
// @Produce     json
// @Param       id   path      string  true  "Service ID"
// @Success     200  {object}  domain.Service
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /services/{id} [get]
func (h *Handlers) GetService(c *gin.Context) {
	svc, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, svc)
}

// UpdateService godoc
// @ID          updateService
// @Summary     Update a catalog entry
// @Description Omitted fields are left unchanged. Existing appointments keep the name and price they were booked with.
// @Tags        Services
// @Accept      json
// @Produce     json
// @Param       id    path      string                         true  "Service ID"
// @Param       body  body      handlers.UpdateServiceRequest  true  "Fields to change"
// @Success     200   {object}  domain.Service
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /services/{id} [put]
func (h *Handlers) UpdateService(c *gin.Context) {
	var req UpdateServiceRequest
	if err := h.bindJSON(c, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	svc, err := h.catalog.Update(c.Request.Context(), c.Param("id"), services.ServicePatch{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, svc)
}

// DeleteService godoc
// @ID          deleteService
// @Summary     Remove a catalog entry
// @Description Appointments already booked with it are not affected.
// @Tags        Services
// @Param       id   path    string  true  "Service ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse
// @Router      /services/{id} [delete]
func (h *Handlers) DeleteService(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
