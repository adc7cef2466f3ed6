// Cash-register HTTP handlers.
//
//   - GET    /transactions        (start_date / end_date, inclusive, both optional)
//   - PUT    /transactions/{id}   (correct the amount)
//   - DELETE /transactions/{id}
//
// Entries are created only by completing an appointment.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fatihsenyuz/Randevu/internal/services"
)

// UpdateTransactionRequest corrects a ledger amount.
type UpdateTransactionRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number" example:"450.50"`
}

// ListTransactions godoc
// @ID          listTransactions
// @Summary     List cash-register entries
// @Description Most recent date first.
// @Tags        Transactions
// @Produce     json
// @Param       start_date  query     string  false  "YYYY-MM-DD, inclusive"
// @Param       end_date    query     string  false  "YYYY-MM-DD, inclusive"
// @Success     200         {array}   domain.Transaction
// @Failure     400         {object}  handlers.ErrorResponse
// @Router      /transactions [get]
func (h *Handlers) ListTransactions(c *gin.Context) {
	out, err := h.ledger.Query(c.Request.Context(), services.DateRange{
		Start: c.Query("start_date"),
		End:   c.Query("end_date"),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// UpdateTransaction godoc
// @ID          updateTransaction
// @Summary     Correct an entry's amount
// @Tags        Transactions
// @Accept      json
// @Produce     json
// @Param       id    path      string                             true  "Transaction ID"
// @Param       body  body      handlers.UpdateTransactionRequest  true  "New amount"
// @Success     200   {object}  domain.Transaction
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /transactions/{id} [put]
func (h *Handlers) UpdateTransaction(c *gin.Context) {
	var req UpdateTransactionRequest
	if err := h.bindJSON(c, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "amount required")
		return
	}
	t, err := h.ledger.UpdateAmount(c.Request.Context(), c.Param("id"), *req.Amount)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// DeleteTransaction godoc
// @ID          deleteTransaction
// @Summary     Delete an entry
// @Description The originating appointment is not affected.
// @Tags        Transactions
// @Param       id   path    string  true  "Transaction ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse
// @Router      /transactions/{id} [delete]
func (h *Handlers) DeleteTransaction(c *gin.Context) {
	if err := h.ledger.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
