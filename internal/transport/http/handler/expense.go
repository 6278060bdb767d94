package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rProsia8/Expense-Tracker/internal/app"
	"github.com/rProsia8/Expense-Tracker/internal/transport/http/response"
)

type ExpenseHandler struct {
	expenseService *app.ExpenseService
}

// ExpenseRequest carries the mutable expense fields. Amount is a pointer so
// the field must be present while a zero amount stays valid; description and
// category are free text, the empty string included.
type ExpenseRequest struct {
	Amount      *float64 `json:"amount" binding:"required"`
	Description string   `json:"description" binding:"max=255"`
	Category    string   `json:"category" binding:"max=64"`
	Date        string   `json:"date"`
}

type DeleteExpenseResponse struct {
	Message string `json:"message"`
}

// dateLayouts accepted for expense dates and range bounds, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func NewExpenseHandler(expenseService *app.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	input, ok := bindExpenseInput(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "create expense failed")
		}
		return
	}

	response.OK(c, expense)
}

func (h *ExpenseHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}

	expenses, err := h.expenseService.List(userID, skip, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list expenses failed")
		return
	}

	response.OK(c, expenses)
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	expenseID, ok := paramExpenseID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.Get(userID, expenseID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrExpenseNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "get expense failed")
		}
		return
	}

	response.OK(c, expense)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	expenseID, ok := paramExpenseID(c)
	if !ok {
		return
	}

	input, ok := bindExpenseInput(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), userID, expenseID, input)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrExpenseNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "update expense failed")
		}
		return
	}

	response.OK(c, expense)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	expenseID, ok := paramExpenseID(c)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), userID, expenseID); err != nil {
		switch {
		case errors.Is(err, app.ErrExpenseNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "delete expense failed")
		}
		return
	}

	response.OK(c, DeleteExpenseResponse{Message: "Expense deleted successfully"})
}

func (h *ExpenseHandler) CategoryStats(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	totals, err := h.expenseService.CategoryStats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "category stats failed")
		return
	}

	response.OK(c, totals)
}

// Events lists the caller's audit trail, populated by the event worker when
// the queue is enabled.
func (h *ExpenseHandler) Events(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}

	events, err := h.expenseService.Events(userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list expense events failed")
		return
	}

	response.OK(c, events)
}

func (h *ExpenseHandler) TimeStats(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid start_date")
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid end_date")
		return
	}

	expenses, err := h.expenseService.RangeStats(userID, start, end)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "time stats failed")
		return
	}

	response.OK(c, expenses)
}

func bindExpenseInput(c *gin.Context) (app.ExpenseInput, bool) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return app.ExpenseInput{}, false
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid date")
			return app.ExpenseInput{}, false
		}
		date = parsed
	}

	return app.ExpenseInput{
		Amount:      *req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
	}, true
}

func paramExpenseID(c *gin.Context) (uint, bool) {
	expenseID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || expenseID64 == 0 {
		response.Error(c, http.StatusBadRequest, "invalid expense id")
		return 0, false
	}
	return uint(expenseID64), true
}

// queryInt reads an integer query parameter, rejecting unparseable values
// with a 400 rather than silently falling back.
func queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return parsed, true
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
