package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rProsia8/Expense-Tracker/internal/transport/http/response"
)

// Root lists the API surface for unauthenticated discovery.
func Root(c *gin.Context) {
	response.OK(c, gin.H{
		"message": "Welcome to the Expense Tracker API",
		"available_endpoints": gin.H{
			"auth": []string{
				"POST /token - Login",
				"POST /users/ - Register",
				"GET /users/me - Current user",
			},
			"expenses": []string{
				"GET /expenses/ - List all expenses",
				"POST /expenses/ - Create expense",
				"GET /expenses/{id} - Get expense",
				"PUT /expenses/{id} - Update expense",
				"DELETE /expenses/{id} - Delete expense",
			},
			"statistics": []string{
				"GET /expenses/stats/category - Get expenses by category",
				"GET /expenses/stats/time - Get expenses by time period",
			},
		},
	})
}
