package handler

import (
	"github.com/centavoapp/centavo/centavo-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	incomeHandler *IncomeHandler,
	expenseHandler *ExpenseHandler,
	categoryHandler *CategoryHandler,
	installmentHandler *InstallmentHandler,
	monthHandler *MonthHandler,
	dashboardHandler *DashboardHandler,
	backupHandler *BackupHandler,
) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)

	// Income routes
	incomes := api.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.ListIncomes)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Installment routes
	installments := api.Group("/installments")
	installments.POST("", installmentHandler.CreateInstallment)
	installments.GET("", installmentHandler.ListInstallments)
	installments.GET("/upcoming", installmentHandler.UpcomingInstallments)

	// Month aggregation routes
	months := api.Group("/months")
	months.GET("", monthHandler.ListMonths)
	months.GET("/:month", monthHandler.GetMonthlySnapshot)
	months.GET("/:month/totals", monthHandler.GetMonthlyTotals)
	months.GET("/:month/categories", monthHandler.GetCategoryTotals)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("", dashboardHandler.GetDashboard)

	// Backup routes
	backup := api.Group("/backup")
	backup.GET("/export", backupHandler.ExportBackup)
	backup.POST("/import", backupHandler.ImportBackup)
	backup.POST("/reset", backupHandler.ResetLedger)
}
