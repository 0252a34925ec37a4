package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rkaram/bankms_backend/controllers"
	"github.com/rkaram/bankms_backend/middleware"
)

// RegisterBankRoutes sets up the JWT-protected customer, account, transaction,
// document and statement routes
func RegisterBankRoutes(e *echo.Echo, db *mongo.Client, uploadDir string) {
	customerController := controllers.NewCustomerController(db)
	accountController := controllers.NewAccountController(db)
	transactionController := controllers.NewTransactionController(db)
	documentController := controllers.NewDocumentController(db, uploadDir)
	statementController := controllers.NewStatementController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Customer routes
	r.POST("/customers", customerController.CreateCustomer)
	r.GET("/customers", customerController.GetAllCustomers)
	r.GET("/customers/:id", customerController.GetCustomer)
	r.PUT("/customers/:id", customerController.UpdateCustomer)
	r.DELETE("/customers/:id", customerController.DeleteCustomer)

	// Account routes
	r.POST("/accounts", accountController.CreateAccount)
	r.GET("/accounts", accountController.GetAccounts)
	r.GET("/accounts/:accountNumber", accountController.GetAccount)

	// Transaction routes
	r.POST("/transactions", transactionController.CreateTransaction)
	r.GET("/transactions/:accountNumber", transactionController.GetTransactions)

	// Document upload routes
	r.POST("/uploads", documentController.UploadDocument)
	r.GET("/uploads", documentController.GetDocuments)

	// Statement download
	r.GET("/download-statement/:accountNumber", statementController.DownloadStatement)
}
