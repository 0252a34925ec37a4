// controllers/account_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rkaram/bankms_backend/config"
	"github.com/rkaram/bankms_backend/models"
)

// AccountController handles bank account CRUD
type AccountController struct {
	DB *mongo.Client
}

// NewAccountController creates a new account controller
func NewAccountController(db *mongo.Client) *AccountController {
	return &AccountController{DB: db}
}

// CreateAccount opens a new account for a customer
func (ac *AccountController) CreateAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var account models.Account
	if err := c.Bind(&account); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&account); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid account data: " + err.Error(),
		})
	}
	if account.Balance < 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Initial balance cannot be negative",
		})
	}

	// Customer must exist before an account can be opened against it
	customers := config.GetCollection(ac.DB, "customers")
	if err := customers.FindOne(ctx, bson.M{"_id": account.CustomerID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Customer not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check customer",
		})
	}

	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()

	collection := config.GetCollection(ac.DB, "accounts")
	if _, err := collection.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Account number already exists",
			})
		}
		c.Logger().Errorf("account insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data:    account,
	})
}

// GetAccounts returns accounts, optionally filtered by customerId
func (ac *AccountController) GetAccounts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if customerIDStr := c.QueryParam("customerId"); customerIDStr != "" {
		customerID, err := primitive.ObjectIDFromHex(customerIDStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid customer ID",
			})
		}
		filter["customerId"] = customerID
	}

	collection := config.GetCollection(ac.DB, "accounts")
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve accounts",
		})
	}
	defer cursor.Close(ctx)

	accounts := []models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode accounts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Accounts retrieved successfully",
		Data:    accounts,
	})
}

// GetAccount returns one account by its account number
func (ac *AccountController) GetAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	accountNumber := c.Param("accountNumber")

	collection := config.GetCollection(ac.DB, "accounts")
	var account models.Account
	err := collection.FindOne(ctx, bson.M{"accountNumber": accountNumber}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Account not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve account",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account retrieved successfully",
		Data:    account,
	})
}
