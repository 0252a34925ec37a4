// controllers/transaction_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rkaram/bankms_backend/config"
	"github.com/rkaram/bankms_backend/models"
)

// TransactionController handles deposits, withdrawals and transaction history
type TransactionController struct {
	DB *mongo.Client
}

// NewTransactionController creates a new transaction controller
func NewTransactionController(db *mongo.Client) *TransactionController {
	return &TransactionController{DB: db}
}

// CreateTransaction records a deposit or withdrawal and applies it to the
// account balance. The balance update is a conditional single-document write,
// so a withdrawal can never take the balance below zero even under
// concurrent requests.
func (tc *TransactionController) CreateTransaction(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var txn models.Transaction
	if err := c.Bind(&txn); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&txn); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid transaction data: " + err.Error(),
		})
	}

	accounts := config.GetCollection(tc.DB, "accounts")

	delta := txn.Amount
	filter := bson.M{"accountNumber": txn.AccountNumber}
	if txn.Type == "withdrawal" {
		delta = -txn.Amount
		filter["balance"] = bson.M{"$gte": txn.Amount}
	}

	result := accounts.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{
			"$inc": bson.M{"balance": delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			// Either the account is missing or the balance is insufficient;
			// one more read tells them apart
			if findErr := accounts.FindOne(ctx, bson.M{"accountNumber": txn.AccountNumber}).Err(); findErr == mongo.ErrNoDocuments {
				return c.JSON(http.StatusNotFound, models.Response{
					Status:  http.StatusNotFound,
					Message: "Account not found",
				})
			}
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Insufficient balance",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update account balance",
		})
	}

	txn.ID = primitive.NewObjectID()
	txn.Date = time.Now()

	transactions := config.GetCollection(tc.DB, "transactions")
	if _, err := transactions.InsertOne(ctx, txn); err != nil {
		c.Logger().Errorf("transaction insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record transaction",
		})
	}

	var account models.Account
	if err := result.Decode(&account); err == nil {
		return c.JSON(http.StatusCreated, models.Response{
			Status:  http.StatusCreated,
			Message: "Transaction recorded successfully",
			Data: map[string]interface{}{
				"transaction": txn,
				"balance":     account.Balance,
			},
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Transaction recorded successfully",
		Data:    txn,
	})
}

// GetTransactions returns the transaction history for an account, newest first
func (tc *TransactionController) GetTransactions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	accountNumber := c.Param("accountNumber")
	if accountNumber == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Account number is required",
		})
	}

	collection := config.GetCollection(tc.DB, "transactions")
	cursor, err := collection.Find(
		ctx,
		bson.M{"accountNumber": accountNumber},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve transactions",
		})
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode transactions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Transactions retrieved successfully",
		Data:    transactions,
	})
}
