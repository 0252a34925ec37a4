// controllers/statement_controller.go
package controllers

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rkaram/bankms_backend/config"
	"github.com/rkaram/bankms_backend/models"
)

// StatementController produces downloadable account statements
type StatementController struct {
	DB *mongo.Client
}

// NewStatementController creates a new statement controller
func NewStatementController(db *mongo.Client) *StatementController {
	return &StatementController{DB: db}
}

// DownloadStatement streams the account's transaction history as CSV
func (sc *StatementController) DownloadStatement(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	accountNumber := c.Param("accountNumber")

	accounts := config.GetCollection(sc.DB, "accounts")
	var account models.Account
	err := accounts.FindOne(ctx, bson.M{"accountNumber": accountNumber}).Decode(&account)
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

	transactions := config.GetCollection(sc.DB, "transactions")
	cursor, err := transactions.Find(
		ctx,
		bson.M{"accountNumber": accountNumber},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve transactions",
		})
	}
	defer cursor.Close(ctx)

	history := []models.Transaction{}
	if err := cursor.All(ctx, &history); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode transactions",
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Date", "Type", "Amount", "Description"})
	for _, txn := range history {
		w.Write([]string{
			txn.Date.Format("2006-01-02 15:04:05"),
			txn.Type,
			fmt.Sprintf("%.2f", txn.Amount),
			txn.Description,
		})
	}
	w.Write([]string{"", "", fmt.Sprintf("%.2f", account.Balance), "Closing balance"})
	w.Flush()
	if err := w.Error(); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build statement",
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="statement-%s.csv"`, accountNumber))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
