// controllers/customer_controller.go
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
	"github.com/rkaram/bankms_backend/utils"
)

// CustomerController handles customer CRUD
type CustomerController struct {
	DB *mongo.Client
}

// NewCustomerController creates a new customer controller
func NewCustomerController(db *mongo.Client) *CustomerController {
	return &CustomerController{DB: db}
}

// CreateCustomer creates a new customer profile
func (cc *CustomerController) CreateCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var customer models.Customer
	if err := c.Bind(&customer); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&customer); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid customer data: " + err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(customer.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	customer.Email = email
	customer.FullName = utils.SanitizeInput(customer.FullName)
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()

	collection := config.GetCollection(cc.DB, "customers")
	if _, err := collection.InsertOne(ctx, customer); err != nil {
		c.Logger().Errorf("customer insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create customer",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Customer created successfully",
		Data:    customer,
	})
}

// GetAllCustomers returns all customer profiles
func (cc *CustomerController) GetAllCustomers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(cc.DB, "customers")
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve customers",
		})
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode customers",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Customers retrieved successfully",
		Data:    customers,
	})
}

// GetCustomer returns one customer by id
func (cc *CustomerController) GetCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid customer ID",
		})
	}

	collection := config.GetCollection(cc.DB, "customers")
	var customer models.Customer
	err = collection.FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Customer not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve customer",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Customer retrieved successfully",
		Data:    customer,
	})
}

// UpdateCustomer updates a customer's mutable profile fields
func (cc *CustomerController) UpdateCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid customer ID",
		})
	}

	var req struct {
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.FullName != "" {
		update["fullName"] = utils.SanitizeInput(req.FullName)
	}
	if req.Phone != "" {
		update["phone"] = utils.SanitizeInput(req.Phone)
	}
	if req.Address != "" {
		update["address"] = utils.SanitizeInput(req.Address)
	}

	collection := config.GetCollection(cc.DB, "customers")
	result, err := collection.UpdateOne(ctx, bson.M{"_id": customerID}, bson.M{"$set": update})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update customer",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Customer not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Customer updated successfully",
	})
}

// DeleteCustomer removes a customer profile
func (cc *CustomerController) DeleteCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid customer ID",
		})
	}

	collection := config.GetCollection(cc.DB, "customers")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": customerID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete customer",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Customer not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Customer deleted successfully",
	})
}
