// controllers/document_controller.go
package controllers

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rkaram/bankms_backend/config"
	"github.com/rkaram/bankms_backend/models"
)

const maxDocumentSize = 2 * 1024 * 1024 // 2 MB

var allowedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/png":  true,
}

// DocumentController handles customer document uploads
type DocumentController struct {
	DB        *mongo.Client
	UploadDir string
}

// NewDocumentController creates a new document controller
func NewDocumentController(db *mongo.Client, uploadDir string) *DocumentController {
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	return &DocumentController{DB: db, UploadDir: uploadDir}
}

// UploadDocument stores an uploaded file under the uploads directory and
// persists its metadata. Only PDF, DOC, DOCX, JPG and PNG up to 2 MB are
// accepted.
func (dc *DocumentController) UploadDocument(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No file uploaded",
		})
	}

	if fileHeader.Size > maxDocumentSize {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "File size exceeds the 2MB limit",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedDocumentTypes[contentType] {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid file type. Only PDF, DOC, DOCX, JPG, and PNG are allowed",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	filename := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	dstPath := filepath.Join(dc.UploadDir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		c.Logger().Errorf("failed to create upload file: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save uploaded file",
		})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, maxDocumentSize)); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save uploaded file",
		})
	}

	document := models.DocumentUpload{
		ID:           primitive.NewObjectID(),
		DocumentType: c.FormValue("documentType"),
		Filename:     filename,
		Path:         "/uploads/" + filename,
		UploadedAt:   time.Now(),
	}

	collection := config.GetCollection(dc.DB, "documents")
	if _, err := collection.InsertOne(ctx, document); err != nil {
		c.Logger().Errorf("document metadata insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save document metadata",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "File uploaded successfully",
		Data:    document,
	})
}

// GetDocuments returns metadata for all uploaded documents
func (dc *DocumentController) GetDocuments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(dc.DB, "documents")
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve documents",
		})
	}
	defer cursor.Close(ctx)

	documents := []models.DocumentUpload{}
	if err := cursor.All(ctx, &documents); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode documents",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Documents retrieved successfully",
		Data:    documents,
	})
}
