// models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentUpload stores metadata for a customer document kept under uploads/
type DocumentUpload struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DocumentType string             `json:"documentType" bson:"documentType"`
	Filename     string             `json:"filename" bson:"filename"`
	Path         string             `json:"path" bson:"path"`
	UploadedAt   time.Time          `json:"uploadedAt" bson:"uploadedAt"`
}
