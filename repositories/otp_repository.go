// repositories/otp_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rkaram/bankms_backend/config"
	"github.com/rkaram/bankms_backend/models"
	"github.com/rkaram/bankms_backend/services"
)

// OTPRepository is the mongo-backed OTP store. The emailOtps collection has a
// unique index on email, so every write below targets at most one document.
type OTPRepository struct {
	collection *mongo.Collection
}

// NewOTPRepository creates an OTP repository over the emailOtps collection
func NewOTPRepository(db *mongo.Client) *OTPRepository {
	return &OTPRepository{
		collection: config.GetCollection(db, "emailOtps"),
	}
}

// Replace upserts the record for its email. Concurrent issuance for the same
// email is last-write-wins on the unique key.
func (r *OTPRepository) Replace(ctx context.Context, record *models.EmailOTP) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"email": record.Email},
		record,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Find returns the record for an email
func (r *OTPRepository) Find(ctx context.Context, email string) (*models.EmailOTP, error) {
	var record models.EmailOTP
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// MarkVerified flags the record verified only if the code matches an
// unverified, unconsumed, unexpired record. The conditional update makes
// check-then-consume a single document operation, so two concurrent
// verifications of the same code cannot both succeed.
func (r *OTPRepository) MarkVerified(ctx context.Context, email, code string, now time.Time) (bool, error) {
	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{
			"email":     email,
			"otp":       code,
			"verified":  false,
			"consumed":  false,
			"expiresAt": bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{"verified": true}},
	)
	if err := result.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RegisterFailure increments the attempt counter and returns the new count
func (r *OTPRepository) RegisterFailure(ctx context.Context, email string) (int, error) {
	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"email": email},
		bson.M{"$inc": bson.M{"attempts": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var record models.EmailOTP
	if err := result.Decode(&record); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, services.ErrNotFound
		}
		return 0, err
	}
	return record.Attempts, nil
}

// Consume invalidates the record for the email
func (r *OTPRepository) Consume(ctx context.Context, email string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"consumed": true}},
	)
	return err
}
