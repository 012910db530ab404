package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pkgr6286/aegis-sub002/internal/model"
)

// CodeRepo handles MongoDB operations for purchase-verification codes
type CodeRepo interface {
	Create(ctx context.Context, code *model.VerificationCode) error
	GetByCode(ctx context.Context, code string) (*model.VerificationCode, error)
	UpdateStatus(ctx context.Context, code string, status model.CodeStatus) error
}

type codeRepo struct {
	collection *mongo.Collection
}

// NewCodeRepo creates a new verification-code repository
func NewCodeRepo(db *mongo.Database) CodeRepo {
	return &codeRepo{
		collection: db.Collection("verification_codes"),
	}
}

func (r *codeRepo) Create(ctx context.Context, code *model.VerificationCode) error {
	_, err := r.collection.InsertOne(ctx, code)
	return err
}

func (r *codeRepo) GetByCode(ctx context.Context, code string) (*model.VerificationCode, error) {
	var vc model.VerificationCode
	err := r.collection.FindOne(ctx, bson.M{"_id": code}).Decode(&vc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

func (r *codeRepo) UpdateStatus(ctx context.Context, code string, status model.CodeStatus) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": code}, bson.M{"$set": bson.M{"status": status}})
	return err
}
