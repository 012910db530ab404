package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pkgr6286/aegis-sub002/internal/model"
)

// ProgramRepo handles MongoDB operations for drug programs
type ProgramRepo interface {
	Create(ctx context.Context, program *model.Program) (string, error)
	GetByID(ctx context.Context, id string) (*model.Program, error)
	GetByTenant(ctx context.Context, tenantID string) ([]*model.Program, error)
	Update(ctx context.Context, program *model.Program) error
	Delete(ctx context.Context, id string) error
}

type programRepo struct {
	collection *mongo.Collection
}

// NewProgramRepo creates a new program repository
func NewProgramRepo(db *mongo.Database) ProgramRepo {
	return &programRepo{
		collection: db.Collection("programs"),
	}
}

func (r *programRepo) Create(ctx context.Context, program *model.Program) (string, error) {
	program.CreatedAt = time.Now()
	program.UpdatedAt = time.Now()
	program.ID = primitive.NewObjectID().Hex()

	_, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return "", err
	}
	return program.ID, nil
}

func (r *programRepo) GetByID(ctx context.Context, id string) (*model.Program, error) {
	var program model.Program
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) GetByTenant(ctx context.Context, tenantID string) ([]*model.Program, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"tenantId": tenantID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var programs []*model.Program
	if err := cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *programRepo) Update(ctx context.Context, program *model.Program) error {
	program.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": program.ID}, program)
	return err
}

func (r *programRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
