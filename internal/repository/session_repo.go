package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

// ErrAlreadySubmitted guards the exactly-once submission invariant: both
// the navigation-terminal path and the fast-path submit-early path funnel
// into MarkSubmitted, and only the first caller wins.
var ErrAlreadySubmitted = errors.New("session already submitted")

// SessionRepo handles MongoDB operations for screening sessions
type SessionRepo interface {
	Create(ctx context.Context, session *model.ScreeningSession) error
	GetByID(ctx context.Context, id string) (*model.ScreeningSession, error)
	GetByProgram(ctx context.Context, programID string) ([]*model.ScreeningSession, error)
	MarkSubmitted(ctx context.Context, id string, answers screening.AnswerMap, eval *model.Evaluation, code string) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("screening_sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.ScreeningSession) error {
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.ScreeningSession, error) {
	var session model.ScreeningSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) GetByProgram(ctx context.Context, programID string) ([]*model.ScreeningSession, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"programId": programID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.ScreeningSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// MarkSubmitted freezes the final answer set and evaluation on the
// session. The filter on status makes the transition atomic: a second
// submit matches nothing and returns ErrAlreadySubmitted.
func (r *sessionRepo) MarkSubmitted(ctx context.Context, id string, answers screening.AnswerMap, eval *model.Evaluation, code string) error {
	now := time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.SessionActive},
		bson.M{"$set": bson.M{
			"status":           model.SessionSubmitted,
			"submittedAt":      now,
			"answers":          answers,
			"evaluation":       eval,
			"verificationCode": code,
		}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrAlreadySubmitted
	}
	return nil
}
