package repository

import (
	"context"
	"database/sql"

	"github.com/jesseglab/postduck/internal/model"
)

type IRequestRepository interface {
	Create(ctx context.Context, request *model.Request) (string, error)
	Get(ctx context.Context, id string) (*model.Request, error)
	Update(ctx context.Context, request *model.Request) error
	Delete(ctx context.Context, id string) error
	ListByCollection(ctx context.Context, collectionID string) ([]model.Request, error)
}

type ICollectionRepository interface {
	Create(ctx context.Context, collection *model.Collection) (string, error)
	Get(ctx context.Context, id string) (*model.Collection, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]model.Collection, error)
	DeleteTree(ctx context.Context, id string) error
}

type IEnvironmentRepository interface {
	Create(ctx context.Context, env *model.Environment) (string, error)
	Get(ctx context.Context, id string) (*model.Environment, error)
	Update(ctx context.Context, env *model.Environment) error
	Delete(ctx context.Context, id string) error
	GetActive(ctx context.Context, workspaceID string) (*model.Environment, error)
	SetActive(ctx context.Context, workspaceID, environmentID string) error
	UpsertVariable(ctx context.Context, environmentID, key, value string, isSecret bool) error
}

type IAuthSessionRepository interface {
	Create(ctx context.Context, session *model.AuthSession) (string, error)
	Update(ctx context.Context, session *model.AuthSession) error
	Delete(ctx context.Context, id string) error
	GetByRequestID(ctx context.Context, requestID string) (*model.AuthSession, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]model.AuthSession, error)
}

type IHistoryRepository interface {
	Create(ctx context.Context, entry *model.RequestHistory) (string, error)
	ListByRequest(ctx context.Context, requestID string) ([]model.RequestHistory, error)
}

type IRepository interface {
	Request() IRequestRepository
	Collection() ICollectionRepository
	Environment() IEnvironmentRepository
	AuthSession() IAuthSessionRepository
	History() IHistoryRepository
}

type Repository struct {
	request     IRequestRepository
	collection  ICollectionRepository
	environment IEnvironmentRepository
	authSession IAuthSessionRepository
	history     IHistoryRepository
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		request:     NewRequestRepository(db),
		collection:  NewCollectionRepository(db),
		environment: NewEnvironmentRepository(db),
		authSession: NewAuthSessionRepository(db),
		history:     NewHistoryRepository(db),
	}
}

func (r *Repository) Request() IRequestRepository {
	return r.request
}

func (r *Repository) Collection() ICollectionRepository {
	return r.collection
}

func (r *Repository) Environment() IEnvironmentRepository {
	return r.environment
}

func (r *Repository) AuthSession() IAuthSessionRepository {
	return r.authSession
}

func (r *Repository) History() IHistoryRepository {
	return r.history
}
