package handler

import (
	"context"

	"github.com/K-AMeus/PartynApp/internal/application"
	"github.com/K-AMeus/PartynApp/internal/domain/auth"
	"github.com/K-AMeus/PartynApp/internal/domain/event"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, claims auth.Claims, input application.CreateEventInput, image *application.ImageUpload) (*event.Event, error)
	GetEvent(ctx context.Context, id int64) (*event.Event, error)
	ListEvents(ctx context.Context) ([]*event.Event, error)
	UpdateEvent(ctx context.Context, claims auth.Claims, id int64, input application.UpdateEventInput, image *application.ImageUpload) (*event.Event, error)
	DeleteEvent(ctx context.Context, claims auth.Claims, id int64) error
	LikeEvent(ctx context.Context, id int64) error
}
