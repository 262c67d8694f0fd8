package notify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
	"github.com/mercaditoapp/mercadito-backend/pkg/pagination"
)

// Service records and serves user-facing toast notifications. The message is
// the toast headline; detail carries the optional second line (product name,
// quantities) and may be empty.
type Service interface {
	Success(ctx context.Context, userID uuid.UUID, message, detail string)
	Error(ctx context.Context, userID uuid.UUID, message, detail string)
	Info(ctx context.Context, userID uuid.UUID, message, detail string)
	Warning(ctx context.Context, userID uuid.UUID, message, detail string)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// ListParams configures pagination for notifications.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires notification dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Success(ctx context.Context, userID uuid.UUID, message, detail string) {
	s.record(ctx, userID, enums.NotificationLevelSuccess, message, detail)
}

func (s *service) Error(ctx context.Context, userID uuid.UUID, message, detail string) {
	s.record(ctx, userID, enums.NotificationLevelError, message, detail)
}

func (s *service) Info(ctx context.Context, userID uuid.UUID, message, detail string) {
	s.record(ctx, userID, enums.NotificationLevelInfo, message, detail)
}

func (s *service) Warning(ctx context.Context, userID uuid.UUID, message, detail string) {
	s.record(ctx, userID, enums.NotificationLevelWarning, message, detail)
}

// record is fire and forget: a toast that fails to persist never blocks the
// operation that produced it.
func (s *service) record(ctx context.Context, userID uuid.UUID, level enums.NotificationLevel, message, detail string) {
	if userID == uuid.Nil || strings.TrimSpace(message) == "" {
		return
	}
	notification := &models.Notification{
		UserID:  userID,
		Level:   level,
		Message: message,
		Detail:  strings.TrimSpace(detail),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logg.Error(ctx, "persist notification", err)
	}
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		UserID:     params.UserID,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	count, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stale notifications")
	}
	return count, nil
}
