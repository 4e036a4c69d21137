package service

import (
	"context"

	"github.com/White1313devil/medicals/internal/authctx"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/White1313devil/medicals/pkg/logger"
	"go.uber.org/zap"
)

// Activity actions.
const (
	ActionLogin         = "login"
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionStatusChange  = "status_change"
	ActionPaymentChange = "payment_change"
)

// Auditor appends activity log entries for admin actions. A failed write is
// logged and otherwise ignored.
type Auditor struct {
	Logs *repository.ActivityLogRepository
}

func NewAuditor(logs *repository.ActivityLogRepository) *Auditor {
	return &Auditor{Logs: logs}
}

// Record stores an entry attributed to the admin and client found in ctx.
func (a *Auditor) Record(ctx context.Context, action, entity string, entityID uint, description string) {
	if a == nil || a.Logs == nil {
		return
	}

	entry := &model.ActivityLog{
		Action:      action,
		Entity:      entity,
		Description: description,
	}
	if entityID != 0 {
		entry.EntityID = &entityID
	}
	if admin := authctx.FromContext(ctx); admin != nil {
		adminID := admin.ID
		entry.AdminID = &adminID
		entry.AdminUsername = admin.Username
	}
	client := authctx.ClientFromContext(ctx)
	entry.IPAddress = client.IP
	entry.UserAgent = client.UserAgent

	if err := a.Logs.Append(ctx, entry); err != nil {
		logger.FromContext(ctx).Warn("Failed to write activity log",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.Error(err))
	}
}

// List returns the newest activity log entries.
func (a *Auditor) List(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	ctx, span := startSpan(ctx, "activity.list")
	entries, err := a.Logs.List(ctx, limit)
	endSpan(span, err)
	return entries, err
}
