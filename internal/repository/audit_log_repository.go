package repository

import (
	"context"

	"zajil/internal/domain/model"
)

// 空の項目は絞り込まない
type AuditLogFilter struct {
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   string
	Limit        int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
