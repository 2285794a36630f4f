package repository

import (
	"context"

	"zajil/internal/domain/model"
	repo "zajil/internal/repository"

	"gorm.io/gorm"
)

// 1回に返す最大件数
const maxAuditLogs = 200

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

// 在庫・ステータス変更と同じTxで書く
func (r *auditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.ResourceType != "" {
		q = q.Where("resource_type = ?", f.ResourceType)
	}
	if f.ResourceID != "" {
		q = q.Where("resource_id = ?", f.ResourceID)
	}

	limit := f.Limit
	if limit <= 0 || limit > maxAuditLogs {
		limit = maxAuditLogs
	}

	logs := []model.AuditLog{}
	if err := q.Order("id desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
