package implementation

import (
	"context"

	"multikb-rag-be/internal/model"
	"multikb-rag-be/internal/repository/contract"

	"gorm.io/gorm"
)

type SystemLogRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) contract.SystemLogRepository {
	return &SystemLogRepositoryImpl{db: db}
}

func (r *SystemLogRepositoryImpl) Create(ctx context.Context, log *model.SystemLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
