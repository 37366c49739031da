package contract

import (
	"context"

	"multikb-rag-be/internal/model"
)

type SystemLogRepository interface {
	Create(ctx context.Context, log *model.SystemLog) error
}
