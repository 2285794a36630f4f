package usecase

import (
	"context"
	"time"

	"zajil/internal/domain/model"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 入力DTOのタグ検証（internal/validator）
type Validator interface {
	Validate(i interface{}) error
}

// 注文確定後の通知（メール・イベント）。失敗しても注文は取り消さない
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order model.Order) error
}
