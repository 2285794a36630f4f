package model

import "time"

// ユーザーごとに1つだけ持つ不透明なBearerトークン
type AuthToken struct {
	Key       string    `gorm:"type:varchar(40);primaryKey" json:"-"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}
