package model

import "time"

// サーバー側セッション。Dataはキーごとの JSON
type Session struct {
	Key      string    `gorm:"type:varchar(64);primaryKey"`
	Data     string    `gorm:"type:text;not null"`
	ExpireAt time.Time `gorm:"not null;index"`
}
