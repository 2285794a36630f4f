package model

// 著者。削除すると本もまとめて消える
type Author struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"type:varchar(255);not null;index" json:"name"`
	Biography string `gorm:"type:text" json:"biography"`
}
