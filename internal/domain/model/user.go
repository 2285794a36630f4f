package model

import "time"

// ログインIDはemail
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`

	FullName    string `gorm:"type:varchar(255);not null" json:"full_name"`
	Wilaya      string `gorm:"type:varchar(2);not null" json:"wilaya"`
	Address     string `gorm:"type:text;not null" json:"address"`
	PostalCode  string `gorm:"type:varchar(10);not null" json:"postal_code"`
	PhoneNumber string `gorm:"type:varchar(20);not null" json:"phone_number"`

	IsActive bool `gorm:"not null;default:true" json:"-"`
	IsStaff  bool `gorm:"not null;default:false" json:"-"`

	LastLoginAt *time.Time `json:"-"`

	//プロフィール更新は週1回まで。登録時にも入る
	LastProfileUpdate time.Time `gorm:"not null" json:"last_profile_update"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// プロフィール更新の間隔
const ProfileUpdateInterval = 7 * 24 * time.Hour

// CanUpdateProfile は前回更新から7日を超えていればtrue
func (u User) CanUpdateProfile(now time.Time) bool {
	return now.Sub(u.LastProfileUpdate) > ProfileUpdateInterval
}
