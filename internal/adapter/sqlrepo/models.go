package sqlrepo

import (
	"encoding/json"
	"time"

	"flabi/internal/domain"
)

type postModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Title     string    `gorm:"not null"`
	Text      string    `gorm:"not null"`
	Images    string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (postModel) TableName() string { return "posts" }

func (m postModel) toDomain() domain.BlogPost {
	return domain.BlogPost{
		ID:        m.ID,
		Title:     m.Title,
		Body:      m.Text,
		Images:    domain.NormalizeImages([]byte(m.Images)),
		CreatedAt: m.CreatedAt,
	}
}

func encodeImages(images []string) string {
	if images == nil {
		images = []string{}
	}
	raw, _ := json.Marshal(images)
	return string(raw)
}

type pledgeModel struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"not null"`
	AmountPerKm float64 `gorm:"column:amount_per_km;not null"`
	Country     string
	CreatedAt   time.Time `gorm:"index"`
}

func (pledgeModel) TableName() string { return "pledges_per_km" }

type donationModel struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Name      string  `gorm:"not null"`
	Amount    float64 `gorm:"not null"`
	Country   string
	CreatedAt time.Time `gorm:"index"`
}

func (donationModel) TableName() string { return "donations_fixed" }

type statusModel struct {
	ID        int     `gorm:"primaryKey;autoIncrement:false"`
	Lat       float64 `gorm:"not null"`
	Lng       float64 `gorm:"not null"`
	Km        float64 `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (statusModel) TableName() string { return "status" }

type adminModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (adminModel) TableName() string { return "admins" }

var migrateModels = []any{
	&postModel{},
	&pledgeModel{},
	&donationModel{},
	&statusModel{},
	&adminModel{},
}
