package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Email         string          `db:"email" json:"email"`
	PasswordHash  *string         `db:"password_hash" json:"-"`
	Name          string          `db:"name" json:"name"`
	Currency      string          `db:"currency" json:"currency"`
	MonthlyIncome decimal.Decimal `db:"monthly_income" json:"monthlyIncome"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}
