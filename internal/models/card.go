package models

import (
	"time"

	"github.com/lib/pq"
)

// Card types offered in the catalog.
const (
	CardTypeBasic    = "Basic"
	CardTypeStudent  = "Student"
	CardTypeCashback = "Cashback"
	CardTypeRewards  = "Rewards"
	CardTypeGold     = "Gold"
	CardTypeTravel   = "Travel"
	CardTypePlatinum = "Platinum"
	CardTypeBusiness = "Business"
	CardTypePremium  = "Premium"
)

// Card represents a credit card product in the catalog. Cards are reference
// data: written once by the dataset generator and never updated afterwards.
type Card struct {
	ID             int            `db:"id" json:"-"`
	CardID         string         `db:"card_id" json:"card_id"`
	Name           string         `db:"name" json:"name"`
	Issuer         string         `db:"issuer" json:"issuer"`
	Type           string         `db:"type" json:"type"`
	Benefits       pq.StringArray `db:"benefits" json:"benefits"`
	Eligibility    string         `db:"eligibility" json:"eligibility"`
	MinIncome      float64        `db:"min_income" json:"min_income"`
	JoiningFee     float64        `db:"joining_fee" json:"joining_fee"`
	AnnualFee      float64        `db:"annual_fee" json:"annual_fee"`
	InterestRate   float64        `db:"interest_rate" json:"interest_rate"`
	CreditLimitMin float64        `db:"credit_limit_min" json:"credit_limit_min"`
	CreditLimitMax float64        `db:"credit_limit_max" json:"credit_limit_max"`
	RewardRate     string         `db:"reward_rate" json:"reward_rate"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}

// PremiumTier reports whether the card sits in the high commission band.
func (c *Card) PremiumTier() bool {
	switch c.Type {
	case CardTypePremium, CardTypePlatinum, CardTypeBusiness:
		return true
	}
	return false
}

// MidTier reports whether the card sits in the middle commission band.
func (c *Card) MidTier() bool {
	switch c.Type {
	case CardTypeGold, CardTypeTravel, CardTypeRewards:
		return true
	}
	return false
}
