package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/cardwise/coach_api/internal/models"
)

// CardRepository provides data access methods for the cards table.
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

const cardColumns = `id, card_id, name, issuer, type, benefits, eligibility, min_income,
	joining_fee, annual_fee, interest_rate, credit_limit_min, credit_limit_max,
	reward_rate, created_at`

// GetByCardID finds a card by its public identifier.
func (r *CardRepository) GetByCardID(cardID string) (*models.Card, error) {
	const q = `SELECT ` + cardColumns + ` FROM cards WHERE card_id = $1 LIMIT 1`
	var c models.Card
	if err := r.db.Get(&c, q, cardID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}

// List retrieves the full card catalog ordered by card identifier.
func (r *CardRepository) List() ([]models.Card, error) {
	const q = `SELECT ` + cardColumns + ` FROM cards ORDER BY card_id ASC`
	var cards []models.Card
	if err := r.db.Select(&cards, q); err != nil {
		return nil, err
	}
	return cards, nil
}

// ListByIDs retrieves the cards matching the given public identifiers.
func (r *CardRepository) ListByIDs(cardIDs []string) ([]models.Card, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(`SELECT `+cardColumns+` FROM cards WHERE card_id IN (?) ORDER BY card_id ASC`, cardIDs)
	if err != nil {
		return nil, err
	}
	q = r.db.Rebind(q)
	var cards []models.Card
	if err := r.db.Select(&cards, q, args...); err != nil {
		return nil, err
	}
	return cards, nil
}

// Count returns the number of cards in the catalog.
func (r *CardRepository) Count() (int, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM cards`); err != nil {
		return 0, err
	}
	return n, nil
}

// BulkInsert writes generated cards inside a single transaction.
func (r *CardRepository) BulkInsert(cards []models.Card) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `INSERT INTO cards (card_id, name, issuer, type, benefits, eligibility, min_income,
	               joining_fee, annual_fee, interest_rate, credit_limit_min, credit_limit_max, reward_rate)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	stmt, err := tx.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range cards {
		c := &cards[i]
		if _, err := stmt.Exec(
			c.CardID, c.Name, c.Issuer, c.Type, c.Benefits, c.Eligibility, c.MinIncome,
			c.JoiningFee, c.AnnualFee, c.InterestRate, c.CreditLimitMin, c.CreditLimitMax, c.RewardRate,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteAll wipes the catalog ahead of a dataset regeneration.
func (r *CardRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM cards`)
	return err
}
