package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/utils"
)

func newScriptService(agents []models.Agent, cards []models.Card, sales []models.Sale) *ScriptService {
	return NewScriptService(&fakeCards{cards: cards}, &fakeAgents{agents: agents}, &fakeSales{sales: sales})
}

func TestCreateScriptUnknownCard(t *testing.T) {
	svc := newScriptService(nil, nil, nil)

	_, err := svc.CreateScript("CC9999", "")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateScriptUnknownAgent(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}
	svc := newScriptService(nil, cards, nil)

	_, err := svc.CreateScript("CC10001", "AG9999")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateScriptWithoutAgent(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}
	svc := newScriptService(nil, cards, nil)

	script, err := svc.CreateScript("CC10001", "")
	require.NoError(t, err)

	assert.Equal(t, "CC10001", script.CardID)
	assert.Equal(t, "Regalia Gold", script.CardName)
	assert.Contains(t, script.Introduction, "your advisor")
	assert.Contains(t, script.Introduction, "Regalia Gold")
	assert.Contains(t, script.Introduction, "HDFC Bank")
	assert.NotEmpty(t, script.Qualification)
	assert.NotEmpty(t, script.Closing)
	assert.Len(t, script.ApplicationProcess, 4)

	// Known benefits get the expanded pitch.
	require.Len(t, script.BenefitsPitch, 2)
	assert.Contains(t, script.BenefitsPitch[0], "Fuel surcharge waiver")
	assert.Contains(t, script.BenefitsPitch[0], "save on every tank")
}

func TestCreateScriptPersonalized(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}
	svc := newScriptService([]models.Agent{testAgent("AG1001")}, cards, nil)

	script, err := svc.CreateScript("CC10001", "AG1001")
	require.NoError(t, err)
	assert.Contains(t, script.Introduction, "Priya Sharma")
}

func TestCreateScriptObjectionCap(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}
	sales := []models.Sale{
		testSale("AG1001", "CC10001", models.SaleStatusRejected, 0, "2026-01-05"),
		testSale("AG1002", "CC10001", models.SaleStatusRejected, 0, "2026-01-06"),
	}
	svc := newScriptService(nil, cards, sales)

	script, err := svc.CreateScript("CC10001", "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(script.ObjectionHandling), 5)
	// Observed objections are listed before the common ones.
	assert.Equal(t, "Low credit score", script.ObjectionHandling[0].Concern)
	assert.Equal(t, 2, script.ObjectionHandling[0].Frequency)
}

func TestObjectionHandlingUnknownCard(t *testing.T) {
	svc := newScriptService(nil, nil, nil)

	_, err := svc.ObjectionHandling("CC9999")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestObjectionHandlingOrdering(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}

	low := "Low credit score"
	income := "Insufficient income"
	docs := "Incomplete documentation"
	mk := func(reason string) models.Sale {
		s := testSale("AG1001", "CC10001", models.SaleStatusRejected, 0, "2026-01-05")
		s.RejectionReason = &reason
		return s
	}
	sales := []models.Sale{
		mk(income), mk(income), mk(income),
		mk(low), mk(low),
		mk(docs), mk(docs),
	}
	svc := newScriptService(nil, cards, sales)

	guide, err := svc.ObjectionHandling("CC10001")
	require.NoError(t, err)

	assert.Len(t, guide.Common, len(commonObjections))
	require.Len(t, guide.Observed, 3)
	// Frequency descending, then concern ascending for ties.
	assert.Equal(t, income, guide.Observed[0].Concern)
	assert.Equal(t, 3, guide.Observed[0].Frequency)
	assert.Equal(t, docs, guide.Observed[1].Concern)
	assert.Equal(t, low, guide.Observed[2].Concern)

	for _, o := range guide.Observed {
		assert.NotEmpty(t, o.Response)
	}
}
