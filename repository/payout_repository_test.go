package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

func newMockRepo(t *testing.T) (*PayoutRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	return NewPayoutRepository(db), mock, func() { db.Close() }
}

func payoutRows(payouts ...models.Payout) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "restaurant_id", "waiter_id", "payout_type", "group_name", "amount",
		"payout_month", "status", "recipient_name", "recipient_account", "transaction_ref",
		"failure_reason", "processed_at", "created_at",
	})
	for _, p := range payouts {
		rows.AddRow(
			p.ID, p.RestaurantID, nullable(p.WaiterID), p.PayoutType, nullable(p.GroupName), p.Amount,
			p.PayoutMonth, p.Status, p.RecipientName, nullable(p.RecipientAccount), nullable(p.TransactionRef),
			nullable(p.FailureReason), p.ProcessedAt, p.CreatedAt,
		)
	}
	return rows
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func TestPayoutRepository_CreatePayout(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("INSERT INTO payouts").
		WithArgs("rest-1", "w1", utils.PayoutTypeWaiter, nil, 900.0, "2026-07",
			utils.PayoutStatusPending, "Amina", "254712345678").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	payout := &models.Payout{
		RestaurantID:     "rest-1",
		WaiterID:         "w1",
		PayoutType:       utils.PayoutTypeWaiter,
		Amount:           900,
		PayoutMonth:      "2026-07",
		RecipientName:    "Amina",
		RecipientAccount: "254712345678",
	}
	err := repo.CreatePayout(payout)
	assert.NoError(t, err)
	assert.Equal(t, 7, payout.ID)
	assert.Equal(t, utils.PayoutStatusPending, payout.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepository_CreatePayout_GroupPayoutHasNullWaiter(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("INSERT INTO payouts").
		WithArgs("rest-1", nil, utils.PayoutTypeGroup, "Kitchen", 450.0, "2026-07",
			utils.PayoutStatusPending, "Kitchen (unassigned)", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))

	err := repo.CreatePayout(&models.Payout{
		RestaurantID:  "rest-1",
		PayoutType:    utils.PayoutTypeGroup,
		GroupName:     "Kitchen",
		Amount:        450,
		PayoutMonth:   "2026-07",
		RecipientName: "Kitchen (unassigned)",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepository_HasPayoutsForMonth(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payouts").
		WithArgs("rest-1", "2026-07").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	exists, err := repo.HasPayoutsForMonth("rest-1", "2026-07")
	assert.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payouts").
		WithArgs("rest-1", "2026-08").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err = repo.HasPayoutsForMonth("rest-1", "2026-08")
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepository_GetPayoutByID(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	created := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM payouts WHERE id").
		WithArgs(7).
		WillReturnRows(payoutRows(models.Payout{
			ID: 7, RestaurantID: "rest-1", WaiterID: "w1", PayoutType: utils.PayoutTypeWaiter,
			Amount: 900, PayoutMonth: "2026-07", Status: utils.PayoutStatusPending,
			RecipientName: "Amina", RecipientAccount: "254712345678", CreatedAt: created,
		}))

	payout, err := repo.GetPayoutByID(7)
	assert.NoError(t, err)
	assert.Equal(t, "w1", payout.WaiterID)
	assert.Equal(t, "", payout.GroupName)
	assert.Nil(t, payout.ProcessedAt)
	assert.Equal(t, created, payout.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepository_GetPayoutByID_NotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM payouts WHERE id").
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPayoutByID(404)
	assert.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrTypeNotFound, appErr.Type)
}

func TestPayoutRepository_GetPendingByIDs(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM payouts WHERE id = ANY").
		WithArgs(pq.Array([]int{1, 2, 3}), utils.PayoutStatusPending).
		WillReturnRows(payoutRows(
			models.Payout{ID: 1, RestaurantID: "rest-1", PayoutType: utils.PayoutTypeWaiter, Status: utils.PayoutStatusPending, RecipientName: "Amina"},
			models.Payout{ID: 3, RestaurantID: "rest-1", PayoutType: utils.PayoutTypeGroup, GroupName: "Kitchen", Status: utils.PayoutStatusPending, RecipientName: "Brian"},
		))

	payouts, err := repo.GetPendingByIDs([]int{1, 2, 3})
	assert.NoError(t, err)
	assert.Len(t, payouts, 2)
	assert.Equal(t, "Kitchen", payouts[1].GroupName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepository_ClaimPayout(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec("UPDATE payouts SET status").
		WithArgs(utils.PayoutStatusProcessing, "PAYOUT-7-AAAA", 7, utils.PayoutStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	claimed, err := repo.ClaimPayout(7, "PAYOUT-7-AAAA")
	assert.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepository_ClaimPayout_LostRace(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// No row matched: another run already moved it out of pending
	mock.ExpectExec("UPDATE payouts SET status").
		WithArgs(utils.PayoutStatusProcessing, "PAYOUT-7-BBBB", 7, utils.PayoutStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.ClaimPayout(7, "PAYOUT-7-BBBB")
	assert.NoError(t, err)
	assert.False(t, claimed)
}

func TestPayoutRepository_MarkCompletedAndFailed(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	processedAt := time.Date(2026, 7, 31, 18, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE payouts SET status").
		WithArgs(utils.PayoutStatusCompleted, "MPESA-TXN-1", processedAt, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkCompleted(7, "MPESA-TXN-1", processedAt))

	mock.ExpectExec("UPDATE payouts SET status").
		WithArgs(utils.PayoutStatusFailed, "account blocked", processedAt, 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkFailed(8, "account blocked", processedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepository_ResetForRetry(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec("UPDATE payouts SET status").
		WithArgs(utils.PayoutStatusPending, 7, utils.PayoutStatusFailed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	reset, err := repo.ResetForRetry(7)
	assert.NoError(t, err)
	assert.True(t, reset)

	// Only failed payouts can be reset
	mock.ExpectExec("UPDATE payouts SET status").
		WithArgs(utils.PayoutStatusPending, 9, utils.PayoutStatusFailed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	reset, err = repo.ResetForRetry(9)
	assert.NoError(t, err)
	assert.False(t, reset)
}

func TestPayoutRepository_GetByReference(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM payouts WHERE transaction_ref").
		WithArgs("PAYOUT-7-AAAA").
		WillReturnRows(payoutRows(models.Payout{
			ID: 7, RestaurantID: "rest-1", PayoutType: utils.PayoutTypeWaiter,
			Status: utils.PayoutStatusProcessing, RecipientName: "Amina",
			TransactionRef: "PAYOUT-7-AAAA",
		}))

	payout, err := repo.GetByReference("PAYOUT-7-AAAA")
	assert.NoError(t, err)
	assert.Equal(t, 7, payout.ID)
	assert.Equal(t, utils.PayoutStatusProcessing, payout.Status)
}
