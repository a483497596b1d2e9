package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomanCsn/workshop-DFS/internal/domain/billing"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
)

const (
	billingID = "8f1c2a3b-4d5e-4f60-8a7b-9c0d1e2f3a4b"
	userID    = "1b2c3d4e-5f60-4a7b-8c9d-0e1f2a3b4c5d"
	lessonID  = "2c3d4e5f-6071-4b8c-9d0e-1f2a3b4c5d6e"
	serviceID = "3d4e5f60-7182-4c9d-8e1f-2a3b4c5d6e7f"
)

var serviceColumns = []string{"id", "billing_id", "user_id", "service_id", "amount", "service_type"}

func TestDeleteBillingRemovesServicesFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingGormRepository(db, zerolog.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "billings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "situation"}).AddRow(billingID, "UNPAYED"))
	mock.ExpectQuery(`SELECT \* FROM "performed_services" WHERE "performed_services"."billing_id" = \$1`).
		WithArgs(billingID).
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(serviceID, billingID, userID, lessonID, 40.0, "LESSON"))
	mock.ExpectExec(`DELETE FROM "performed_services" WHERE billing_id = \$1`).
		WithArgs(billingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "billings" WHERE id = \$1`).
		WithArgs(billingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.DeleteBilling(context.Background(), billingID)
	require.NoError(t, err)
	assert.Equal(t, billingID, deleted.ID)
	require.Len(t, deleted.Services, 1)
	assert.Equal(t, 40.0, deleted.Total())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBillingRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingGormRepository(db, zerolog.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "billings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(billingID))
	mock.ExpectQuery(`SELECT \* FROM "performed_services"`).
		WillReturnRows(sqlmock.NewRows(serviceColumns))
	mock.ExpectExec(`DELETE FROM "performed_services" WHERE billing_id = \$1`).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, err := repo.DeleteBilling(context.Background(), billingID)

	var storeErr *httperr.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "Failed to delete the billing.", storeErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBillingsByUserIDUsesSubquery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingGormRepository(db, zerolog.Nop())

	mock.ExpectQuery(`SELECT \* FROM "billings" WHERE id IN \(SELECT "?billing_id"? FROM "performed_services" WHERE user_id = \$1\) ORDER BY date DESC,id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "situation"}).AddRow(billingID, "PAYED"))
	mock.ExpectQuery(`SELECT \* FROM "performed_services" WHERE .*billing_id`).
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(serviceID, billingID, userID, lessonID, 25.5, "CARE"))

	billings, err := repo.GetBillingsByUserID(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, billings, 1)
	require.Len(t, billings[0].Services, 1)
	assert.Equal(t, userID, billings[0].Services[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBillingsByDateRangeOrdersByDateThenID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingGormRepository(db, zerolog.Nop())

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "billings" WHERE date >= \$1 AND date <= \$2 ORDER BY date DESC,id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	billings, err := repo.GetBillingsByDateRange(context.Background(), start, end, 1000, 1000)
	require.NoError(t, err)
	assert.Empty(t, billings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBillingWithServicesLoadsUserAndLesson(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	repo := NewBillingGormRepository(db, zerolog.Nop())

	mock.ExpectQuery(`SELECT \* FROM "billings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "situation"}).AddRow(billingID, "UNPAYED"))
	mock.ExpectQuery(`SELECT \* FROM "performed_services" WHERE "performed_services"."billing_id" = \$1`).
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(serviceID, billingID, userID, lessonID, 40.0, "LESSON"))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email"}).
			AddRow(userID, "Jane", "Rider", "jane@example.com"))
	mock.ExpectQuery(`SELECT \* FROM "lessons" WHERE "lessons"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "desc", "status"}).
			AddRow(lessonID, "Dressage", "FINISHED"))

	b, err := repo.GetBillingWithServices(context.Background(), billingID)
	require.NoError(t, err)
	require.Len(t, b.Services, 1)
	require.NotNil(t, b.Services[0].User)
	require.NotNil(t, b.Services[0].Lesson)
	assert.Equal(t, "jane@example.com", b.Services[0].User.Email)
	assert.Equal(t, "Dressage", b.Services[0].Lesson.Desc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBillingMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingGormRepository(db, zerolog.Nop())

	payed := billing.SituationPayed
	mock.ExpectExec(`UPDATE "billings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateBilling(context.Background(), billingID, billing.Patch{Situation: &payed})
	assert.ErrorIs(t, err, httperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
