package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

func TestCreatePerformedServiceWithBilling(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPerformedServiceGormRepository(db, zerolog.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "billings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "performed_services"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s, err := repo.CreatePerformedServiceWithBilling(context.Background(), &models.PerformedService{
		UserID:    userID,
		ServiceID: lessonID,
		Amount:    30,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, s.BillingID)
	assert.Equal(t, "LESSON", s.ServiceType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePerformedServiceWithBillingRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPerformedServiceGormRepository(db, zerolog.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "billings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "performed_services"`).WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	_, err := repo.CreatePerformedServiceWithBilling(context.Background(), &models.PerformedService{
		UserID:    userID,
		ServiceID: lessonID,
	})

	var storeErr *httperr.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "Failed to create the service.", storeErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
