package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDeliveryRepository creates a GormDeliveryRepository with a mocked SQL connection
func newMockDeliveryRepository(t *testing.T) (*GormDeliveryRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDeliveryRepository(gormDB), mock, mockDB
}

func TestGormDeliveryRepository_FindByID(t *testing.T) {
	t.Run("finds existing delivery", func(t *testing.T) {
		repo, mock, mockDB := newMockDeliveryRepository(t)
		defer mockDB.Close()

		deliveryID := uuid.New()
		orderID := uuid.New()
		lineID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "order_id", "order_line_id", "delivered", "returned", "return_reason", "notes"}).
			AddRow(deliveryID, orderID, lineID, false, false, "", "")

		mock.ExpectQuery(`SELECT \* FROM "deliveries" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(deliveryID, 1).
			WillReturnRows(rows)

		delivery, err := repo.FindByID(context.Background(), deliveryID)

		assert.NoError(t, err)
		assert.NotNil(t, delivery)
		assert.Equal(t, orderID, delivery.OrderID)
		assert.Equal(t, lineID, delivery.OrderLineID)
		assert.True(t, delivery.IsPending())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent delivery", func(t *testing.T) {
		repo, mock, mockDB := newMockDeliveryRepository(t)
		defer mockDB.Close()

		deliveryID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "deliveries" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(deliveryID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		delivery, err := repo.FindByID(context.Background(), deliveryID)

		assert.Error(t, err)
		assert.Nil(t, delivery)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDeliveryRepository_FindByOrder(t *testing.T) {
	t.Run("finds deliveries for order", func(t *testing.T) {
		repo, mock, mockDB := newMockDeliveryRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "order_id", "order_line_id", "delivered", "returned", "return_reason"}).
			AddRow(uuid.New(), orderID, uuid.New(), false, false, "").
			AddRow(uuid.New(), orderID, uuid.New(), true, false, "")

		mock.ExpectQuery(`SELECT \* FROM "deliveries" WHERE order_id = \$1 ORDER BY created_at ASC`).
			WithArgs(orderID).
			WillReturnRows(rows)

		deliveries, err := repo.FindByOrder(context.Background(), orderID)

		assert.NoError(t, err)
		assert.Len(t, deliveries, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDeliveryRepository_FindPending(t *testing.T) {
	t.Run("excludes delivered and returned rows", func(t *testing.T) {
		repo, mock, mockDB := newMockDeliveryRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "order_id", "order_line_id", "delivered", "returned", "return_reason"}).
			AddRow(uuid.New(), uuid.New(), uuid.New(), false, false, "")

		mock.ExpectQuery(`SELECT \* FROM "deliveries" WHERE delivered = \$1 AND return_reason = '' ORDER BY created_at ASC`).
			WithArgs(false).
			WillReturnRows(rows)

		deliveries, err := repo.FindPending(context.Background())

		assert.NoError(t, err)
		assert.Len(t, deliveries, 1)
		assert.True(t, deliveries[0].IsPending())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDeliveryRepository_FindReturned(t *testing.T) {
	t.Run("matches both returned flag and override reason", func(t *testing.T) {
		repo, mock, mockDB := newMockDeliveryRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "order_id", "order_line_id", "delivered", "returned", "return_reason"}).
			AddRow(uuid.New(), uuid.New(), uuid.New(), false, true, "damaged").
			AddRow(uuid.New(), uuid.New(), uuid.New(), false, false, "customer refused")

		mock.ExpectQuery(`SELECT \* FROM "deliveries" WHERE returned = \$1 OR return_reason <> '' ORDER BY updated_at DESC`).
			WithArgs(true).
			WillReturnRows(rows)

		deliveries, err := repo.FindReturned(context.Background())

		assert.NoError(t, err)
		assert.Len(t, deliveries, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDeliveryRepository_SaveAll(t *testing.T) {
	t.Run("returns nil for empty batch", func(t *testing.T) {
		repo, _, mockDB := newMockDeliveryRepository(t)
		defer mockDB.Close()

		err := repo.SaveAll(context.Background(), nil)

		assert.NoError(t, err)
	})
}
