package service

import (
	"bytes"
	"testing"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func seedLedger(t *testing.T) (LedgerService, *gorm.DB, *model.Product, *model.Product) {
	db := testutil.NewDB(t)
	keyboard := testutil.CreateProduct(t, db, "KEY-001", 100, 10)
	mouse := testutil.CreateProduct(t, db, "MOU-001", 100, 10)
	user := testutil.CreateUser(t, db, "staff", model.RoleStaff, "")

	entries := []model.InventoryTransaction{
		{ProductID: keyboard.ID, TransactionType: model.TxPurchase, QuantityChange: 50, Timestamp: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{ProductID: keyboard.ID, TransactionType: model.TxSale, QuantityChange: -10, Timestamp: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)},
		{ProductID: mouse.ID, TransactionType: model.TxSale, QuantityChange: -3, Timestamp: time.Date(2024, 1, 3, 23, 30, 0, 0, time.UTC)},
		{ProductID: mouse.ID, TransactionType: model.TxAdjustment, QuantityChange: 2, Timestamp: time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC), Reason: "Recount"},
	}
	for i := range entries {
		entries[i].UserID = &user.ID
		require.NoError(t, db.Create(&entries[i]).Error)
	}
	return NewLedgerService(repository.NewTransactionRepo(db)), db, keyboard, mouse
}

func TestLedgerList_NewestFirst(t *testing.T) {
	svc, _, _, _ := seedLedger(t)

	page, err := svc.List(LedgerQuery{})
	require.NoError(t, err)
	require.Len(t, page.Results, 4)
	assert.Equal(t, int64(4), page.Count)
	assert.Equal(t, model.TxAdjustment, page.Results[0].TransactionType)
	assert.Equal(t, model.TxPurchase, page.Results[3].TransactionType)
	require.NotNil(t, page.Results[0].Product)
	require.NotNil(t, page.Results[0].User)
	assert.Equal(t, "staff", page.Results[0].User.Username)
}

func TestLedgerList_FilterByType(t *testing.T) {
	svc, _, _, _ := seedLedger(t)

	page, err := svc.List(LedgerQuery{TransactionType: "Sale"})
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	for _, e := range page.Results {
		assert.Equal(t, model.TxSale, e.TransactionType)
	}
}

func TestLedgerList_InclusiveBounds(t *testing.T) {
	svc, _, _, _ := seedLedger(t)

	page, err := svc.List(LedgerQuery{
		From: "2024-01-02T12:00:00Z",
		To:   "2024-01-03T23:30:00Z",
	})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)

	// a bare upper date covers the whole day
	page, err = svc.List(LedgerQuery{From: "2024-01-02", To: "2024-01-03"})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)

	page, err = svc.List(LedgerQuery{From: "2024-01-04"})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Recount", page.Results[0].Reason)
}

func TestLedgerList_FilterByProductAndPaginate(t *testing.T) {
	svc, _, keyboard, _ := seedLedger(t)

	page, err := svc.List(LedgerQuery{ProductID: keyboard.ID.String()})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)

	page, err = svc.List(LedgerQuery{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Count)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Results, 1)
	assert.Equal(t, model.TxPurchase, page.Results[0].TransactionType)
}

func TestLedgerList_BadFilters(t *testing.T) {
	svc, _, _, _ := seedLedger(t)

	cases := map[string]LedgerQuery{
		"transaction_type": {TransactionType: "Refund"},
		"timestamp__gte":   {From: "yesterday"},
		"timestamp__lte":   {To: "2024-13-45"},
		"product_id":       {ProductID: "not-a-uuid"},
	}
	for field, q := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := svc.List(q)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, field, vErr.Field)
		})
	}
}

func TestLedgerGet(t *testing.T) {
	svc, db, _, _ := seedLedger(t)

	var first model.InventoryTransaction
	require.NoError(t, db.First(&first).Error)

	got, err := svc.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = svc.Get(uuid.New())
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestLedgerExport(t *testing.T) {
	svc, _, _, _ := seedLedger(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(LedgerQuery{TransactionType: "Sale"}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ledger")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Timestamp", rows[0][0])
	assert.Equal(t, "MOU-001", rows[1][2])
	assert.Equal(t, "Sale", rows[1][3])
	assert.Equal(t, "-3", rows[1][4])
	assert.Equal(t, "staff", rows[1][5])
}
