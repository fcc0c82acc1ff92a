// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/pkg/database"
	"go-inventory-api/pkg/mailer"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// It is limited to one connection, so code under test must not use the
// root handle inside a transaction callback.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string, role model.Role, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("secret-pass-1"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateProduct(t *testing.T, db *gorm.DB, sku string, stock, minStock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          "Product " + sku,
		SKU:           sku,
		Category:      "General",
		UnitPrice:     decimal.RequireFromString("9.99"),
		StockQuantity: stock,
		MinStockLevel: minStock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	if minStock == 0 {
		require.NoError(t, db.Model(product).Update("min_stock_level", 0).Error)
	}
	return product
}

func CreateSupplier(t *testing.T, db *gorm.DB, name string) *model.Supplier {
	t.Helper()
	supplier := &model.Supplier{
		Name:  name,
		Email: uuid.NewString() + "@supplier.test",
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

// CreatePurchaseOrder stores an order with one line per product
func CreatePurchaseOrder(t *testing.T, db *gorm.DB, supplier *model.Supplier, status model.PurchaseOrderStatus, lines map[uuid.UUID]int) *model.PurchaseOrder {
	t.Helper()
	order := &model.PurchaseOrder{
		SupplierID: supplier.ID,
		OrderDate:  time.Now().UTC(),
		Status:     status,
	}
	for productID, qty := range lines {
		order.Items = append(order.Items, model.PurchaseOrderItem{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: decimal.RequireFromString("5.00"),
		})
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func Stock(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var p model.Product
	require.NoError(t, db.First(&p, "id = ?", productID).Error)
	return p.StockQuantity
}

// LedgerSum is the total quantity_change recorded for a product
func LedgerSum(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var sum int
	require.NoError(t, db.Model(&model.InventoryTransaction{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity_change), 0)").
		Row().Scan(&sum))
	return sum
}

func Count(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

// RecordingPublisher remembers every product it is told about
type RecordingPublisher struct {
	mu       sync.Mutex
	Products []model.Product
}

func (p *RecordingPublisher) ProductSaved(_ context.Context, product *model.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Products = append(p.Products, *product)
}

func (p *RecordingPublisher) Saved() []model.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Product(nil), p.Products...)
}

type DirectMessage struct {
	UserIDs []uuid.UUID
	Payload interface{}
}

type RecordingBroadcaster struct {
	mu         sync.Mutex
	Broadcasts []interface{}
	Direct     []DirectMessage
}

func (b *RecordingBroadcaster) BroadcastJSON(v interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Broadcasts = append(b.Broadcasts, v)
}

func (b *RecordingBroadcaster) SendJSONToUsers(userIDs []uuid.UUID, v interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Direct = append(b.Direct, DirectMessage{UserIDs: userIDs, Payload: v})
}

type RecordingMailer struct {
	mu   sync.Mutex
	Sent []mailer.Message
	Err  error
}

func (m *RecordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return m.Err
}
