package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/router"
	"go-inventory-api/internal/testutil"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServer struct {
	app    *fiber.App
	db     *gorm.DB
	tokens *jwt.Manager
	mail   *testutil.RecordingMailer
}

func newTestServer(t *testing.T) *testServer {
	db := testutil.NewDB(t)
	tokens := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	mail := &testutil.RecordingMailer{}
	app := router.New(router.Deps{
		DB:          db,
		Tokens:      tokens,
		Mailer:      mail,
		Hub:         ws.NewHub(zap.NewNop()),
		Log:         zap.NewNop(),
		CORSOrigins: "*",
	})
	return &testServer{app: app, db: db, tokens: tokens, mail: mail}
}

func (s *testServer) tokenFor(t *testing.T, user *model.User) string {
	pair, err := s.tokens.GeneratePair(user.ID, user.Username, user.Role)
	require.NoError(t, err)
	return pair.Access
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m), string(data))
	return m
}

func TestUnauthenticatedIsRejected(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/products", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateProduct_RoleGate(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, "staff", model.RoleStaff, "")
	manager := testutil.CreateUser(t, s.db, "manager", model.RoleManager, "")
	body := map[string]interface{}{"name": "Keyboard", "sku": "KEY-001", "unit_price": "49.99", "stock_quantity": 100}

	resp, _ := s.do(t, http.MethodPost, "/api/v1/products", s.tokenFor(t, staff), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, testutil.Count(t, s.db, &model.Product{}))

	resp, data := s.do(t, http.MethodPost, "/api/v1/products", s.tokenFor(t, manager), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	assert.Equal(t, "KEY-001", decode(t, data)["sku"])

	var stored model.Product
	require.NoError(t, s.db.First(&stored, "sku = ?", "KEY-001").Error)
	assert.Equal(t, 100, stored.StockQuantity)
}

func TestCreateSalesOrder_HTTP(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, "staff", model.RoleStaff, "")
	product := testutil.CreateProduct(t, s.db, "KEY-001", 100, 10)

	resp, data := s.do(t, http.MethodPost, "/api/v1/sales-orders", s.tokenFor(t, staff), map[string]interface{}{
		"customer_name": "Jane",
		"items": []map[string]interface{}{
			{"product": product.ID, "quantity": 10, "unit_price": "49.99"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	assert.Equal(t, 90, testutil.Stock(t, s.db, product.ID))

	var sale model.InventoryTransaction
	require.NoError(t, s.db.First(&sale).Error)
	assert.Equal(t, model.TxSale, sale.TransactionType)
	assert.Equal(t, -10, sale.QuantityChange)
}

func TestCreateSalesOrder_OversellHTTP(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, "staff", model.RoleStaff, "")
	product := testutil.CreateProduct(t, s.db, "KEY-001", 5, 1)

	resp, data := s.do(t, http.MethodPost, "/api/v1/sales-orders", s.tokenFor(t, staff), map[string]interface{}{
		"items": []map[string]interface{}{{"product": product.ID, "quantity": 6, "unit_price": "1.00"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Not enough stock for Product KEY-001.", decode(t, data)["error"])
	assert.Equal(t, 5, testutil.Stock(t, s.db, product.ID))
	assert.Zero(t, testutil.Count(t, s.db, &model.SalesOrderItem{}))
}

func TestReceivePurchaseOrder_HTTP(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, "staff", model.RoleStaff, "")
	manager := testutil.CreateUser(t, s.db, "manager", model.RoleManager, "")
	product := testutil.CreateProduct(t, s.db, "KEY-001", 100, 10)
	po := testutil.CreatePurchaseOrder(t, s.db, testutil.CreateSupplier(t, s.db, "Acme"), model.POStatusPending, map[uuid.UUID]int{product.ID: 50})
	path := "/api/v1/purchase-orders/" + po.ID.String() + "/receive"

	resp, _ := s.do(t, http.MethodPost, path, s.tokenFor(t, staff), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data := s.do(t, http.MethodPost, path, s.tokenFor(t, manager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "Order received and stock updated.", decode(t, data)["status"])
	assert.Equal(t, 150, testutil.Stock(t, s.db, product.ID))

	resp, data = s.do(t, http.MethodPost, path, s.tokenFor(t, manager), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "this order has already been received", decode(t, data)["error"])

	resp, _ = s.do(t, http.MethodPost, "/api/v1/purchase-orders/"+uuid.NewString()+"/receive", s.tokenFor(t, manager), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurchaseOrderCreate_StaffForbidden(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, "staff", model.RoleStaff, "")
	supplier := testutil.CreateSupplier(t, s.db, "Acme")
	product := testutil.CreateProduct(t, s.db, "KEY-001", 1, 1)

	resp, _ := s.do(t, http.MethodPost, "/api/v1/purchase-orders", s.tokenFor(t, staff), map[string]interface{}{
		"supplier": supplier.ID,
		"items":    []map[string]interface{}{{"product": product.ID, "quantity": 1, "unit_price": "1.00"}},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRegisterAndLogin_HTTP(t *testing.T) {
	s := newTestServer(t)

	resp, data := s.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "alice", "password": "correct-horse", "password2": "battery-staple",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "password", decode(t, data)["field"])

	resp, data = s.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "alice", "password": "correct-horse", "password2": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	assert.Equal(t, "Staff", decode(t, data)["role"])

	resp, data = s.do(t, http.MethodPost, "/api/v1/token", "", map[string]string{
		"username": "alice", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	access, _ := decode(t, data)["access"].(string)
	require.NotEmpty(t, access)

	resp, data = s.do(t, http.MethodGet, "/api/v1/users/me", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", decode(t, data)["username"])

	resp, _ = s.do(t, http.MethodPost, "/api/v1/token", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestQRCode(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, "staff", model.RoleStaff, "")
	testutil.CreateProduct(t, s.db, "KEY-001", 1, 1)

	resp, data := s.do(t, http.MethodGet, "/api/v1/products/KEY-001/qrcode", s.tokenFor(t, staff), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	resp, _ = s.do(t, http.MethodGet, "/api/v1/products/NOPE/qrcode", s.tokenFor(t, staff), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserAdministration_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	admin := testutil.CreateUser(t, s.db, "admin", model.RoleAdmin, "")
	manager := testutil.CreateUser(t, s.db, "manager", model.RoleManager, "")
	bob := testutil.CreateUser(t, s.db, "bob", model.RoleStaff, "")
	path := "/api/v1/users/" + bob.ID.String() + "/role"

	resp, _ := s.do(t, http.MethodPut, path, s.tokenFor(t, manager), map[string]string{"role": "Manager"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data := s.do(t, http.MethodPut, path, s.tokenFor(t, admin), map[string]string{"role": "Owner"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))

	resp, data = s.do(t, http.MethodPut, path, s.tokenFor(t, admin), map[string]string{"role": "Manager"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "Manager", decode(t, data)["role"])

	resp, _ = s.do(t, http.MethodDelete, "/api/v1/users/"+bob.ID.String(), s.tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLedgerAndAudit_HTTP(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, "staff", model.RoleStaff, "")
	manager := testutil.CreateUser(t, s.db, "manager", model.RoleManager, "")
	product := testutil.CreateProduct(t, s.db, "KEY-001", 100, 10)

	resp, _ := s.do(t, http.MethodPost, "/api/v1/sales-orders", s.tokenFor(t, staff), map[string]interface{}{
		"items": []map[string]interface{}{{"product": product.ID, "quantity": 2, "unit_price": "1.00"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, data := s.do(t, http.MethodGet, "/api/v1/transactions?transaction_type=Sale", s.tokenFor(t, staff), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decode(t, data)["count"])

	resp, _ = s.do(t, http.MethodGet, "/api/v1/transactions?transaction_type=Refund", s.tokenFor(t, staff), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = s.do(t, http.MethodGet, "/api/v1/transactions/export", s.tokenFor(t, staff), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))

	resp, _ = s.do(t, http.MethodGet, "/api/v1/audit-logs", s.tokenFor(t, staff), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data = s.do(t, http.MethodGet, "/api/v1/audit-logs?entity_type=sales_order", s.tokenFor(t, manager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decode(t, data)["count"])
}

func TestDashboardStats_HTTP(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, "staff", model.RoleStaff, "")
	testutil.CreateProduct(t, s.db, "KEY-001", 100, 10)
	testutil.CreateProduct(t, s.db, "LOW-001", 2, 10)

	resp, data := s.do(t, http.MethodGet, "/api/v1/dashboard-stats", s.tokenFor(t, staff), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	stats := decode(t, data)
	assert.Equal(t, float64(2), stats["total_products"])
	assert.Equal(t, float64(1), stats["low_stock_count"])
	items, _ := stats["low_stock_items"].([]interface{})
	assert.Len(t, items, 1)
}
