package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Order(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleManager))
	assert.True(t, RoleManager.AtLeast(RoleManager))
	assert.True(t, RoleManager.AtLeast(RoleStaff))
	assert.False(t, RoleStaff.AtLeast(RoleManager))
	assert.False(t, Role("root").AtLeast(RoleStaff))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, r)

	_, err = ParseRole("manager")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRole_UnmarshalJSON(t *testing.T) {
	var body struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"Admin"}`), &body))
	assert.Equal(t, RoleAdmin, body.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"Owner"}`), &body))
}

func TestPurchaseOrderStatus_Transitions(t *testing.T) {
	assert.True(t, POStatusPending.CanTransitionTo(POStatusShipped))
	assert.True(t, POStatusPending.CanTransitionTo(POStatusReceived))
	assert.True(t, POStatusShipped.CanTransitionTo(POStatusReceived))
	assert.False(t, POStatusShipped.CanTransitionTo(POStatusPending))
	assert.False(t, POStatusReceived.CanTransitionTo(POStatusShipped))
	assert.False(t, POStatusReceived.CanTransitionTo(POStatusReceived))
}

func TestProduct_IsLowStock(t *testing.T) {
	p := Product{StockQuantity: 10, MinStockLevel: 10}
	assert.True(t, p.IsLowStock())
	p.StockQuantity = 11
	assert.False(t, p.IsLowStock())
}
