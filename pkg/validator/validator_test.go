package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineItem struct {
	ProductID uuid.UUID       `json:"product" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

type order struct {
	Customer string     `json:"customer_name" validate:"max=10"`
	Items    []lineItem `json:"items" validate:"required,min=1,dive"`
}

func TestValidateStruct_Valid(t *testing.T) {
	o := order{Items: []lineItem{{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("9.99")}}}
	assert.Empty(t, ValidateStruct(&o))
}

func TestValidateStruct_ReportsJSONPaths(t *testing.T) {
	o := order{Items: []lineItem{{ProductID: uuid.New(), Quantity: 0, UnitPrice: decimal.Zero}}}

	errs := ValidateStruct(&o)
	require.Len(t, errs, 1)
	assert.Equal(t, "items[0].quantity", errs[0].FailedField)
	assert.Equal(t, "gt", errs[0].Tag)
}

func TestValidateStruct_UUIDRequired(t *testing.T) {
	o := order{Items: []lineItem{{Quantity: 1}}}

	errs := ValidateStruct(&o)
	require.Len(t, errs, 1)
	assert.Equal(t, "items[0].product", errs[0].FailedField)
	assert.Equal(t, "uuid_required", errs[0].Tag)
}

func TestValidateStruct_NegativeDecimal(t *testing.T) {
	o := order{Items: []lineItem{{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}}

	errs := ValidateStruct(&o)
	require.Len(t, errs, 1)
	assert.Equal(t, "items[0].unit_price", errs[0].FailedField)
}

func TestValidateStruct_EmptyItems(t *testing.T) {
	errs := ValidateStruct(&order{})
	require.NotEmpty(t, errs)
	assert.Equal(t, "items", errs[0].FailedField)
}
