package model

// All returns every persisted model, in dependency order for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&Supplier{},
		&Product{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
		&SalesOrder{},
		&SalesOrderItem{},
		&InventoryTransaction{},
		&AuditLog{},
	}
}
