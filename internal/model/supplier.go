package model

// Supplier represents a vendor who provides products
type Supplier struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	ContactInfo string `gorm:"type:text" json:"contact_info"`
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone       string `gorm:"type:varchar(255)" json:"phone"`
}
