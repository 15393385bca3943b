// Package domain 包含药品目录的领域模型
package domain

import (
	"errors"

	"gorm.io/gorm"
)

// ErrMedicineNotFound 药品不存在
var ErrMedicineNotFound = errors.New("medicine not found")

// ErrInsufficientStock 库存不足
var ErrInsufficientStock = errors.New("insufficient stock")

// Medicine 药品
type Medicine struct {
	gorm.Model           `json:"-"`
	MedicineID           string  `gorm:"column:medicine_id;type:varchar(36);uniqueIndex;not null" json:"medicine_id"`
	Name                 string  `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	Description          string  `gorm:"column:description;type:text" json:"description"`
	Price                float64 `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Image                string  `gorm:"column:image;type:varchar(512)" json:"image"`
	Category             string  `gorm:"column:category;type:varchar(100);index" json:"category"`
	Manufacturer         string  `gorm:"column:manufacturer;type:varchar(255)" json:"manufacturer"`
	RequiresPrescription bool    `gorm:"column:requires_prescription;not null;default:false" json:"requires_prescription"`
	Stock                int     `gorm:"column:stock;not null;default:0" json:"stock"`
}

func (Medicine) TableName() string { return "medicines" }

// InStock 是否有足量库存
func (m *Medicine) InStock(quantity int) bool {
	return m.Stock >= quantity
}

// DeductStock 扣减库存
func (m *Medicine) DeductStock(quantity int) error {
	if !m.InStock(quantity) {
		return ErrInsufficientStock
	}
	m.Stock -= quantity
	return nil
}
