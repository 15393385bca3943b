// Package domain 包含购物车的领域模型
package domain

import (
	"math"

	"gorm.io/gorm"
)

// PlaceholderName 商品名称缺失时的占位名
const PlaceholderName = "Unknown Product"

// Cart 购物车聚合根
// 每个用户至多一个购物车，同一药品在购物车中至多一行
type Cart struct {
	gorm.Model `json:"-"`
	UserID     string     `gorm:"column:user_id;type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Items      []LineItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string { return "carts" }

// LineItem 购物车行项目
type LineItem struct {
	gorm.Model `json:"-"`
	CartID     uint    `gorm:"column:cart_id;index;not null" json:"-"`
	MedicineID string  `gorm:"column:medicine_id;type:varchar(36);not null" json:"medicine_id"`
	Name       string  `gorm:"column:name;type:varchar(255)" json:"name"`
	Price      float64 `gorm:"column:price;type:decimal(10,2)" json:"price"`
	Image      string  `gorm:"column:image;type:varchar(512)" json:"image"`
	Quantity   int     `gorm:"column:quantity;not null" json:"quantity"`
}

func (LineItem) TableName() string { return "cart_items" }

// normalize 在入车边界做一次性清洗，下游不再防御
func (i *LineItem) normalize() {
	if i.Name == "" {
		i.Name = PlaceholderName
	}
	if math.IsNaN(i.Price) || math.IsInf(i.Price, 0) || i.Price < 0 {
		i.Price = 0
	}
	if i.Quantity < 1 {
		i.Quantity = 1
	}
}

// AddItem 添加商品，同一 medicine_id 已存在时数量累加
func (c *Cart) AddItem(item LineItem) {
	item.normalize()
	for idx := range c.Items {
		if c.Items[idx].MedicineID == item.MedicineID {
			c.Items[idx].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem 移除商品，medicine_id 不存在时为 no-op
func (c *Cart) RemoveItem(medicineID string) {
	for idx := range c.Items {
		if c.Items[idx].MedicineID == medicineID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return
		}
	}
}

// UpdateItemQuantity 设置商品数量
// 数量小于 1 时直接移除该行，保证购物车中不存在数量为 0 的行
func (c *Cart) UpdateItemQuantity(medicineID string, quantity int) {
	if quantity < 1 {
		c.RemoveItem(medicineID)
		return
	}
	for idx := range c.Items {
		if c.Items[idx].MedicineID == medicineID {
			c.Items[idx].Quantity = quantity
			return
		}
	}
}

// Clear 清空购物车
func (c *Cart) Clear() {
	c.Items = nil
}

// Hydrate 用持久化快照整体重建行项目
// 替换而非合并现有状态；快照内重复的 medicine_id 数量累加
func (c *Cart) Hydrate(items []LineItem) {
	c.Items = nil
	for _, item := range items {
		c.AddItem(item)
	}
}

// Total 购物车小计 Σ(price × quantity)
func (c *Cart) Total() float64 {
	var t float64
	for _, item := range c.Items {
		t += item.Price * float64(item.Quantity)
	}
	return t
}

// ItemCount 购物车商品总件数 Σ quantity
func (c *Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Find 按 medicine_id 查找行项目
func (c *Cart) Find(medicineID string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.MedicineID == medicineID {
			return item, true
		}
	}
	return LineItem{}, false
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
