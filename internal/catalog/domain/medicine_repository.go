package domain

import "context"

// MedicineRepository 药品仓储接口
type MedicineRepository interface {
	Save(ctx context.Context, medicine *Medicine) error
	// GetByMedicineID 不存在时返回 ErrMedicineNotFound
	GetByMedicineID(ctx context.Context, medicineID string) (*Medicine, error)
	// List 按分类分页列出，category 为空时不过滤
	List(ctx context.Context, category string, offset, limit int) ([]Medicine, int64, error)
	// Search 按名称模糊查询
	Search(ctx context.Context, keyword string, offset, limit int) ([]Medicine, int64, error)
}
