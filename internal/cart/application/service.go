package application

import (
	"context"

	"github.com/wyfcoding/pharmadelivery/internal/cart/domain"
)

// CartApplicationService 购物车服务门面，整合命令服务和查询服务
type CartApplicationService struct {
	commandService *CartCommandService
	queryService   *CartQueryService
}

// NewCartApplicationService 创建购物车服务门面实例
func NewCartApplicationService(
	repo domain.CartRepository,
	snapshots domain.SnapshotStore,
	publisher domain.EventPublisher,
) *CartApplicationService {
	return &CartApplicationService{
		commandService: NewCartCommandService(repo, snapshots, publisher),
		queryService:   NewCartQueryService(repo, snapshots),
	}
}

// GetCart 根据用户ID获取购物车信息
func (s *CartApplicationService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.queryService.GetCart(ctx, userID)
}

// GetCartTotal 获取购物车总金额
func (s *CartApplicationService) GetCartTotal(ctx context.Context, userID string) (float64, error) {
	return s.queryService.GetCartTotal(ctx, userID)
}

// GetCartItemCount 获取购物车商品总件数
func (s *CartApplicationService) GetCartItemCount(ctx context.Context, userID string) (int, error) {
	return s.queryService.GetCartItemCount(ctx, userID)
}

// AddItem 处理添加商品到购物车
func (s *CartApplicationService) AddItem(ctx context.Context, userID, medicineID, name string, price float64, image string, quantity int) error {
	cmd := AddItemCommand{
		UserID:     userID,
		MedicineID: medicineID,
		Name:       name,
		Price:      price,
		Image:      image,
		Quantity:   quantity,
	}
	return s.commandService.AddItem(ctx, cmd)
}

// RemoveItem 处理从购物车移除商品
func (s *CartApplicationService) RemoveItem(ctx context.Context, userID, medicineID string) error {
	cmd := RemoveItemCommand{
		UserID:     userID,
		MedicineID: medicineID,
	}
	return s.commandService.RemoveItem(ctx, cmd)
}

// UpdateQuantity 处理设置购物车商品数量
func (s *CartApplicationService) UpdateQuantity(ctx context.Context, userID, medicineID string, quantity int) error {
	cmd := UpdateQuantityCommand{
		UserID:     userID,
		MedicineID: medicineID,
		Quantity:   quantity,
	}
	return s.commandService.UpdateQuantity(ctx, cmd)
}

// ClearCart 处理清空购物车
func (s *CartApplicationService) ClearCart(ctx context.Context, userID string) error {
	cmd := ClearCartCommand{
		UserID: userID,
	}
	return s.commandService.ClearCart(ctx, cmd)
}
