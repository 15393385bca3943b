package application

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/pharmadelivery/internal/cart/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
)

// AddItemCommand 添加商品到购物车命令
type AddItemCommand struct {
	UserID     string
	MedicineID string
	Name       string
	Price      float64
	Image      string
	Quantity   int
}

// RemoveItemCommand 从购物车移除商品命令
type RemoveItemCommand struct {
	UserID     string
	MedicineID string
}

// UpdateQuantityCommand 设置购物车商品数量命令
type UpdateQuantityCommand struct {
	UserID     string
	MedicineID string
	Quantity   int
}

// ClearCartCommand 清空购物车命令
type ClearCartCommand struct {
	UserID string
}

// CartCommandService 购物车命令服务
// MySQL 为规范存储，Redis 快照为尽力而为的加速层：
// 快照写失败只记 warn，不影响命令结果
type CartCommandService struct {
	repo      domain.CartRepository
	snapshots domain.SnapshotStore
	publisher domain.EventPublisher
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	repo domain.CartRepository,
	snapshots domain.SnapshotStore,
	publisher domain.EventPublisher,
) *CartCommandService {
	return &CartCommandService{
		repo:      repo,
		snapshots: snapshots,
		publisher: publisher,
	}
}

// AddItem 处理添加商品到购物车
func (s *CartCommandService) AddItem(ctx context.Context, cmd AddItemCommand) error {
	cart, err := s.loadOrCreate(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	cart.AddItem(domain.LineItem{
		MedicineID: cmd.MedicineID,
		Name:       cmd.Name,
		Price:      cmd.Price,
		Image:      cmd.Image,
		Quantity:   cmd.Quantity,
	})
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}
	s.syncSnapshot(ctx, cart)

	event := domain.CartItemAddedEvent{
		UserID:     cart.UserID,
		MedicineID: cmd.MedicineID,
		Quantity:   cmd.Quantity,
		Price:      cmd.Price,
		Timestamp:  time.Now(),
	}
	s.publisher.Publish(ctx, domain.CartItemAddedTopic, cmd.UserID, event)

	return nil
}

// RemoveItem 处理从购物车移除商品
func (s *CartCommandService) RemoveItem(ctx context.Context, cmd RemoveItemCommand) error {
	cart, err := s.repo.GetByUserID(ctx, cmd.UserID)
	if errors.Is(err, domain.ErrCartNotFound) {
		// 购物车不存在时移除视为 no-op
		return nil
	}
	if err != nil {
		return err
	}

	cart.RemoveItem(cmd.MedicineID)
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}
	s.syncSnapshot(ctx, cart)

	event := domain.CartItemRemovedEvent{
		UserID:     cart.UserID,
		MedicineID: cmd.MedicineID,
		Timestamp:  time.Now(),
	}
	s.publisher.Publish(ctx, domain.CartItemRemovedTopic, cmd.UserID, event)

	return nil
}

// UpdateQuantity 设置商品数量，数量小于 1 时等价于移除
func (s *CartCommandService) UpdateQuantity(ctx context.Context, cmd UpdateQuantityCommand) error {
	cart, err := s.repo.GetByUserID(ctx, cmd.UserID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	cart.UpdateItemQuantity(cmd.MedicineID, cmd.Quantity)
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}
	s.syncSnapshot(ctx, cart)

	event := domain.CartQuantityChangedEvent{
		UserID:     cart.UserID,
		MedicineID: cmd.MedicineID,
		Quantity:   cmd.Quantity,
		Timestamp:  time.Now(),
	}
	s.publisher.Publish(ctx, domain.CartQuantityChangedTopic, cmd.UserID, event)

	return nil
}

// ClearCart 处理清空购物车
func (s *CartCommandService) ClearCart(ctx context.Context, cmd ClearCartCommand) error {
	err := s.repo.Delete(ctx, cmd.UserID)
	if err != nil && !errors.Is(err, domain.ErrCartNotFound) {
		return err
	}

	if err := s.snapshots.Drop(ctx, cmd.UserID); err != nil {
		logger.Warn(ctx, "failed to drop cart snapshot", "user_id", cmd.UserID, "error", err)
	}

	event := domain.CartClearedEvent{
		UserID:    cmd.UserID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, domain.CartClearedTopic, cmd.UserID, event)

	return nil
}

func (s *CartCommandService) loadOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return &domain.Cart{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartCommandService) syncSnapshot(ctx context.Context, cart *domain.Cart) {
	if err := s.snapshots.Store(ctx, cart.UserID, cart.Items); err != nil {
		logger.Warn(ctx, "failed to store cart snapshot", "user_id", cart.UserID, "error", err)
	}
}
