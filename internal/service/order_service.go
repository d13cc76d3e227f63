package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"twyst/internal/catalog"
	"twyst/internal/domain"
	"twyst/internal/pricing"
	"twyst/internal/repository"
)

var (
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// statusGraph допустимые переходы статуса заказа; движение только вперёд
var statusGraph = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusProcessing: {domain.OrderStatusShipped, domain.OrderStatusCancelled},
	domain.OrderStatusShipped:    {domain.OrderStatusCompleted, domain.OrderStatusCancelled},
}

func canTransition(from, to domain.OrderStatus) bool {
	for _, next := range statusGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RefundRequest заявка пользователя на возврат заказа
type RefundRequest struct {
	ReasonType  string
	Description string
	Images      []string
}

// OrderService оформление заказа и его жизненный цикл.
//
// Переходы статуса (Processing -> Shipped -> Completed, отмена из Processing
// или Shipped) инициируются внешним симулированным событием фулфилмента,
// сервис сам их не планирует.
type OrderService struct {
	catalog *catalog.Catalog
	carts   repository.CartRepository
	orders  repository.OrderRepository
	users   repository.UserRepository
	tx      repository.TxManager
	log     *zap.Logger

	// имитация обработки платежа перед материализацией заказа
	checkoutDelay time.Duration

	// guard: не более одного оформления на пользователя одновременно
	mu       sync.Mutex
	inFlight map[string]struct{}

	now func() time.Time
}

func NewOrderService(cat *catalog.Catalog, carts repository.CartRepository, orders repository.OrderRepository, users repository.UserRepository, tx repository.TxManager, log *zap.Logger, checkoutDelay time.Duration) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		catalog:       cat,
		carts:         carts,
		orders:        orders,
		users:         users,
		tx:            tx,
		log:           log,
		checkoutDelay: checkoutDelay,
		inFlight:      make(map[string]struct{}),
		now:           time.Now,
	}
}

func (s *OrderService) acquire(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[email]; busy {
		return false
	}
	s.inFlight[email] = struct{}{}
	return true
}

func (s *OrderService) release(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, email)
}

// Checkout оформляет заказ из текущей корзины: рассчитывает стоимость,
// выдерживает имитационную задержку, создаёт заказ со снимком позиций,
// начисляет пользователю floor(total) баллов и очищает корзину
func (s *OrderService) Checkout(ctx context.Context, email, couponCode, shippingID string) (*domain.Order, error) {
	if email == "" || shippingID == "" {
		return nil, ErrInvalidInput
	}
	if !s.acquire(email) {
		return nil, ErrCheckoutInProgress
	}
	defer s.release(email)

	var coupon *domain.Coupon
	if couponCode != "" {
		c, err := s.catalog.Coupon(couponCode)
		if err != nil {
			return nil, err
		}
		coupon = &c
	}
	shipping, err := s.catalog.ShippingOption(shippingID)
	if err != nil {
		return nil, err
	}

	// up-front validation so the delay is not spent on a cart that cannot check out
	lines, err := s.carts.Lines(ctx, email)
	if err != nil {
		return nil, err
	}
	if _, err := pricing.Quote(lines, coupon, shipping); err != nil {
		return nil, err
	}

	if s.checkoutDelay > 0 {
		t := time.NewTimer(s.checkoutDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	var created *domain.Order
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// re-read inside the lock: the cart may have changed during the delay
		lines, err := s.carts.Lines(ctx, email)
		if err != nil {
			return err
		}
		breakdown, err := pricing.Quote(lines, coupon, shipping)
		if err != nil {
			return err
		}

		sm := shipping
		o := domain.Order{
			ID:             newOrderID(s.now()),
			UserEmail:      email,
			Date:           s.now().UTC(),
			Items:          append([]domain.CartLine(nil), lines...),
			Subtotal:       breakdown.Subtotal,
			Discount:       breakdown.Discount,
			ShippingCost:   breakdown.ShippingCost,
			Total:          breakdown.Total,
			CouponCode:     breakdown.CouponCode,
			ShippingMethod: &sm,
			Status:         domain.OrderStatusProcessing,
			RefundStatus:   domain.RefundStatusNone,
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}

		// 1 point per dollar spent
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		u.Points += int64(math.Floor(breakdown.Total))
		u.Tier = s.catalog.TierFor(u.Points)
		if err := s.users.Update(ctx, u); err != nil {
			return err
		}

		if err := s.carts.Clear(ctx, email); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order placed",
		zap.String("order_id", created.ID),
		zap.String("user", email),
		zap.Float64("total", created.Total))
	return created, nil
}

// Orders возвращает заказы пользователя в порядке создания
func (s *OrderService) Orders(ctx context.Context, email string) ([]domain.Order, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.ListByUser(ctx, email)
}

// Order возвращает заказ пользователя по id
func (s *OrderService) Order(ctx context.Context, email, id string) (*domain.Order, error) {
	if email == "" || id == "" {
		return nil, ErrInvalidInput
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserEmail != email {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

// RequestRefund подаёт заявку на возврат. Допустимо только для заказов в
// статусе Shipped или Completed без активной или завершённой заявки.
// Сумма и статус заказа не меняются.
func (s *OrderService) RequestRefund(ctx context.Context, email, id string, req RefundRequest) (*domain.Order, error) {
	if email == "" || id == "" || req.ReasonType == "" {
		return nil, ErrInvalidInput
	}
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.UserEmail != email {
			return repository.ErrNotFound
		}
		if o.Status != domain.OrderStatusShipped && o.Status != domain.OrderStatusCompleted {
			return ErrInvalidState
		}
		if o.RefundStatus != domain.RefundStatusNone {
			return ErrInvalidState
		}
		o.RefundStatus = domain.RefundStatusUnderReview
		o.RefundInfo = &domain.RefundInfo{
			ReasonType:  req.ReasonType,
			Description: req.Description,
			Images:      append([]string(nil), req.Images...),
			Date:        s.now().UTC(),
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AdvanceStatus переводит заказ в следующий статус по внешнему событию
// фулфилмента; движение только вперёд по графу переходов
func (s *OrderService) AdvanceStatus(ctx context.Context, email, id string, next domain.OrderStatus) (*domain.Order, error) {
	if email == "" || id == "" || !next.Valid() {
		return nil, ErrInvalidInput
	}
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.UserEmail != email {
			return repository.ErrNotFound
		}
		if !canTransition(o.Status, next) {
			return ErrIllegalTransition
		}
		o.Status = next
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order status advanced",
		zap.String("order_id", id),
		zap.String("status", string(next)))
	return updated, nil
}

// ResolveRefund завершает рассмотрение заявки на возврат (симуляция решения
// оператора); допустимо только из статуса UnderReview, решение окончательно
func (s *OrderService) ResolveRefund(ctx context.Context, email, id string, approved bool) (*domain.Order, error) {
	if email == "" || id == "" {
		return nil, ErrInvalidInput
	}
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.UserEmail != email {
			return repository.ErrNotFound
		}
		if o.RefundStatus != domain.RefundStatusUnderReview {
			return ErrInvalidState
		}
		if approved {
			o.RefundStatus = domain.RefundStatusRefunded
		} else {
			o.RefundStatus = domain.RefundStatusRejected
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// newOrderID формирует идентификатор вида ORD-2024-a1b2c3d4
func newOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", now.Year(), uuid.NewString()[:8])
}
