package service

import (
	"context"
	"errors"

	"twyst/internal/catalog"
	"twyst/internal/domain"
	"twyst/internal/pricing"
	"twyst/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
)

// CartService логика корзины: не более одной позиции на товар, позиция с
// нулевым количеством удаляется, а не хранится
type CartService struct {
	catalog *catalog.Catalog
	carts   repository.CartRepository
}

func NewCartService(cat *catalog.Catalog, carts repository.CartRepository) *CartService {
	return &CartService{catalog: cat, carts: carts}
}

// Lines возвращает позиции корзины пользователя
func (s *CartService) Lines(ctx context.Context, email string) ([]domain.CartLine, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	return s.carts.Lines(ctx, email)
}

// Add кладёт товар в корзину; если позиция уже есть — количество суммируется
func (s *CartService) Add(ctx context.Context, email string, productID int64, qty int64) ([]domain.CartLine, error) {
	if email == "" || qty <= 0 {
		return nil, ErrInvalidInput
	}
	p, err := s.catalog.Product(productID)
	if err != nil {
		return nil, err
	}
	lines, err := s.carts.Lines(ctx, email)
	if err != nil {
		return nil, err
	}
	line := domain.CartLine{Product: p, Quantity: qty}
	for _, l := range lines {
		if l.Product.ID == productID {
			line.Quantity += l.Quantity
			break
		}
	}
	if err := s.carts.Upsert(ctx, email, line); err != nil {
		return nil, err
	}
	return s.carts.Lines(ctx, email)
}

// SetQuantity устанавливает количество существующей позиции; qty <= 0 удаляет её
func (s *CartService) SetQuantity(ctx context.Context, email string, productID int64, qty int64) ([]domain.CartLine, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	lines, err := s.carts.Lines(ctx, email)
	if err != nil {
		return nil, err
	}
	var found *domain.CartLine
	for i := range lines {
		if lines[i].Product.ID == productID {
			found = &lines[i]
			break
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	if qty <= 0 {
		if err := s.carts.Remove(ctx, email, productID); err != nil {
			return nil, err
		}
	} else {
		found.Quantity = qty
		if err := s.carts.Upsert(ctx, email, *found); err != nil {
			return nil, err
		}
	}
	return s.carts.Lines(ctx, email)
}

// Remove убирает позицию из корзины
func (s *CartService) Remove(ctx context.Context, email string, productID int64) ([]domain.CartLine, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	if err := s.carts.Remove(ctx, email, productID); err != nil {
		return nil, err
	}
	return s.carts.Lines(ctx, email)
}

// Clear опустошает корзину
func (s *CartService) Clear(ctx context.Context, email string) error {
	if email == "" {
		return ErrInvalidInput
	}
	return s.carts.Clear(ctx, email)
}

// Quote рассчитывает стоимость текущей корзины с опциональным купоном и
// выбранным способом доставки, ничего не меняя
func (s *CartService) Quote(ctx context.Context, email, couponCode, shippingID string) (pricing.Breakdown, error) {
	if email == "" {
		return pricing.Breakdown{}, ErrInvalidInput
	}
	lines, err := s.carts.Lines(ctx, email)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	var coupon *domain.Coupon
	if couponCode != "" {
		c, err := s.catalog.Coupon(couponCode)
		if err != nil {
			return pricing.Breakdown{}, err
		}
		coupon = &c
	}
	shipping, err := s.catalog.ShippingOption(shippingID)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	return pricing.Quote(lines, coupon, shipping)
}
