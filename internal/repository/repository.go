package repository

import (
	"context"
	"errors"

	"twyst/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// UserRepository интерфейс хранилища профилей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, email string) error
}

// OrderRepository интерфейс хранилища заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	ListByUser(ctx context.Context, email string) ([]domain.Order, error)
}

// CartRepository интерфейс хранилища корзин; не более одной позиции на товар
type CartRepository interface {
	Lines(ctx context.Context, email string) ([]domain.CartLine, error)
	Upsert(ctx context.Context, email string, line domain.CartLine) error
	Remove(ctx context.Context, email string, productID int64) error
	Clear(ctx context.Context, email string) error
}

// TxManager абстракция транзакции. Для in-memory — глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
