package repository

import (
	"context"
	"sort"
	"sync"

	"twyst/internal/domain"
)

// MemoryStore объединённое in-memory хранилище пользователей, заказов и корзин.
// Всё состояние живёт в памяти процесса и теряется при перезапуске.
type MemoryStore struct {
	mu           sync.RWMutex
	usersByEmail map[string]domain.User
	ordersByID   map[string]domain.Order
	orderIDs     []string // insertion order for stable listings
	cartsByEmail map[string]map[int64]domain.CartLine
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByEmail: make(map[string]domain.User),
		ordersByID:   make(map[string]domain.Order),
		cartsByEmail: make(map[string]map[int64]domain.CartLine),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ UserRepository = (*MemoryStore)(nil)

// UserRepository implementation
func (m *MemoryStore) Create(ctx context.Context, u *domain.User) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	m.usersByEmail[u.Email] = *u
	return nil
}

func (m *MemoryStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	u, ok := m.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := u
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, u *domain.User) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.usersByEmail[u.Email]; !ok {
		return ErrNotFound
	}
	m.usersByEmail[u.Email] = *u
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, email string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.usersByEmail[email]; !ok {
		return ErrNotFound
	}
	delete(m.usersByEmail, email)
	return nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	mo.store.ordersByID[o.ID] = cloneOrder(*o)
	mo.store.orderIDs = append(mo.store.orderIDs, o.ID)
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (mo *MemoryOrders) Update(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if _, ok := mo.store.ordersByID[o.ID]; !ok {
		return ErrNotFound
	}
	mo.store.ordersByID[o.ID] = cloneOrder(*o)
	return nil
}

func (mo *MemoryOrders) ListByUser(ctx context.Context, email string) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0)
	for _, id := range mo.store.orderIDs {
		o := mo.store.ordersByID[id]
		if o.UserEmail == email {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

// cloneOrder глубокая копия: снимок позиций заказа не должен делить слайсы
// с вызывающим кодом
func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.CartLine(nil), o.Items...)
	if o.ShippingMethod != nil {
		sm := *o.ShippingMethod
		o.ShippingMethod = &sm
	}
	if o.RefundInfo != nil {
		ri := *o.RefundInfo
		ri.Images = append([]string(nil), o.RefundInfo.Images...)
		o.RefundInfo = &ri
	}
	return o
}

// CartRepository implementation on wrapper type
type MemoryCarts struct{ store *MemoryStore }

func NewMemoryCarts(store *MemoryStore) *MemoryCarts { return &MemoryCarts{store: store} }

var _ CartRepository = (*MemoryCarts)(nil)

func (mc *MemoryCarts) Lines(ctx context.Context, email string) ([]domain.CartLine, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	cart := mc.store.cartsByEmail[email]
	out := make([]domain.CartLine, 0, len(cart))
	for _, l := range cart {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out, nil
}

func (mc *MemoryCarts) Upsert(ctx context.Context, email string, line domain.CartLine) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	cart, ok := mc.store.cartsByEmail[email]
	if !ok {
		cart = make(map[int64]domain.CartLine)
		mc.store.cartsByEmail[email] = cart
	}
	cart[line.Product.ID] = line
	return nil
}

func (mc *MemoryCarts) Remove(ctx context.Context, email string, productID int64) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	cart, ok := mc.store.cartsByEmail[email]
	if !ok {
		return ErrNotFound
	}
	if _, ok := cart[productID]; !ok {
		return ErrNotFound
	}
	delete(cart, productID)
	return nil
}

func (mc *MemoryCarts) Clear(ctx context.Context, email string) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	delete(mc.store.cartsByEmail, email)
	return nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

var _ TxManager = (*MemoryTx)(nil)

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Для in-memory используем блокировку записи и помечаем контекст, чтобы репозитории пропускали внутренние локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
