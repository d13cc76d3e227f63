package catalog

import (
	"errors"
	"strings"

	"twyst/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена в справочнике
var ErrNotFound = errors.New("not found")

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	NameSubstring string
	Category      string
	Tag           domain.Tag
	MinPrice      *float64
	MaxPrice      *float64
}

// Catalog справочные данные магазина: товары, купоны, способы доставки, уровни
// членства. Загружаются один раз при старте процесса и далее только читаются.
type Catalog struct {
	products        []domain.Product
	productsByID    map[int64]domain.Product
	couponsByCode   map[string]domain.Coupon
	coupons         []domain.Coupon
	shippingByID    map[string]domain.ShippingOption
	shippingOptions []domain.ShippingOption
	tiers           []Tier
}

// Tier уровень членства и порог баллов для его достижения
type Tier struct {
	Name      domain.MemberTier `json:"name"`
	Threshold int64             `json:"threshold"`
	Benefits  []string          `json:"benefits"`
}

// New собирает каталог из наборов данных; коды купонов нормализуются
// в верхний регистр для регистронезависимого поиска
func New(products []domain.Product, coupons []domain.Coupon, shipping []domain.ShippingOption, tiers []Tier) *Catalog {
	c := &Catalog{
		products:        products,
		productsByID:    make(map[int64]domain.Product, len(products)),
		couponsByCode:   make(map[string]domain.Coupon, len(coupons)),
		coupons:         coupons,
		shippingByID:    make(map[string]domain.ShippingOption, len(shipping)),
		shippingOptions: shipping,
		tiers:           tiers,
	}
	for _, p := range products {
		c.productsByID[p.ID] = p
	}
	for _, cp := range coupons {
		c.couponsByCode[strings.ToUpper(cp.Code)] = cp
	}
	for _, s := range shipping {
		c.shippingByID[s.ID] = s
	}
	return c
}

// Product возвращает товар по id
func (c *Catalog) Product(id int64) (domain.Product, error) {
	p, ok := c.productsByID[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

// Products возвращает товары, удовлетворяющие фильтру, в порядке загрузки
func (c *Catalog) Products(f ProductFilter) []domain.Product {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if !containsIgnoreCase(p.Name, f.NameSubstring) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Tag != "" && !p.HasTag(f.Tag) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Coupon ищет купон по коду без учёта регистра
func (c *Catalog) Coupon(code string) (domain.Coupon, error) {
	cp, ok := c.couponsByCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return domain.Coupon{}, ErrNotFound
	}
	return cp, nil
}

// Coupons возвращает все купоны
func (c *Catalog) Coupons() []domain.Coupon {
	return c.coupons
}

// ShippingOption возвращает способ доставки по id
func (c *Catalog) ShippingOption(id string) (domain.ShippingOption, error) {
	s, ok := c.shippingByID[id]
	if !ok {
		return domain.ShippingOption{}, ErrNotFound
	}
	return s, nil
}

// ShippingOptions возвращает все способы доставки
func (c *Catalog) ShippingOptions() []domain.ShippingOption {
	return c.shippingOptions
}

// Tiers возвращает уровни членства по возрастанию порога
func (c *Catalog) Tiers() []Tier {
	return c.tiers
}

// TierFor подбирает уровень членства по накопленным баллам
func (c *Catalog) TierFor(points int64) domain.MemberTier {
	tier := domain.TierStandard
	for _, t := range c.tiers {
		if points >= t.Threshold {
			tier = t.Name
		}
	}
	return tier
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
