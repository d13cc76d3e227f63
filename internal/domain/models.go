package domain

import "time"

// Tag метка товара для витрины
type Tag string

const (
	TagNew        Tag = "new"
	TagSale       Tag = "sale"
	TagBestSeller Tag = "best-seller"
)

// Product товар каталога, неизменяемые справочные данные
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Tags        []Tag   `json:"tags,omitempty"`
}

// HasTag проверяет наличие метки у товара
func (p Product) HasTag(t Tag) bool {
	for _, tag := range p.Tags {
		if tag == t {
			return true
		}
	}
	return false
}

// CartLine позиция корзины: товар и количество (всегда >= 1)
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

// DiscountType тип скидки купона
type DiscountType string

const (
	// DiscountPercent значение купона — доля к оплате (0.9 = скидка 10%)
	DiscountPercent DiscountType = "percent"
	// DiscountFixed значение купона — фиксированная сумма скидки
	DiscountFixed DiscountType = "fixed"
)

// Coupon купон, статичные справочные данные; применение купона его не меняет
type Coupon struct {
	Code         string       `json:"code"`
	Description  string       `json:"description"`
	DiscountType DiscountType `json:"discount_type"`
	Value        float64      `json:"value"`
	MinSpend     float64      `json:"min_spend"`
}

// ShippingOption способ доставки с фиксированной ценой
type ShippingOption struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// OrderStatus статус выполнения заказа
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// Valid сообщает, известен ли статус
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// RefundStatus независимый статус заявки на возврат
type RefundStatus string

const (
	RefundStatusNone        RefundStatus = "None"
	RefundStatusUnderReview RefundStatus = "UnderReview"
	RefundStatusRefunded    RefundStatus = "Refunded"
	RefundStatusRejected    RefundStatus = "Rejected"
)

// RefundInfo детали заявки на возврат
type RefundInfo struct {
	ReasonType  string    `json:"reason_type"`
	Description string    `json:"description"`
	Images      []string  `json:"images,omitempty"`
	Date        time.Time `json:"date"`
}

// Order заказ: создаётся при оформлении, позиции — снимок корзины на момент покупки
type Order struct {
	ID             string          `json:"id"`
	UserEmail      string          `json:"user_email"`
	Date           time.Time       `json:"date"`
	Items          []CartLine      `json:"items"`
	Subtotal       float64         `json:"subtotal"`
	Discount       float64         `json:"discount"`
	ShippingCost   float64         `json:"shipping_cost"`
	Total          float64         `json:"total"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	ShippingMethod *ShippingOption `json:"shipping_method,omitempty"`
	Status         OrderStatus     `json:"status"`
	RefundStatus   RefundStatus    `json:"refund_status"`
	RefundInfo     *RefundInfo     `json:"refund_info,omitempty"`
}

// MemberTier уровень членства, присваивается по накопленным баллам
type MemberTier string

const (
	TierStandard MemberTier = "Standard"
	TierSilver   MemberTier = "Silver"
	TierGold     MemberTier = "Gold"
	TierDiamond  MemberTier = "Diamond"
)

// User профиль покупателя; живёт только в памяти сессии
type User struct {
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	Tier           MemberTier `json:"tier"`
	Points         int64      `json:"points"`
	Avatar         string     `json:"avatar,omitempty"`
	Favorites      []int64    `json:"favorites"`
	TryOnPhotos    []string   `json:"try_on_photos"`
	IsGoogleLinked bool       `json:"is_google_linked"`
}

// IsFavorite проверяет, в избранном ли товар
func (u User) IsFavorite(productID int64) bool {
	for _, id := range u.Favorites {
		if id == productID {
			return true
		}
	}
	return false
}
