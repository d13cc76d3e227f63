package pricing

import (
	"errors"
	"fmt"
	"math"

	"twyst/internal/domain"
)

// FreeShippingThreshold сумма корзины, начиная с которой доставка бесплатна
const FreeShippingThreshold = 200.0

// ErrEmptyCart возвращается при попытке рассчитать пустую корзину
var ErrEmptyCart = errors.New("cart is empty")

// CouponIneligibleError купон не применим: не достигнута минимальная сумма
type CouponIneligibleError struct {
	Code     string
	MinSpend float64
}

func (e *CouponIneligibleError) Error() string {
	return fmt.Sprintf("coupon %s requires a minimum spend of %.2f", e.Code, e.MinSpend)
}

// Breakdown результат расчёта корзины
type Breakdown struct {
	Subtotal         float64 `json:"subtotal"`
	Discount         float64 `json:"discount"`
	ShippingCost     float64 `json:"shipping_cost"`
	Total            float64 `json:"total"`
	CouponCode       string  `json:"coupon_code,omitempty"`
	ShippingOptionID string  `json:"shipping_option_id"`
	FreeShipping     bool    `json:"free_shipping"`
}

// Subtotal сумма позиций корзины без скидок и доставки
func Subtotal(lines []domain.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Product.Price * float64(l.Quantity)
	}
	return round2(sum)
}

// Quote рассчитывает разбивку стоимости корзины. Чистая функция: одинаковые
// входы всегда дают одинаковую разбивку.
//
// Правила:
//   - процентный купон хранит долю к оплате, скидка = subtotal*(1-value)
//   - фиксированный купон ограничен так, чтобы итог не стал отрицательным
//   - купон применим только при subtotal >= MinSpend
//   - при subtotal >= FreeShippingThreshold доставка бесплатна независимо от
//     выбранного способа
func Quote(lines []domain.CartLine, coupon *domain.Coupon, shipping domain.ShippingOption) (Breakdown, error) {
	if len(lines) == 0 {
		return Breakdown{}, ErrEmptyCart
	}

	subtotal := Subtotal(lines)

	freeShipping := subtotal >= FreeShippingThreshold
	shippingCost := shipping.Price
	if freeShipping {
		shippingCost = 0
	}

	var discount float64
	var couponCode string
	if coupon != nil {
		if subtotal < coupon.MinSpend {
			return Breakdown{}, &CouponIneligibleError{Code: coupon.Code, MinSpend: coupon.MinSpend}
		}
		switch coupon.DiscountType {
		case domain.DiscountPercent:
			discount = subtotal * (1 - coupon.Value)
		case domain.DiscountFixed:
			discount = coupon.Value
		}
		// cap so the total cannot go negative
		if discount > subtotal+shippingCost {
			discount = subtotal + shippingCost
		}
		discount = round2(discount)
		couponCode = coupon.Code
	}

	total := round2(math.Max(0, subtotal-discount+shippingCost))

	return Breakdown{
		Subtotal:         subtotal,
		Discount:         discount,
		ShippingCost:     shippingCost,
		Total:            total,
		CouponCode:       couponCode,
		ShippingOptionID: shipping.ID,
		FreeShipping:     freeShipping,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
