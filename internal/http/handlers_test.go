package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"twyst/internal/ai"
	"twyst/internal/catalog"
	"twyst/internal/repository"
	"twyst/internal/service"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	cat := catalog.Default()
	store := repository.NewMemoryStore()
	ordersRepo := repository.NewMemoryOrders(store)
	cartsRepo := repository.NewMemoryCarts(store)
	tx := repository.NewMemoryTx(store)
	usersSvc := service.NewUserService(cat, store, cartsRepo)
	cartSvc := service.NewCartService(cat, cartsRepo)
	ordersSvc := service.NewOrderService(cat, cartsRepo, ordersRepo, store, tx, nil, 0)
	stylist, err := ai.NewStylist(context.Background(), "", nil) // AI disabled
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(cat, usersSvc, cartSvc, ordersSvc, stylist)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestCatalogEndpoints(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/products", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("products code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/products?category=Jewelry&tag=new", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("filtered products code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/products/4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("product code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/products/999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/products/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}
	for _, path := range []string{"/api/v1/coupons", "/api/v1/shipping-options", "/api/v1/tiers"} {
		if w := doJSON(t, s, http.MethodGet, path, nil); w.Code != http.StatusOK {
			t.Fatalf("%s code %v", path, w.Code)
		}
	}
}

func TestCartAndCheckoutFlow(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "jane@example.com", "name": "Jane"})
	if w.Code != http.StatusOK {
		t.Fatalf("login %v", w.Code)
	}

	// product 1 ($120) + product 2 ($85) x2 => subtotal 290
	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"email": "jane@example.com", "product_id": 1, "quantity": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("add item %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"email": "jane@example.com", "product_id": 2, "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("add item %v", w.Code)
	}

	// ineligible coupon: 422 with the required minimum
	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/quote", map[string]any{"email": "jane@example.com", "coupon_code": "VIP50", "shipping_id": "home"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", w.Code)
	}
	var quoteErr struct {
		MinSpend float64 `json:"min_spend"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &quoteErr); err != nil || quoteErr.MinSpend != 300 {
		t.Fatalf("min spend missing: %s", w.Body.String())
	}

	// unknown coupon typed by the user
	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/quote", map[string]any{"email": "jane@example.com", "coupon_code": "NOPE", "shipping_id": "home"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/quote", map[string]any{"email": "jane@example.com", "coupon_code": "SUMMER2024", "shipping_id": "home"})
	if w.Code != http.StatusOK {
		t.Fatalf("quote %v: %s", w.Code, w.Body.String())
	}
	var quote struct {
		Total        float64 `json:"total"`
		ShippingCost float64 `json:"shipping_cost"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatal(err)
	}
	if quote.Total != 260 || quote.ShippingCost != 0 {
		t.Fatalf("unexpected quote: %+v", quote)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/checkout", map[string]any{"email": "jane@example.com", "coupon_code": "SUMMER2024", "shipping_id": "home"})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout %v: %s", w.Code, w.Body.String())
	}
	var order struct {
		ID    string  `json:"id"`
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatal(err)
	}
	if order.Total != 260 || order.ID == "" {
		t.Fatalf("unexpected order: %+v", order)
	}

	// cart is empty, second checkout fails
	w = doJSON(t, s, http.MethodPost, "/api/v1/checkout", map[string]any{"email": "jane@example.com", "shipping_id": "home"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on empty cart, got %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/orders?email=jane@example.com", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("orders %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/orders/"+order.ID+"?email=jane@example.com", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("order %v", w.Code)
	}
}

func TestCartLineLifecycle(t *testing.T) {
	s := setupServer(t)
	_ = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "jane@example.com"})
	_ = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"email": "jane@example.com", "product_id": 1, "quantity": 2})

	// zero quantity removes the line
	w := doJSON(t, s, http.MethodPut, "/api/v1/cart/items/1", map[string]any{"email": "jane@example.com", "quantity": 0})
	if w.Code != http.StatusOK {
		t.Fatalf("set qty %v", w.Code)
	}
	var lines []any
	if err := json.Unmarshal(w.Body.Bytes(), &lines); err != nil || len(lines) != 0 {
		t.Fatalf("expected empty cart, got %s", w.Body.String())
	}

	// removing an absent line is a 404
	w = doJSON(t, s, http.MethodDelete, "/api/v1/cart/items/1?email=jane@example.com", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}
}

func TestRefundFlow(t *testing.T) {
	s := setupServer(t)
	_ = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "jane@example.com"})
	_ = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"email": "jane@example.com", "product_id": 1, "quantity": 1})
	w := doJSON(t, s, http.MethodPost, "/api/v1/checkout", map[string]any{"email": "jane@example.com", "shipping_id": "711"})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout %v", w.Code)
	}
	var order struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &order)

	refund := map[string]any{"email": "jane@example.com", "reason_type": "damaged", "description": "arrived torn"}

	// refund on a Processing order conflicts
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders/"+order.ID+"/refund", refund)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", w.Code)
	}

	// fulfillment event, then refund succeeds
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders/"+order.ID+"/advance", map[string]any{"email": "jane@example.com", "status": "Shipped"})
	if w.Code != http.StatusOK {
		t.Fatalf("advance %v: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders/"+order.ID+"/refund", refund)
	if w.Code != http.StatusOK {
		t.Fatalf("refund %v: %s", w.Code, w.Body.String())
	}

	// duplicate request conflicts
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders/"+order.ID+"/refund", refund)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %v", w.Code)
	}

	// operator resolves the review
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders/"+order.ID+"/refund/resolve", map[string]any{"email": "jane@example.com", "approved": true})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve %v", w.Code)
	}

	// illegal transition conflicts
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders/"+order.ID+"/advance", map[string]any{"email": "jane@example.com", "status": "Processing"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", w.Code)
	}
}

func TestProfileEndpoints(t *testing.T) {
	s := setupServer(t)
	_ = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "jane@example.com", "name": "Jane"})

	w := doJSON(t, s, http.MethodGet, "/api/v1/profile?email=jane@example.com", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPut, "/api/v1/profile", map[string]any{"email": "jane@example.com", "phone": "555-0101"})
	if w.Code != http.StatusOK {
		t.Fatalf("update %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/profile/favorites", map[string]any{"email": "jane@example.com", "product_id": 3})
	if w.Code != http.StatusOK {
		t.Fatalf("favorite %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/profile/photos", map[string]any{"email": "jane@example.com", "photo": "base64data"})
	if w.Code != http.StatusOK {
		t.Fatalf("photo %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/profile/google-link", map[string]any{"email": "jane@example.com", "linked": true})
	if w.Code != http.StatusOK {
		t.Fatalf("google link %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/logout", map[string]any{"email": "jane@example.com"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/profile?email=jane@example.com", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after logout, got %v", w.Code)
	}
}

func TestStylistEndpoints_Disabled(t *testing.T) {
	s := setupServer(t)

	// chat always answers 200, here with the disabled apology
	w := doJSON(t, s, http.MethodPost, "/api/v1/stylist/chat", map[string]any{"message": "what goes with a silk blouse?"})
	if w.Code != http.StatusOK {
		t.Fatalf("chat %v", w.Code)
	}
	var reply struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil || reply.Reply != ai.MsgDisabled {
		t.Fatalf("unexpected reply: %s", w.Body.String())
	}

	// try-on surfaces a generic failure
	w = doJSON(t, s, http.MethodPost, "/api/v1/stylist/try-on", map[string]any{"product_id": 1, "photo": "aGVsbG8="})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %v", w.Code)
	}
	// unknown product checked before the AI call
	w = doJSON(t, s, http.MethodPost, "/api/v1/stylist/try-on", map[string]any{"product_id": 999, "photo": "aGVsbG8="})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}
}
