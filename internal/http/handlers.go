package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"twyst/internal/ai"
	"twyst/internal/catalog"
	"twyst/internal/domain"
	"twyst/internal/pricing"
	"twyst/internal/repository"
	"twyst/internal/service"
)

// Server HTTP-фасад витрины поверх gin
type Server struct {
	engine  *gin.Engine
	catalog *catalog.Catalog
	users   *service.UserService
	cart    *service.CartService
	orders  *service.OrderService
	stylist *ai.Stylist
}

func NewServer(cat *catalog.Catalog, users *service.UserService, cart *service.CartService, orders *service.OrderService, stylist *ai.Stylist) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{engine: r, catalog: cat, users: users, cart: cart, orders: orders, stylist: stylist}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/products", s.listProducts)
		v1.GET("/products/:id", s.getProduct)
		v1.GET("/coupons", s.listCoupons)
		v1.GET("/shipping-options", s.listShippingOptions)
		v1.GET("/tiers", s.listTiers)

		auth := v1.Group("/auth")
		auth.POST("/login", s.login)
		auth.POST("/logout", s.logout)

		profile := v1.Group("/profile")
		profile.GET("", s.getProfile)
		profile.PUT("", s.updateProfile)
		profile.POST("/favorites", s.toggleFavorite)
		profile.POST("/photos", s.addTryOnPhoto)
		profile.POST("/google-link", s.setGoogleLinked)

		cart := v1.Group("/cart")
		cart.GET("", s.getCart)
		cart.DELETE("", s.clearCart)
		cart.POST("/items", s.addCartItem)
		cart.PUT("/items/:id", s.setCartItemQuantity)
		cart.DELETE("/items/:id", s.removeCartItem)
		cart.POST("/quote", s.quoteCart)

		v1.POST("/checkout", s.checkout)

		orders := v1.Group("/orders")
		orders.GET("", s.listOrders)
		orders.GET(":id", s.getOrder)
		orders.POST(":id/refund", s.requestRefund)
		orders.POST(":id/refund/resolve", s.resolveRefund)
		orders.POST(":id/advance", s.advanceStatus)

		stylist := v1.Group("/stylist")
		stylist.POST("/chat", s.stylistChat)
		stylist.POST("/try-on", s.tryOn)
	}
}

// Catalog handlers

// @Summary List products
// @Tags catalog
// @Produce json
// @Param q query string false "Name contains"
// @Param category query string false "Category"
// @Param tag query string false "Tag (new, sale, best-seller)"
// @Param min_price query number false "Min price"
// @Param max_price query number false "Max price"
// @Success 200 {array} domain.Product
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	var f catalog.ProductFilter
	f.NameSubstring = c.Query("q")
	f.Category = c.Query("category")
	f.Tag = domain.Tag(c.Query("tag"))
	if v := c.Query("min_price"); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &x
		}
	}
	if v := c.Query("max_price"); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &x
		}
	}
	c.JSON(http.StatusOK, s.catalog.Products(f))
}

// @Summary Get product by id
// @Tags catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := s.catalog.Product(id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary List coupons
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Coupon
// @Router /coupons [get]
func (s *Server) listCoupons(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Coupons())
}

// @Summary List shipping options
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.ShippingOption
// @Router /shipping-options [get]
func (s *Server) listShippingOptions(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.ShippingOptions())
}

// @Summary List membership tiers
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Tier
// @Router /tiers [get]
func (s *Server) listTiers(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Tiers())
}

// Auth / profile handlers

type loginReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// @Summary Mock login: returns the profile, creating it on first use
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.users.Login(c, req.Email, req.Name)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

type logoutReq struct {
	Email string `json:"email"`
}

// @Summary Logout: destroys the in-memory profile and cart
// @Tags auth
// @Accept json
// @Param input body logoutReq true "Email"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	var req logoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.users.Logout(c, req.Email); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get profile
// @Tags profile
// @Produce json
// @Param email query string true "User email"
// @Success 200 {object} domain.User
// @Failure 404 {object} map[string]string
// @Router /profile [get]
func (s *Server) getProfile(c *gin.Context) {
	u, err := s.users.Get(c, c.Query("email"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateProfileReq struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Avatar  string `json:"avatar"`
}

// @Summary Update profile fields
// @Tags profile
// @Accept json
// @Produce json
// @Param input body updateProfileReq true "Profile"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /profile [put]
func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.users.UpdateProfile(c, req.Email, service.ProfileUpdate{
		Name: req.Name, Phone: req.Phone, Address: req.Address, Avatar: req.Avatar,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

type favoriteReq struct {
	Email     string `json:"email"`
	ProductID int64  `json:"product_id"`
}

// @Summary Toggle a favorite product
// @Tags profile
// @Accept json
// @Produce json
// @Param input body favoriteReq true "Favorite"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /profile/favorites [post]
func (s *Server) toggleFavorite(c *gin.Context) {
	var req favoriteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.users.ToggleFavorite(c, req.Email, req.ProductID)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

type addPhotoReq struct {
	Email string `json:"email"`
	Photo string `json:"photo"`
}

// @Summary Save a try-on photo (base64)
// @Tags profile
// @Accept json
// @Produce json
// @Param input body addPhotoReq true "Photo"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /profile/photos [post]
func (s *Server) addTryOnPhoto(c *gin.Context) {
	var req addPhotoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.users.AddTryOnPhoto(c, req.Email, req.Photo)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

type googleLinkReq struct {
	Email  string `json:"email"`
	Linked bool   `json:"linked"`
}

// @Summary Toggle the linked Google account flag
// @Tags profile
// @Accept json
// @Produce json
// @Param input body googleLinkReq true "Flag"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /profile/google-link [post]
func (s *Server) setGoogleLinked(c *gin.Context) {
	var req googleLinkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.users.SetGoogleLinked(c, req.Email, req.Linked)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Cart handlers

// @Summary Get cart lines
// @Tags cart
// @Produce json
// @Param email query string true "User email"
// @Success 200 {array} domain.CartLine
// @Failure 400 {object} map[string]string
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	lines, err := s.cart.Lines(c, c.Query("email"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lines)
}

// @Summary Clear the cart
// @Tags cart
// @Param email query string true "User email"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	if err := s.cart.Clear(c, c.Query("email")); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type addCartItemReq struct {
	Email     string `json:"email"`
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// @Summary Add a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param input body addCartItemReq true "Item"
// @Success 200 {array} domain.CartLine
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	lines, err := s.cart.Add(c, req.Email, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lines)
}

type setQuantityReq struct {
	Email    string `json:"email"`
	Quantity int64  `json:"quantity"`
}

// @Summary Set line quantity; zero or less removes the line
// @Tags cart
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param input body setQuantityReq true "Quantity"
// @Success 200 {array} domain.CartLine
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items/{id} [put]
func (s *Server) setCartItemQuantity(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req setQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	lines, err := s.cart.SetQuantity(c, req.Email, id, req.Quantity)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lines)
}

// @Summary Remove a line from the cart
// @Tags cart
// @Produce json
// @Param id path int true "Product ID"
// @Param email query string true "User email"
// @Success 200 {array} domain.CartLine
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items/{id} [delete]
func (s *Server) removeCartItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	lines, err := s.cart.Remove(c, c.Query("email"), id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lines)
}

type quoteReq struct {
	Email      string `json:"email"`
	CouponCode string `json:"coupon_code"`
	ShippingID string `json:"shipping_id"`
}

// @Summary Price the current cart without checking out
// @Tags cart
// @Accept json
// @Produce json
// @Param input body quoteReq true "Quote request"
// @Success 200 {object} pricing.Breakdown
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /cart/quote [post]
func (s *Server) quoteCart(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	b, err := s.cart.Quote(c, req.Email, req.CouponCode, req.ShippingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Checkout / order handlers

type checkoutReq struct {
	Email      string `json:"email"`
	CouponCode string `json:"coupon_code"`
	ShippingID string `json:"shipping_id"`
}

// @Summary Check out the cart into an order
// @Tags orders
// @Accept json
// @Produce json
// @Param input body checkoutReq true "Checkout request"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /checkout [post]
func (s *Server) checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.Checkout(c, req.Email, req.CouponCode, req.ShippingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary List orders of a user
// @Tags orders
// @Produce json
// @Param email query string true "User email"
// @Success 200 {array} domain.Order
// @Failure 400 {object} map[string]string
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.Orders(c, c.Query("email"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Param email query string true "User email"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.Order(c, c.Query("email"), c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

type refundReq struct {
	Email       string   `json:"email"`
	ReasonType  string   `json:"reason_type"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// @Summary Submit a refund request for a shipped or completed order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body refundReq true "Refund request"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/refund [post]
func (s *Server) requestRefund(c *gin.Context) {
	var req refundReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.RequestRefund(c, req.Email, c.Param("id"), service.RefundRequest{
		ReasonType: req.ReasonType, Description: req.Description, Images: req.Images,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

type resolveRefundReq struct {
	Email    string `json:"email"`
	Approved bool   `json:"approved"`
}

// @Summary Resolve a refund under review (simulated operator decision)
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body resolveRefundReq true "Decision"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/refund/resolve [post]
func (s *Server) resolveRefund(c *gin.Context) {
	var req resolveRefundReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.ResolveRefund(c, req.Email, c.Param("id"), req.Approved)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

type advanceReq struct {
	Email  string             `json:"email"`
	Status domain.OrderStatus `json:"status"`
}

// @Summary Advance order status (simulated fulfillment event)
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body advanceReq true "Target status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/advance [post]
func (s *Server) advanceStatus(c *gin.Context) {
	var req advanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.AdvanceStatus(c, req.Email, c.Param("id"), req.Status)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// AI handlers

type chatReq struct {
	Message string `json:"message"`
}

// @Summary Ask the AI stylist
// @Tags stylist
// @Accept json
// @Produce json
// @Param input body chatReq true "Question"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /stylist/chat [post]
func (s *Server) stylistChat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	// failures come back as apology text, always 200
	c.JSON(http.StatusOK, gin.H{"reply": s.stylist.Advice(c, req.Message)})
}

type tryOnReq struct {
	ProductID int64  `json:"product_id"`
	Photo     string `json:"photo"`
}

// @Summary Virtual try-on of a product on a user photo
// @Tags stylist
// @Accept json
// @Produce json
// @Param input body tryOnReq true "Photo and product"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /stylist/try-on [post]
func (s *Server) tryOn(c *gin.Context) {
	var req tryOnReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Photo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.catalog.Product(req.ProductID)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	img, err := s.stylist.TryOn(c, req.Photo, p.Image, p.Category)
	if err != nil {
		// generic failure for the user, details stay in the log
		c.JSON(http.StatusBadGateway, gin.H{"error": "virtual try-on is currently unavailable, please try again later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": img})
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// writeError как mapErrorToStatus, но для расчёта корзины: недостигнутый
// минимум купона уходит клиенту вместе с порогом
func writeError(c *gin.Context, err error) {
	var ineligible *pricing.CouponIneligibleError
	if errors.As(err, &ineligible) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     err.Error(),
			"min_spend": ineligible.MinSpend,
		})
		return
	}
	c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
}

func mapErrorToStatus(err error) int {
	var ineligible *pricing.CouponIneligibleError
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, pricing.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ineligible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrCheckoutInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
