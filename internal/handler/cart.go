package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/careplus/pharmacy-api/internal/cart"
	"github.com/careplus/pharmacy-api/internal/catalog"
	"github.com/careplus/pharmacy-api/internal/dto"
	"github.com/careplus/pharmacy-api/internal/middleware"
)

type CartHandler struct {
	cartService *cart.Service
}

func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartService.Summary(c.Request.Context(), middleware.GetUserID(c)))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.cartService.Add(c.Request.Context(), middleware.GetUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), productID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}
	c.JSON(http.StatusOK, h.cartService.Remove(c.Request.Context(), middleware.GetUserID(c), productID))
}

func (h *CartHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartService.Clear(c.Request.Context(), middleware.GetUserID(c)))
}

func (h *CartHandler) ApplyDiscount(c *gin.Context) {
	var req dto.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, ok := h.cartService.ApplyDiscount(c.Request.Context(), middleware.GetUserID(c), req.Code)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount code"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *CartHandler) RemoveDiscount(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartService.RemoveDiscount(c.Request.Context(), middleware.GetUserID(c)))
}

// WhatsAppLink returns the prefilled order message deep link for the
// current cart.
func (h *CartHandler) WhatsAppLink(c *gin.Context) {
	summary := h.cartService.Summary(c.Request.Context(), middleware.GetUserID(c))
	if summary.TotalItems == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": cart.WhatsAppOrderURL(summary)})
}
