package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careplus/pharmacy-api/internal/cart"
	"github.com/careplus/pharmacy-api/internal/checkout"
	"github.com/careplus/pharmacy-api/internal/dto"
	"github.com/careplus/pharmacy-api/internal/middleware"
	"github.com/careplus/pharmacy-api/internal/validate"
)

type CheckoutHandler struct {
	checkoutService *checkout.Service
}

func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

func checkoutError(c *gin.Context, err error) {
	var ferr *validate.FieldError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": "cart is empty"})
	case errors.Is(err, checkout.ErrInvalidStep):
		c.JSON(http.StatusConflict, gin.H{"error": "step not available yet"})
	case errors.As(err, &ferr):
		c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Message, "field": ferr.Field})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *CheckoutHandler) State(c *gin.Context) {
	state, err := h.checkoutService.Start(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		checkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *CheckoutHandler) SubmitAddress(c *gin.Context) {
	var req dto.CheckoutAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.checkoutService.SubmitAddress(c.Request.Context(), middleware.GetUserID(c), checkout.AddressForm{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Street:   req.Street,
		City:     req.City,
		State:    req.State,
		Zipcode:  req.Zipcode,
	})
	if err != nil {
		checkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *CheckoutHandler) SubmitPayment(c *gin.Context) {
	var req dto.CheckoutPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.checkoutService.SubmitPayment(c.Request.Context(), middleware.GetUserID(c), req.Method)
	if err != nil {
		checkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *CheckoutHandler) Back(c *gin.Context) {
	state, err := h.checkoutService.Back(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		checkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		checkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order":        order,
		"whatsapp_url": cart.WhatsAppOrderConfirmationURL(order.ID),
	})
}
