package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/careplus/pharmacy-api/internal/account"
	"github.com/careplus/pharmacy-api/internal/dto"
	"github.com/careplus/pharmacy-api/internal/middleware"
	"github.com/careplus/pharmacy-api/internal/model"
)

type AccountHandler struct {
	accountService *account.Service
}

func NewAccountHandler(accountService *account.Service) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *AccountHandler) ListOrders(c *gin.Context) {
	orders := h.accountService.Orders(c.Request.Context(), middleware.GetUserID(c))
	summaries := make([]dto.OrderSummaryResponse, 0, len(orders))
	for _, o := range orders {
		items := 0
		for _, line := range o.Items {
			items += line.Quantity
		}
		summaries = append(summaries, dto.OrderSummaryResponse{
			ID:     o.ID,
			Date:   o.Date,
			Status: o.Status,
			Items:  items,
			Total:  o.Payment.Total,
		})
	}
	c.JSON(http.StatusOK, gin.H{"orders": summaries})
}

func (h *AccountHandler) GetOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.accountService.Order(c.Request.Context(), middleware.GetUserID(c), orderID)
	if err != nil {
		if errors.Is(err, account.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *AccountHandler) Reorder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.accountService.Reorder(c.Request.Context(), middleware.GetUserID(c), orderID)
	if err != nil {
		if errors.Is(err, account.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AccountHandler) ListPrescriptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prescriptions": h.accountService.Prescriptions(c.Request.Context(), middleware.GetUserID(c))})
}

func (h *AccountHandler) GetPrescription(c *gin.Context) {
	prescriptionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rec, err := h.accountService.Prescription(c.Request.Context(), middleware.GetUserID(c), prescriptionID)
	if err != nil {
		if errors.Is(err, account.ErrPrescriptionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prescription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *AccountHandler) ListAddresses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"addresses": h.accountService.Addresses(c.Request.Context(), middleware.GetUserID(c))})
}

func addressFromRequest(req dto.AddressRequest) model.Address {
	return model.Address{
		Label:     req.Label,
		Name:      req.Name,
		Phone:     req.Phone,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Zipcode:   req.Zipcode,
		IsDefault: req.IsDefault,
	}
}

func (h *AccountHandler) AddAddress(c *gin.Context) {
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addr := h.accountService.AddAddress(c.Request.Context(), middleware.GetUserID(c), addressFromRequest(req))
	c.JSON(http.StatusCreated, addr)
}

func (h *AccountHandler) UpdateAddress(c *gin.Context) {
	addressID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr := addressFromRequest(req)
	addr.ID = addressID
	updated, err := h.accountService.UpdateAddress(c.Request.Context(), middleware.GetUserID(c), addr)
	if err != nil {
		if errors.Is(err, account.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *AccountHandler) DeleteAddress(c *gin.Context) {
	addressID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeleteAddress(c.Request.Context(), middleware.GetUserID(c), addressID); err != nil {
		if errors.Is(err, account.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) SetDefaultAddress(c *gin.Context) {
	addressID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.SetDefaultAddress(c.Request.Context(), middleware.GetUserID(c), addressID); err != nil {
		if errors.Is(err, account.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": h.accountService.Addresses(c.Request.Context(), middleware.GetUserID(c))})
}

func (h *AccountHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.accountService.Settings(c.Request.Context(), middleware.GetUserID(c)))
}

func (h *AccountHandler) UpdateSettings(c *gin.Context) {
	var patch model.UserSettings
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.accountService.UpdateSettings(c.Request.Context(), middleware.GetUserID(c), patch))
}
