package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/careplus/pharmacy-api/internal/catalog"
	"github.com/careplus/pharmacy-api/internal/dto"
)

type ProductHandler struct {
	catalogService *catalog.Service
}

func NewProductHandler(catalogService *catalog.Service) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := catalog.Query{
		Categories:   req.Category,
		Brands:       req.Brand,
		Prescription: req.Prescription,
		Search:       req.Search,
		Sort:         req.Sort,
		Page:         req.Page,
	}
	if req.MaxPrice != "" {
		max, err := decimal.NewFromString(req.MaxPrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		q.MaxPrice = &max
	}

	c.JSON(http.StatusOK, h.catalogService.Browse(c.Request.Context(), q))
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	product, err := h.catalogService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Featured(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.catalogService.Featured(c.Request.Context(), 8)})
}

func (h *ProductHandler) Offers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.catalogService.Offers(c.Request.Context(), 0)})
}

func (h *ProductHandler) Brands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"brands": h.catalogService.Brands(c.Request.Context())})
}

func (h *ProductHandler) FAQ(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"faq": h.catalogService.FAQ(c.Request.Context())})
}
