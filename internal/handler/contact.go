package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careplus/pharmacy-api/internal/contact"
	"github.com/careplus/pharmacy-api/internal/dto"
	"github.com/careplus/pharmacy-api/internal/validate"
)

type ContactHandler struct {
	contactService *contact.Service
}

func NewContactHandler(contactService *contact.Service) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.contactService.Submit(c.Request.Context(), contact.Form{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Subject:    req.Subject,
		Message:    req.Message,
		Newsletter: req.Newsletter,
	})
	if err != nil {
		var ferr *validate.FieldError
		if errors.As(err, &ferr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Message, "field": ferr.Field})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, dto.ContactResponse{
		ReferenceID: contact.ReferenceID(msg),
		Date:        msg.Date,
	})
}

func (h *ContactHandler) Branches(c *gin.Context) {
	branches := contact.Branches()
	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, dto.BranchResponse{
			Branch:        b,
			DirectionsURL: contact.DirectionsURL(b.Address),
		})
	}
	c.JSON(http.StatusOK, gin.H{"branches": out})
}
