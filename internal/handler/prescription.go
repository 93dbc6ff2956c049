package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careplus/pharmacy-api/internal/middleware"
	"github.com/careplus/pharmacy-api/internal/model"
	"github.com/careplus/pharmacy-api/internal/prescription"
	"github.com/careplus/pharmacy-api/internal/validate"
)

type PrescriptionHandler struct {
	prescriptionService *prescription.Service
}

func NewPrescriptionHandler(prescriptionService *prescription.Service) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptionService: prescriptionService}
}

// Submit accepts a multipart form: patient and delivery fields plus one
// or more files under "files". Only file metadata is retained.
func (h *PrescriptionHandler) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	field := func(name string) string {
		if vals := form.Value[name]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}

	var files []model.FileMeta
	for _, fh := range form.File["files"] {
		files = append(files, model.FileMeta{
			Name: fh.Filename,
			Size: fh.Size,
			Type: fh.Header.Get("Content-Type"),
		})
	}

	rec, err := h.prescriptionService.Submit(c.Request.Context(), middleware.GetUserID(c), prescription.Form{
		Patient: model.Patient{
			Name:  field("patient_name"),
			Age:   field("patient_age"),
			Phone: field("patient_phone"),
			Email: field("patient_email"),
		},
		Delivery: model.Delivery{
			Address:       field("delivery_address"),
			PreferredTime: field("preferred_time"),
			Instructions:  field("instructions"),
		},
		Files: files,
	})
	if err != nil {
		var ferr *validate.FieldError
		var filerr *prescription.FileError
		switch {
		case errors.Is(err, prescription.ErrNoFiles):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &filerr):
			c.JSON(http.StatusBadRequest, gin.H{"error": filerr.Error(), "file": filerr.Name})
		case errors.As(err, &ferr):
			c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Message, "field": ferr.Field})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, rec)
}
