// Package prescription handles prescription upload submissions. Only the
// file metadata is kept; binary content is validated and discarded.
package prescription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
	"github.com/careplus/pharmacy-api/internal/validate"
)

var ErrNoFiles = errors.New("at least one prescription file is required")

const (
	prescriptionsCollection = "prescriptions"

	maxFileSize = 5 << 20 // 5 MB
)

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

// FileError reports which uploaded file was rejected and why.
type FileError struct {
	Name   string
	Reason string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %q rejected: %s", e.Name, e.Reason)
}

// Form is a prescription submission before validation.
type Form struct {
	Patient  model.Patient
	Delivery model.Delivery
	Files    []model.FileMeta
}

type Service struct {
	store kvstore.Store
	log   *slog.Logger
	nowID func() int64
}

func NewService(store kvstore.Store, log *slog.Logger, nowID func() int64) *Service {
	return &Service{store: store, log: log, nowID: nowID}
}

// Submit validates the form and files and records a pending prescription.
func (s *Service) Submit(ctx context.Context, userID int64, form Form) (*model.Prescription, error) {
	if len(form.Files) == 0 {
		return nil, ErrNoFiles
	}
	for _, f := range form.Files {
		if !allowedTypes[f.Type] {
			return nil, &FileError{Name: f.Name, Reason: "only JPEG, PNG and PDF files are accepted"}
		}
		if f.Size > maxFileSize {
			return nil, &FileError{Name: f.Name, Reason: "file exceeds the 5 MB limit"}
		}
	}

	if ferr := validate.Required(map[string]string{
		"patient name":     form.Patient.Name,
		"patient age":      form.Patient.Age,
		"phone number":     form.Patient.Phone,
		"delivery address": form.Delivery.Address,
	}, "patient name", "patient age", "phone number", "delivery address"); ferr != nil {
		return nil, ferr
	}
	if !validate.Phone(form.Patient.Phone) {
		return nil, validate.Invalid("phone number", "phone number")
	}
	if form.Patient.Email != "" && !validate.Email(form.Patient.Email) {
		return nil, validate.Invalid("email", "email address")
	}

	rec := model.Prescription{
		ID:       s.nowID(),
		Date:     time.Now().UTC(),
		Status:   model.PrescriptionStatusPending,
		Patient:  form.Patient,
		Delivery: form.Delivery,
		Files:    form.Files,
	}

	key := kvstore.Key(prescriptionsCollection, userID)
	recs := kvstore.Load(ctx, s.store, s.log, key, []model.Prescription(nil))
	recs = append([]model.Prescription{rec}, recs...)
	kvstore.Save(ctx, s.store, s.log, key, recs)

	s.log.Info("prescription submitted", "prescription_id", rec.ID, "user_id", userID, "files", len(rec.Files))
	return &rec, nil
}
