// Package contact records contact-form messages and lists store branches.
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
	"github.com/careplus/pharmacy-api/internal/validate"
)

const messagesKey = "contact-messages"

// Form is a contact submission before validation. Phone and newsletter
// are optional.
type Form struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Subject    string
	Message    string
	Newsletter bool
}

type Service struct {
	store kvstore.Store
	log   *slog.Logger
	nowID func() int64
}

func NewService(store kvstore.Store, log *slog.Logger, nowID func() int64) *Service {
	return &Service{store: store, log: log, nowID: nowID}
}

// Submit validates and records the message at the front of the global
// contact-messages list. The returned reference ID is shown to the user.
func (s *Service) Submit(ctx context.Context, form Form) (*model.ContactMessage, error) {
	if ferr := validate.Required(map[string]string{
		"first name": form.FirstName,
		"last name":  form.LastName,
		"email":      form.Email,
		"subject":    form.Subject,
		"message":    form.Message,
	}, "first name", "last name", "email", "subject", "message"); ferr != nil {
		return nil, ferr
	}
	if !validate.Email(form.Email) {
		return nil, validate.Invalid("email", "email address")
	}
	if form.Phone != "" && !validate.Phone(form.Phone) {
		return nil, validate.Invalid("phone", "phone number")
	}

	msg := model.ContactMessage{
		ID:         s.nowID(),
		Date:       time.Now().UTC(),
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Email:      form.Email,
		Phone:      form.Phone,
		Subject:    form.Subject,
		Message:    form.Message,
		Newsletter: form.Newsletter,
	}

	msgs := kvstore.Load(ctx, s.store, s.log, messagesKey, []model.ContactMessage(nil))
	msgs = append([]model.ContactMessage{msg}, msgs...)
	kvstore.Save(ctx, s.store, s.log, messagesKey, msgs)

	s.log.Info("contact message received", "message_id", msg.ID, "subject", msg.Subject)
	return &msg, nil
}

// ReferenceID is the human-facing ticket number for a stored message.
func ReferenceID(msg *model.ContactMessage) string {
	return fmt.Sprintf("MSG%d", msg.ID)
}

var branches = []model.Branch{
	{ID: 1, Name: "CarePlus Downtown", Address: "120 Main Street, Springfield", Phone: "+1 555 010 1100", Hours: "Mon-Sat 8:00-22:00"},
	{ID: 2, Name: "CarePlus Riverside", Address: "48 River Road, Springfield", Phone: "+1 555 010 1200", Hours: "Daily 9:00-21:00"},
	{ID: 3, Name: "CarePlus Medical Center", Address: "7 Hospital Avenue, Springfield", Phone: "+1 555 010 1300", Hours: "Open 24 hours"},
}

// Branches returns the fixed store list.
func Branches() []model.Branch {
	out := make([]model.Branch, len(branches))
	copy(out, branches)
	return out
}

// DirectionsURL builds a Google Maps directions link for a branch address.
func DirectionsURL(address string) string {
	return "https://www.google.com/maps/dir/?api=1&destination=" + url.QueryEscape(address)
}
