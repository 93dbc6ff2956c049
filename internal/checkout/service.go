// Package checkout drives the three-step order wizard: address, payment,
// review. Steps only ever advance one at a time (gated by validation) or
// move one back (ungated); there are no jump transitions. The wizard state
// is persisted per user so it survives across requests.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/careplus/pharmacy-api/internal/cart"
	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
	"github.com/careplus/pharmacy-api/internal/validate"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidStep = errors.New("step not reachable from current state")
)

const (
	checkoutCollection = "checkout"
	ordersCollection   = "orders"

	StepAddress = 1
	StepPayment = 2
	StepReview  = 3

	orderQueueName = "orders"
)

// State is the persisted wizard document.
type State struct {
	Step          int                 `json:"step"`
	Customer      model.OrderCustomer `json:"customer"`
	PaymentMethod string              `json:"payment_method,omitempty"`
}

type Service struct {
	store  kvstore.Store
	carts  *cart.Service
	amqpCh *amqp.Channel
	log    *slog.Logger
	nowID  func() int64
}

func NewService(store kvstore.Store, carts *cart.Service, amqpCh *amqp.Channel, log *slog.Logger, nowID func() int64) *Service {
	return &Service{store: store, carts: carts, amqpCh: amqpCh, log: log, nowID: nowID}
}

// Start returns the wizard state, initializing it at the address step. An
// empty cart refuses to start; the caller redirects to the cart view.
func (s *Service) Start(ctx context.Context, userID int64) (*State, error) {
	if s.carts.Summary(ctx, userID).TotalItems == 0 {
		return nil, ErrEmptyCart
	}
	state := s.load(ctx, userID)
	if state.Step == 0 {
		state.Step = StepAddress
		s.save(ctx, userID, state)
	}
	return &state, nil
}

type AddressForm struct {
	FullName string
	Phone    string
	Email    string
	Street   string
	City     string
	State    string
	Zipcode  string
}

// SubmitAddress validates step 1 and advances to payment. On any invalid
// field the step stays at 1 and the error names the field.
func (s *Service) SubmitAddress(ctx context.Context, userID int64, form AddressForm) (*State, error) {
	state, err := s.Start(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Step != StepAddress {
		return nil, ErrInvalidStep
	}

	if ferr := validate.Required(map[string]string{
		"full name":    form.FullName,
		"phone number": form.Phone,
		"address":      form.Street,
		"city":         form.City,
		"state":        form.State,
		"ZIP code":     form.Zipcode,
	}, "full name", "phone number", "address", "city", "state", "ZIP code"); ferr != nil {
		return state, ferr
	}
	if !validate.Phone(form.Phone) {
		return state, validate.Invalid("phone number", "phone number")
	}
	if form.Email != "" && !validate.Email(form.Email) {
		return state, validate.Invalid("email", "email address")
	}
	if !validate.Zipcode(form.Zipcode) {
		return state, validate.Invalid("ZIP code", "ZIP code")
	}

	state.Customer = model.OrderCustomer{
		Name:  form.FullName,
		Phone: form.Phone,
		Email: form.Email,
		Address: model.OrderAddress{
			Street:  form.Street,
			City:    form.City,
			State:   form.State,
			Zipcode: form.Zipcode,
		},
	}
	state.Step = StepPayment
	s.save(ctx, userID, *state)
	return state, nil
}

// SubmitPayment validates step 2 and advances to review.
func (s *Service) SubmitPayment(ctx context.Context, userID int64, method string) (*State, error) {
	state, err := s.Start(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Step != StepPayment {
		return nil, ErrInvalidStep
	}
	if method != "cod" && method != "online" {
		return state, &validate.FieldError{Field: "payment method", Message: "please select a payment method"}
	}
	state.PaymentMethod = method
	state.Step = StepReview
	s.save(ctx, userID, *state)
	return state, nil
}

// Back moves one step toward the address step; it is never gated.
func (s *Service) Back(ctx context.Context, userID int64) (*State, error) {
	state, err := s.Start(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Step > StepAddress {
		state.Step--
		s.save(ctx, userID, *state)
	}
	return state, nil
}

// PlaceOrder assembles the order from the cart and wizard state, persists
// it at the front of the user's order list, hands it to the fulfillment
// queue, and resets cart and wizard.
func (s *Service) PlaceOrder(ctx context.Context, userID int64) (*model.Order, error) {
	state, err := s.Start(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Step != StepReview {
		return nil, ErrInvalidStep
	}

	summary := s.carts.Summary(ctx, userID)
	if summary.TotalItems == 0 {
		return nil, ErrEmptyCart
	}

	order := &model.Order{
		ID:       s.nowID(),
		UserID:   userID,
		Date:     time.Now().UTC(),
		Status:   model.OrderStatusPending,
		Customer: state.Customer,
		Items:    summary.Items,
		Payment: model.OrderPayment{
			Method:   state.PaymentMethod,
			Subtotal: summary.Subtotal,
			Shipping: summary.Shipping,
			Tax:      summary.Tax,
			Discount: summary.Discount,
			Total:    summary.Total,
		},
		HasPrescriptionItems: summary.HasPrescriptionItems,
	}

	ordersKey := kvstore.Key(ordersCollection, userID)
	orders := kvstore.Load(ctx, s.store, s.log, ordersKey, []model.Order(nil))
	orders = append([]model.Order{*order}, orders...)
	kvstore.Save(ctx, s.store, s.log, ordersKey, orders)

	s.publish(ctx, model.OrderMessage{OrderID: order.ID, UserID: userID})

	s.carts.Clear(ctx, userID)
	kvstore.Remove(ctx, s.store, s.log, kvstore.Key(checkoutCollection, userID))

	s.log.Info("order placed", "order_id", order.ID, "user_id", userID,
		"total", order.Payment.Total, "prescription_items", order.HasPrescriptionItems)
	return order, nil
}

func (s *Service) publish(ctx context.Context, msg model.OrderMessage) {
	if s.amqpCh == nil {
		return
	}
	body, _ := json.Marshal(msg)
	err := s.amqpCh.PublishWithContext(ctx, "", orderQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		s.log.Error("publish order message", "order_id", msg.OrderID, "error", err)
	}
}

func (s *Service) load(ctx context.Context, userID int64) State {
	return kvstore.Load(ctx, s.store, s.log, kvstore.Key(checkoutCollection, userID), State{})
}

func (s *Service) save(ctx context.Context, userID int64, state State) {
	kvstore.Save(ctx, s.store, s.log, kvstore.Key(checkoutCollection, userID), state)
}
