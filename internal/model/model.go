package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The catalog is generated once, persisted, and
// read-only afterwards. When Discount > 0, Price = OriginalPrice reduced by
// that percentage and OriginalPrice is set; otherwise OriginalPrice is nil.
type Product struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Brand         string           `json:"brand"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Discount      int              `json:"discount"`
	Image         string           `json:"image"`
	Description   string           `json:"description"`
	InStock       bool             `json:"in_stock"`
	Prescription  bool             `json:"prescription"`
	Featured      bool             `json:"featured"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	Tags          []string         `json:"tags"`
}

// CartLine is one product-and-quantity entry in a cart. Unique per product;
// quantity is always >= 1 (a zero or negative update removes the line).
type CartLine struct {
	ProductID    int64           `json:"product_id"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Brand        string          `json:"brand"`
	Prescription bool            `json:"prescription"`
	Quantity     int             `json:"quantity"`
}

// CartDoc is the persisted cart document: the lines plus the applied
// discount code and its amount, snapshotted at apply time.
type CartDoc struct {
	Items          []CartLine      `json:"items"`
	DiscountCode   string          `json:"discount_code,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// User is a fabricated account record. No password is stored anywhere:
// login and registration create this record without credential checks.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	BirthDate string    `json:"birth_date"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// Address is a saved delivery address. At most one address per user has
// IsDefault set; setting one clears the flag on the others.
type Address struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	IsDefault bool   `json:"is_default"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusFailed     OrderStatus = "failed"
)

type OrderAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// OrderCustomer is the customer snapshot taken at checkout completion.
type OrderCustomer struct {
	Name    string       `json:"name"`
	Phone   string       `json:"phone"`
	Email   string       `json:"email,omitempty"`
	Address OrderAddress `json:"address"`
}

// OrderPayment is the payment breakdown frozen into the order.
type OrderPayment struct {
	Method   string          `json:"method"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Order is immutable after creation except for Status, which the
// fulfillment worker advances. ID is timestamp-derived.
type Order struct {
	ID                   int64         `json:"id"`
	UserID               int64         `json:"user_id"`
	Date                 time.Time     `json:"date"`
	Status               OrderStatus   `json:"status"`
	Customer             OrderCustomer `json:"customer"`
	Items                []CartLine    `json:"items"`
	Payment              OrderPayment  `json:"payment"`
	HasPrescriptionItems bool          `json:"has_prescription_items"`
}

type PrescriptionStatus string

const (
	PrescriptionStatusPending  PrescriptionStatus = "pending"
	PrescriptionStatusApproved PrescriptionStatus = "approved"
	PrescriptionStatusRejected PrescriptionStatus = "rejected"
)

type Patient struct {
	Name  string `json:"name"`
	Age   string `json:"age"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type Delivery struct {
	Address       string `json:"address"`
	PreferredTime string `json:"preferred_time,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
}

// FileMeta is uploaded-file metadata. Binary content is never persisted.
type FileMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type Prescription struct {
	ID       int64              `json:"id"`
	Date     time.Time          `json:"date"`
	Status   PrescriptionStatus `json:"status"`
	Patient  Patient            `json:"patient"`
	Delivery Delivery           `json:"delivery"`
	Files    []FileMeta         `json:"files"`
}

// ChatMessage is transient: it exists only in the reply payload of a chat
// exchange and is never persisted.
type ChatMessage struct {
	Sender string `json:"sender"` // "user" or "bot"
	Text   string `json:"text"`
}

type FAQ struct {
	ID       int64    `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
}

type ContactMessage struct {
	ID         int64     `json:"id"`
	Date       time.Time `json:"date"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Newsletter bool      `json:"newsletter"`
}

type Branch struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Hours   string `json:"hours"`
}

// UserSettings is a free-form map of notification/preference toggles.
type UserSettings map[string]bool

// OrderMessage is the fulfillment queue payload.
type OrderMessage struct {
	OrderID int64 `json:"order_id"`
	UserID  int64 `json:"user_id"`
}
