package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/careplus/pharmacy-api/internal/model"
)

// --- Auth ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"`
	Avatar    *string `json:"avatar"`
}

// --- Catalog ---

type ListProductsRequest struct {
	Category     []string `form:"category"`
	Brand        []string `form:"brand"`
	MaxPrice     string   `form:"max_price"`
	Prescription []string `form:"prescription"`
	Search       string   `form:"search"`
	Sort         string   `form:"sort"`
	Page         int      `form:"page,default=1" binding:"min=1"`
}

type ProductListResponse struct {
	Products   []model.Product `json:"products"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	PageWindow []int           `json:"page_window"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

// --- Checkout ---

type CheckoutAddressRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zipcode  string `json:"zipcode"`
}

type CheckoutPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

// --- Account ---

type AddressRequest struct {
	Label     string `json:"label"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	IsDefault bool   `json:"is_default"`
}

// --- Prescription ---

type PrescriptionResponse struct {
	ID     int64                    `json:"id"`
	Date   time.Time                `json:"date"`
	Status model.PrescriptionStatus `json:"status"`
	Files  []model.FileMeta         `json:"files"`
}

// --- Chatbot ---

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Messages    []model.ChatMessage `json:"messages"`
	Suggestions []string            `json:"suggestions,omitempty"`
}

// --- Contact ---

type ContactRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Newsletter bool   `json:"newsletter"`
}

type ContactResponse struct {
	ReferenceID string    `json:"reference_id"`
	Date        time.Time `json:"date"`
}

type BranchResponse struct {
	model.Branch
	DirectionsURL string `json:"directions_url"`
}

// --- Orders ---

type OrderSummaryResponse struct {
	ID     int64             `json:"id"`
	Date   time.Time         `json:"date"`
	Status model.OrderStatus `json:"status"`
	Items  int               `json:"items"`
	Total  decimal.Decimal   `json:"total"`
}
