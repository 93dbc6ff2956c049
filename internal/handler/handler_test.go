package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careplus/pharmacy-api/internal/account"
	"github.com/careplus/pharmacy-api/internal/auth"
	"github.com/careplus/pharmacy-api/internal/cart"
	"github.com/careplus/pharmacy-api/internal/catalog"
	"github.com/careplus/pharmacy-api/internal/checkout"
	"github.com/careplus/pharmacy-api/internal/contact"
	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/middleware"
	"github.com/careplus/pharmacy-api/internal/prescription"
	"github.com/careplus/pharmacy-api/internal/worker"
)

const testSecret = "test-secret"

type testEnv struct {
	router *gin.Engine
	store  kvstore.Store
	log    *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := kvstore.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	nowID := func() int64 { return time.Now().UnixNano() }

	catalogSvc := catalog.NewService(store, log, 1)
	cartSvc := cart.NewService(store, catalogSvc, log)
	authSvc := auth.NewService(store, log, testSecret, time.Hour)
	checkoutSvc := checkout.NewService(store, cartSvc, nil, log, nowID)
	accountSvc := account.NewService(store, cartSvc, log, nowID)
	prescriptionSvc := prescription.NewService(store, log, nowID)
	contactSvc := contact.NewService(store, log, nowID)

	authH := NewAuthHandler(authSvc)
	productH := NewProductHandler(catalogSvc)
	cartH := NewCartHandler(cartSvc)
	checkoutH := NewCheckoutHandler(checkoutSvc)
	accountH := NewAccountHandler(accountSvc)
	prescriptionH := NewPrescriptionHandler(prescriptionSvc)
	contactH := NewContactHandler(contactSvc)
	healthH := NewHealthHandler(store, nil)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authRequired := middleware.AuthMiddleware(testSecret)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authH.Register)
	v1.POST("/auth/login", authH.Login)
	v1.GET("/auth/me", authRequired, authH.Me)
	v1.GET("/products", productH.List)
	v1.GET("/products/:id", productH.GetByID)
	v1.GET("/products/brands", productH.Brands)

	cartGroup := v1.Group("/cart", authRequired)
	cartGroup.GET("", cartH.Get)
	cartGroup.POST("/items", cartH.AddItem)
	cartGroup.PUT("/items/:productId", cartH.UpdateItem)
	cartGroup.DELETE("/items/:productId", cartH.RemoveItem)
	cartGroup.POST("/discount", cartH.ApplyDiscount)

	checkoutGroup := v1.Group("/checkout", authRequired)
	checkoutGroup.GET("", checkoutH.State)
	checkoutGroup.POST("/address", checkoutH.SubmitAddress)
	checkoutGroup.POST("/payment", checkoutH.SubmitPayment)
	checkoutGroup.POST("/place-order", checkoutH.PlaceOrder)

	orders := v1.Group("/orders", authRequired)
	orders.GET("", accountH.ListOrders)
	orders.GET("/:id", accountH.GetOrder)

	prescriptions := v1.Group("/prescriptions", authRequired)
	prescriptions.POST("", prescriptionH.Submit)

	v1.POST("/contact", contactH.Submit)
	v1.GET("/branches", contactH.Branches)

	return &testEnv{router: router, store: store, log: log}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "test@example.com", "password": "whatever",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListProductsPagination(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products?page=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products   []json.RawMessage `json:"products"`
		Total      int               `json:"total"`
		TotalPages int               `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 12)
	assert.Greater(t, resp.Total, 12)
}

func TestListProductsFilterByCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products?category=wellness", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products []struct {
			Category string `json:"category"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Products)
	for _, p := range resp.Products {
		assert.Equal(t, "wellness", p.Category)
	}
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/products/999999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		TotalItems int `json:"total_items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalItems)

	// Unknown discount code is a 400.
	rec = env.do(t, http.MethodPost, "/api/v1/cart/discount", token, gin.H{"code": "NOPE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/cart/discount", token, gin.H{"code": "SAVE20"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/cart/items/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Zero(t, summary.TotalItems)
}

func TestCheckoutEmptyCartConflict(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodGet, "/api/v1/checkout", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckoutFlowPlacesOrder(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{"product_id": 1, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	// Invalid address names the field.
	rec = env.do(t, http.MethodPost, "/api/v1/checkout/address", token, gin.H{"full_name": "Sara"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "field")

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/address", token, gin.H{
		"full_name": "Sara Ahmed",
		"phone":     "+1 555 123 4567",
		"street":    "12 Main St",
		"city":      "Springfield",
		"state":     "IL",
		"zipcode":   "62704",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Payment before address would have been a conflict; now it advances.
	rec = env.do(t, http.MethodPost, "/api/v1/checkout/payment", token, gin.H{"method": "cod"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/place-order", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed struct {
		Order struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"order"`
		WhatsAppURL string `json:"whatsapp_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	assert.Equal(t, "pending", placed.Order.Status)
	assert.NotEmpty(t, placed.WhatsAppURL)

	// Order shows up in history.
	rec = env.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending"`)

	// After fulfillment runs, the history reflects delivery.
	rec = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))

	w := worker.NewFulfillmentWorker(nil, env.store, nil, env.log, 0)
	require.NoError(t, w.ProcessOrder(context.Background(), me.ID, placed.Order.ID))

	rec = env.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"delivered"`)
}

func TestPrescriptionUpload(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("patient_name", "Omar Khalil"))
	require.NoError(t, mw.WriteField("patient_age", "45"))
	require.NoError(t, mw.WriteField("patient_phone", "+1 555 000 1111"))
	require.NoError(t, mw.WriteField("delivery_address", "12 Main St"))

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="files"; filename="rx.jpg"`}
	hdr["Content-Type"] = []string{"image/jpeg"}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/prescriptions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending"`)
}

func TestContactValidationAndBranches(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/contact", "", gin.H{"first_name": "Lina"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/contact", "", gin.H{
		"first_name": "Lina",
		"last_name":  "Hassan",
		"email":      "lina@example.com",
		"subject":    "Hours",
		"message":    "Are you open Fridays?",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "MSG")

	rec = env.do(t, http.MethodGet, "/api/v1/branches", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "maps/dir")
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}
