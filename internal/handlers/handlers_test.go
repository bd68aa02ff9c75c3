package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/bendito/catalog-api/internal/catalog"
	"github.com/bendito/catalog-api/internal/orders"
	"github.com/bendito/catalog-api/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	catalogStore := catalog.NewStore(db)
	cfg := HandlerConfig{
		Catalog: catalogStore,
		Orders:  orders.NewStore(db, catalogStore),
		Logger:  log,
	}

	r := gin.New()
	r.Use(RequestID())
	RegisterRoutes(r, cfg)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// seedCatalog creates the Beverages/Cola fixture over HTTP and returns the ids.
func seedCatalog(t *testing.T, r *gin.Engine) (categoryID, productID int64) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/categories", gin.H{"name": "Beverages"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", w.Code, w.Body)
	}
	category := decode[catalog.Category](t, w)

	w = doJSON(t, r, http.MethodPost, "/api/products", gin.H{
		"name":           "Cola",
		"price":          "2.50",
		"stock_quantity": 100,
		"category_id":    category.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", w.Code, w.Body)
	}
	product := decode[catalog.Product](t, w)
	return category.ID, product.ID
}

func TestCreateOrderFlow(t *testing.T) {
	r := newTestRouter(t)
	_, productID := seedCatalog(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"user_id":      7,
		"order_date":   "2024-01-01T00:00:00",
		"total_amount": "100.00",
		"items": []gin.H{
			{"product_id": productID, "quantity": 3, "total_price": "0"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: %d %s", w.Code, w.Body)
	}
	order := decode[orders.Order](t, w)

	if loc := w.Header().Get("Location"); loc != "/api/orders/"+strconv.FormatInt(order.ID, 10) {
		t.Fatalf("unexpected Location header %q", loc)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	if !order.Items[0].TotalPrice.Equal(decimal.RequireFromString("7.50")) {
		t.Fatalf("expected computed item total 7.50, got %s", order.Items[0].TotalPrice)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("claimed total must be kept verbatim, got %s", order.TotalAmount)
	}

	// Round-trip over the API
	w = doJSON(t, r, http.MethodGet, "/api/orders/"+strconv.FormatInt(order.ID, 10), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get order: %d %s", w.Code, w.Body)
	}
	got := decode[orders.Order](t, w)
	if got.ID != order.ID || len(got.Items) != 1 || !got.Items[0].TotalPrice.Equal(order.Items[0].TotalPrice) {
		t.Fatalf("round-trip mismatch: %s", w.Body)
	}
	if got.Items[0].Product == nil || got.Items[0].Product.Category == nil {
		t.Fatal("expected product and category resolved in response")
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	r := newTestRouter(t)
	seedCatalog(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"user_id":    7,
		"order_date": "2024-01-01T00:00:00",
		"items": []gin.H{
			{"product_id": 999, "quantity": 1},
		},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), "999") {
		t.Fatalf("response must name the missing product id: %s", w.Body)
	}

	// Nothing persisted
	w = doJSON(t, r, http.MethodGet, "/api/orders", nil)
	list := decode[[]orders.Order](t, w)
	if len(list) != 0 {
		t.Fatalf("expected no orders, got %d", len(list))
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/products", gin.H{
		"name":        "Cola",
		"price":       "2.50",
		"category_id": 999,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %s", w.Code, w.Body)
	}
}

func TestUpdateIDMismatch(t *testing.T) {
	r := newTestRouter(t)
	categoryID, _ := seedCatalog(t, r)

	w := doJSON(t, r, http.MethodPut, "/api/categories/"+strconv.FormatInt(categoryID, 10), gin.H{
		"id":      categoryID + 1,
		"name":    "Drinks",
		"version": 1,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for id mismatch, got %d %s", w.Code, w.Body)
	}
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	r := newTestRouter(t)
	categoryID, _ := seedCatalog(t, r)
	path := "/api/categories/" + strconv.FormatInt(categoryID, 10)

	w := doJSON(t, r, http.MethodPut, path, gin.H{
		"id": categoryID, "name": "Drinks", "version": 1,
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("first update: %d %s", w.Code, w.Body)
	}

	// Same version again: the row moved on underneath this writer
	w = doJSON(t, r, http.MethodPut, path, gin.H{
		"id": categoryID, "name": "Liquids", "version": 1,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d %s", w.Code, w.Body)
	}
}

func TestDeleteOrderTwice(t *testing.T) {
	r := newTestRouter(t)
	_, productID := seedCatalog(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"user_id":    7,
		"order_date": "2024-01-01T00:00:00",
		"items":      []gin.H{{"product_id": productID, "quantity": 1}},
	})
	order := decode[orders.Order](t, w)
	path := "/api/orders/" + strconv.FormatInt(order.ID, 10)

	if w := doJSON(t, r, http.MethodDelete, path, nil); w.Code != http.StatusNoContent {
		t.Fatalf("first delete: %d %s", w.Code, w.Body)
	}
	if w := doJSON(t, r, http.MethodDelete, path, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d %s", w.Code, w.Body)
	}
	if w := doJSON(t, r, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d %s", w.Code, w.Body)
	}
}

func TestBadPathID(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/orders/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
}
