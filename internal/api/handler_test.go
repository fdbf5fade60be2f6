package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/asta05/clinic-order-system/domain"
	"github.com/asta05/clinic-order-system/internal/config"
	"github.com/asta05/clinic-order-system/internal/migrations"
	"github.com/asta05/clinic-order-system/internal/seed"
	"github.com/asta05/clinic-order-system/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	migrations.Run(db)
	seed.SyncTablets(db)

	cfg := config.Config{MerchantVPA: "clinic@upi", MerchantName: "Clinic"}
	srv := httptest.NewServer(New(store.New(db), cfg).Router())
	t.Cleanup(func() {
		srv.Close()
		db.Close()
	})
	return srv, db
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestListTablets(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/tablets")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tablets []domain.Tablet
	decodeBody(t, resp, &tablets)
	require.Len(t, tablets, len(seed.ReferenceCatalog))
	assert.Equal(t, "Paracetamol 500mg", tablets[0].Name)
}

func TestCheckoutEndpoint(t *testing.T) {
	srv, db := newTestServer(t)

	resp := postJSON(t, srv.URL+"/checkout", map[string]any{
		"name":           "Asha",
		"phone":          "9999999999",
		"payment_method": "upi",
		"items":          []map[string]any{{"tablet_id": 1, "quantity": 5}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		store.CheckoutResult
		UPIURI string `json:"upi_uri"`
		QRPNG  string `json:"qr_png"`
	}
	decodeBody(t, resp, &body)
	assert.NotZero(t, body.OrderID)
	assert.Equal(t, 100.0, body.Total)
	require.Len(t, body.Committed, 1)
	assert.EqualValues(t, 5, body.Committed[0].Quantity)
	assert.Contains(t, body.UPIURI, "upi://pay?")
	assert.Contains(t, body.UPIURI, "am=100.00")
	assert.NotEmpty(t, body.QRPNG)

	var stock int64
	require.NoError(t, db.Get(&stock, `SELECT stock FROM tablets WHERE id = 1`))
	assert.EqualValues(t, 95, stock)
}

func TestCheckoutCashOmitsQR(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/checkout", map[string]any{
		"phone":          "8888888888",
		"payment_method": "cash",
		"items":          []map[string]any{{"tablet_id": 1, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.NotContains(t, body, "upi_uri")
	assert.NotContains(t, body, "qr_png")
}

func TestCheckoutValidationStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/checkout", map[string]any{
		"phone": "",
		"items": []map[string]any{{"tablet_id": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/checkout", map[string]any{
		"phone": "1234567890",
		"items": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutOutOfStockStatus(t *testing.T) {
	srv, db := newTestServer(t)
	_, err := db.Exec(`UPDATE tablets SET stock = 0 WHERE id = 1`)
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/checkout", map[string]any{
		"phone": "7777777777",
		"items": []map[string]any{{"tablet_id": 1, "quantity": 2}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestCustomerLookup(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/customers?phone=9999999999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	checkout := postJSON(t, srv.URL+"/checkout", map[string]any{
		"name":  "Asha",
		"phone": "9999999999",
		"items": []map[string]any{{"tablet_id": 1, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, checkout.StatusCode)
	checkout.Body.Close()

	resp, err = http.Get(srv.URL + "/customers?phone=9999999999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var customer domain.Customer
	decodeBody(t, resp, &customer)
	assert.Equal(t, "Asha", customer.Name)
	assert.Equal(t, "9999999999", customer.Phone)
}

func TestCustomerOrders(t *testing.T) {
	srv, _ := newTestServer(t)

	checkout := postJSON(t, srv.URL+"/checkout", map[string]any{
		"name":  "Asha",
		"phone": "9999999999",
		"items": []map[string]any{{"tablet_id": 1, "quantity": 5}},
	})
	require.Equal(t, http.StatusCreated, checkout.StatusCode)
	var placed store.CheckoutResult
	decodeBody(t, checkout, &placed)

	resp, err := http.Get(fmt.Sprintf("%s/customers/%d/orders", srv.URL, placed.Customer.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var history []store.OrderHistoryEntry
	decodeBody(t, resp, &history)
	require.Len(t, history, 1)
	assert.Equal(t, placed.OrderID, history[0].OrderID)
	assert.Equal(t, 100.0, history[0].Total)
}

func TestPaymentQR(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/payment/qr?amount=142.50&note=ClinicOrder")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestPaymentQRBadAmount(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, q := range []string{"", "amount=abc", "amount=-5"} {
		resp, err := http.Get(srv.URL + "/payment/qr?" + q)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}
