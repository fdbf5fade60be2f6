package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/asta05/clinic-order-system/internal/config"
	"github.com/asta05/clinic-order-system/internal/payment"
	"github.com/asta05/clinic-order-system/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	cfg   config.Config
}

// New constructs a Handler.
func New(st *store.Store, cfg config.Config) *Handler {
	return &Handler{store: st, cfg: cfg}
}

// Router wires up the HTTP API consumed by the order page.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // Change "*" to a list of allowed domains (e.g., ["http://localhost:3000"])
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Get("/tablets", h.listTablets)

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.lookupCustomer)
		r.Get("/{id}/orders", h.customerOrders)
	})

	r.Post("/checkout", h.checkout)
	r.Get("/payment/qr", h.paymentQR)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Catalog

func (h *Handler) listTablets(w http.ResponseWriter, r *http.Request) {
	tablets, err := h.store.ListTablets(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list tablets")
		return
	}
	respondJSON(w, http.StatusOK, tablets)
}

// Customers

func (h *Handler) lookupCustomer(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		respondError(w, http.StatusBadRequest, "phone is required")
		return
	}
	customer, err := h.store.FindCustomerByPhone(r.Context(), phone)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to look up customer")
		return
	}
	if customer == nil {
		respondError(w, http.StatusNotFound, "no customer found with that phone")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) customerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	orders, err := h.store.OrdersForCustomer(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// Checkout

type checkoutResponse struct {
	store.CheckoutResult
	UPIURI string `json:"upi_uri,omitempty"`
	QRPNG  string `json:"qr_png,omitempty"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req store.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.store.Checkout(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrPhoneRequired),
		errors.Is(err, store.ErrEmptyCart),
		errors.Is(err, store.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, store.ErrNothingInStock):
		respondError(w, http.StatusConflict, err.Error())
		return
	default:
		respondError(w, http.StatusInternalServerError, "unable to place order")
		return
	}

	resp := checkoutResponse{CheckoutResult: *result}
	if strings.EqualFold(req.PaymentMethod, "upi") {
		uri := payment.EncodePaymentRequest(h.cfg.MerchantVPA, h.cfg.MerchantName, result.Total, "ClinicOrder-"+result.Reference)
		resp.UPIURI = uri
		png, err := payment.QRPNG(uri, 256)
		if err != nil {
			// QR rendering is informational only; the URI alone still works.
			log.Printf("unable to render payment QR for order %d: %v", result.OrderID, err)
		} else {
			resp.QRPNG = base64.StdEncoding.EncodeToString(png)
		}
	}
	respondJSON(w, http.StatusCreated, resp)
}

// Payment QR

func (h *Handler) paymentQR(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil || amount <= 0 {
		respondError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	note := strings.TrimSpace(r.URL.Query().Get("note"))

	uri := payment.EncodePaymentRequest(h.cfg.MerchantVPA, h.cfg.MerchantName, amount, note)
	png, err := payment.QRPNG(uri, 256)
	if err != nil {
		log.Printf("unable to render payment QR: %v", err)
		respondJSON(w, http.StatusOK, map[string]string{
			"upi_uri": uri,
			"notice":  "QR rendering unavailable, enter the UPI details manually",
		})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
