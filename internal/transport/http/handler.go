package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/asquebay/meal-ticket-service/internal/eligibility"
	"github.com/asquebay/meal-ticket-service/internal/model"
	"github.com/asquebay/meal-ticket-service/internal/repository/postgres"
	"github.com/asquebay/meal-ticket-service/internal/service"
)

const maxBodyBytes = 1 << 20

// MenuGetter отдаёт меню смены
type MenuGetter interface {
	GetShiftMenu(ctx context.Context, shiftID int64) ([]model.MenuItem, error)
}

// OrderManager — операции над корзиной и заказами, которые нужны UI
type OrderManager interface {
	AddItem(ctx context.Context, shiftID int64, sel model.Selection, itemID int64) (service.SelectionResult, error)
	RemoveItem(ctx context.Context, shiftID int64, sel model.Selection, itemID int64) (service.SelectionResult, error)
	Eligibility(ctx context.Context, shiftID int64, sel model.Selection) (service.SelectionResult, error)
	SubmitOrder(ctx context.Context, req model.SubmitRequest) (model.Order, error)
	GetOrderByUID(ctx context.Context, uid string) (model.Order, error)
}

// Handler обрабатывает HTTP-запросы
type Handler struct {
	menus  MenuGetter
	orders OrderManager
	engine *eligibility.Engine
	log    *slog.Logger
	mux    *http.ServeMux
}

// NewHandler создает новый экземпляр Handler
func NewHandler(menus MenuGetter, orders OrderManager, engine *eligibility.Engine, log *slog.Logger) *Handler {
	h := &Handler{
		menus:  menus,
		orders: orders,
		engine: engine,
		log:    log,
		mux:    http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP делает Handler совместимым с http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes регистрирует все эндпоинты
func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /shifts/{shift_id}/menu", h.getShiftMenu)
	h.mux.HandleFunc("POST /shifts/{shift_id}/selection", h.checkSelection)
	h.mux.HandleFunc("POST /shifts/{shift_id}/selection/add", h.addItem)
	h.mux.HandleFunc("POST /shifts/{shift_id}/selection/remove", h.removeItem)
	h.mux.HandleFunc("POST /shifts/{shift_id}/orders", h.submitOrder)
	h.mux.HandleFunc("GET /order/{order_uid}", h.getOrderByUID)

	// роутинг для статики UI (HTML/JS/CSS)
	fileServer := http.FileServer(http.Dir("./web/"))
	h.mux.Handle("/", http.StripPrefix("/", fileServer))
}

type categoryView struct {
	Kind string `json:"kind"`
	// Limit отсутствует, если суммарного лимита у категории нет
	Limit *int `json:"limit,omitempty"`
}

type menuResponse struct {
	ShiftID    int64                   `json:"shift_id"`
	Items      []model.MenuItem        `json:"items"`
	Categories map[string]categoryView `json:"categories"`
	CanAdd     map[int64]bool          `json:"can_add"`
}

type selectionRequest struct {
	Selection model.Selection `json:"selection"`
	ItemID    int64           `json:"item_id"`
}

type submitRequest struct {
	CustomerID string  `json:"customer_id"`
	ItemIDs    []int64 `json:"item_ids"`
}

func (h *Handler) getShiftMenu(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}

	items, err := h.menus.GetShiftMenu(r.Context(), shiftID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	categories := make(map[string]categoryView)
	for key, b := range h.engine.Behaviors(items) {
		view := categoryView{Kind: b.Kind.String()}
		if b.Bounded() {
			limit := b.Limit
			view.Limit = &limit
		}
		categories[key] = view
	}

	h.respondJSON(w, http.StatusOK, menuResponse{
		ShiftID:    shiftID,
		Items:      items,
		Categories: categories,
		CanAdd:     h.engine.Eligibility(model.Selection{}, items),
	})
}

func (h *Handler) checkSelection(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}

	var req selectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.orders.Eligibility(r.Context(), shiftID, req.Selection)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	h.changeSelection(w, r, h.orders.AddItem)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	h.changeSelection(w, r, h.orders.RemoveItem)
}

type selectionChange func(ctx context.Context, shiftID int64, sel model.Selection, itemID int64) (service.SelectionResult, error)

func (h *Handler) changeSelection(w http.ResponseWriter, r *http.Request, change selectionChange) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}

	var req selectionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ItemID == 0 {
		h.respondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	res, err := change(r.Context(), shiftID, req.Selection, req.ItemID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.orders.SubmitOrder(r.Context(), model.SubmitRequest{
		ShiftID:    shiftID,
		CustomerID: req.CustomerID,
		Source:     model.SourceWeb,
		ItemIDs:    req.ItemIDs,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrderByUID(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("order_uid")
	if uid == "" {
		h.respondError(w, http.StatusBadRequest, "order_uid is required")
		return
	}

	order, err := h.orders.GetOrderByUID(r.Context(), uid)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, order)
}

func (h *Handler) shiftID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("shift_id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "shift_id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// respondServiceError переводит ошибки сервисного слоя в HTTP-статусы
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, postgres.ErrShiftNotFound):
		h.respondError(w, http.StatusNotFound, "shift not found")
	case errors.Is(err, postgres.ErrOrderNotFound):
		h.respondError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrInvalidRequest):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderRejected),
		errors.Is(err, service.ErrInvalidSelection),
		errors.Is(err, eligibility.ErrUnknownItem):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error("internal server error", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal JSON response", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(response)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
