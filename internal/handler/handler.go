// Package handler содержит HTTP-обработчики API сервиса servicepoint.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/servicepoint/internal/middleware"
	"github.com/mmeshcher/servicepoint/internal/model"
	"github.com/mmeshcher/servicepoint/internal/repository"
	"github.com/mmeshcher/servicepoint/internal/service"
)

// maxUploadSize ограничивает размер загружаемого файла подтверждения.
const maxUploadSize = 10 << 20

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, name, email, phone, password string) (*model.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListServices(ctx context.Context, role model.Role) ([]model.Service, error)
	SaveService(ctx context.Context, svc model.Service) (*model.Service, error)
	CreateOrder(ctx context.Context, userID, serviceID, docType, identifier, note string) (*model.Order, error)
	ListOrders(ctx context.Context, role model.Role, userID string) ([]model.Order, error)
	SetOrderStatus(ctx context.Context, orderID string, newStatus model.OrderStatus) (*model.Order, error)
	AttachOrderFile(ctx context.Context, orderID string, data []byte) (*model.Order, error)
	OrderFile(ctx context.Context, role model.Role, userID, orderID string) (string, []byte, error)
	StartRecharge(ctx context.Context, userID string, amountCents int64, method model.TransactionMethod) (string, error)
	CancelRecharge(role model.Role, userID, paymentID string) error
	CreditBalance(ctx context.Context, userID string, amountCents int64) (*model.User, error)
	ListTransactions(ctx context.Context, role model.Role, userID string) ([]model.Transaction, error)
	GetSettings(ctx context.Context) (*model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error
	GetBranding(ctx context.Context) (*model.Branding, error)
	GetSummary(ctx context.Context) (*service.Summary, error)
}

// Handler реализует HTTP-обработчики API сервиса servicepoint.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

// Суммы во внешнем API передаются в денежных единицах,
// внутри сервиса хранятся в копейках.
func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

func amountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type userResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Role    string  `json:"role"`
	Balance float64 `json:"balance"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Role:    string(u.Role),
		Balance: centsToAmount(u.BalanceCents),
	}
}

type orderResponse struct {
	ID         string  `json:"id"`
	Service    string  `json:"service"`
	Type       string  `json:"type"`
	Identifier string  `json:"identifier"`
	Note       string  `json:"note,omitempty"`
	Status     string  `json:"status"`
	Date       string  `json:"date"`
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	Price      float64 `json:"price"`
	HasFile    bool    `json:"has_file"`
}

func toOrderResponse(o *model.Order) orderResponse {
	return orderResponse{
		ID:         o.ID,
		Service:    o.Service,
		Type:       o.Type,
		Identifier: o.Identifier,
		Note:       o.Note,
		Status:     string(o.Status),
		Date:       o.Date.Format(time.RFC3339),
		UserID:     o.UserID,
		UserName:   o.UserName,
		Price:      centsToAmount(o.PriceCents),
		HasFile:    o.HasFile(),
	}
}

type serviceResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Price  float64 `json:"price"`
}

func toServiceResponse(s *model.Service) serviceResponse {
	return serviceResponse{
		ID:     s.ID,
		Name:   s.Name,
		Status: string(s.Status),
		Price:  centsToAmount(s.PriceCents),
	}
}

type transactionResponse struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Method   string  `json:"method"`
	Status   string  `json:"status"`
	Date     string  `json:"date"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
			return
		}
		h.logger.Error("register user error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, middleware.Actor{UserID: user.ID, Role: user.Role}); err != nil {
		h.logger.Error("set auth cookie error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login выполняет аутентификацию пользователя и установку cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.logger.Error("login user error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, middleware.Actor{UserID: user.ID, Role: user.Role}); err != nil {
		h.logger.Error("set auth cookie error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Logout сбрасывает cookie авторизации.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusOK)
}

// Me возвращает профиль и актуальный баланс текущего пользователя.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetUser(r.Context(), actor.UserID)
	if err != nil {
		h.logger.Error("get user error", zap.Error(err), zap.String("userID", actor.UserID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Branding возвращает публичные настройки сайта без секретов.
func (h *Handler) Branding(w http.ResponseWriter, r *http.Request) {
	branding, err := h.service.GetBranding(r.Context())
	if err != nil {
		h.logger.Error("get branding error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, branding)
}

// GetServices возвращает каталог услуг с учётом роли текущего пользователя.
func (h *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	services, err := h.service.ListServices(r.Context(), actor.Role)
	if err != nil {
		h.logger.Error("list services error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]serviceResponse, 0, len(services))
	for i := range services {
		resp = append(resp, toServiceResponse(&services[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

type createOrderRequest struct {
	ServiceID  string `json:"service_id"`
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
	Note       string `json:"note"`
}

// CreateOrder создаёт заказ от имени текущего пользователя.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), actor.UserID, req.ServiceID, req.Type, req.Identifier, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyIdentifier):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrServiceNotFound), errors.Is(err, service.ErrServiceInactive):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			h.logger.Error("create order error", zap.Error(err), zap.String("userID", actor.UserID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// GetOrders возвращает список заказов: администратору — все,
// пользователю — только собственные.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	orders, err := h.service.ListOrders(r.Context(), actor.Role, actor.UserID)
	if err != nil {
		h.logger.Error("get orders error", zap.Error(err), zap.String("userID", actor.UserID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// DownloadOrderFile отдаёт файл подтверждения успешного заказа.
func (h *Handler) DownloadOrderFile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	orderID := chi.URLParam(r, "orderID")

	name, data, err := h.service.OrderFile(r.Context(), actor.Role, actor.UserID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		case errors.Is(err, service.ErrFileNotAvailable):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.logger.Error("download order file error", zap.Error(err), zap.String("order", orderID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type rechargeRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

type rechargeResponse struct {
	PaymentID string `json:"payment_id"`
}

// StartRecharge регистрирует отложенный платёж пополнения баланса.
func (h *Handler) StartRecharge(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req rechargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	paymentID, err := h.service.StartRecharge(r.Context(), actor.UserID, amountToCents(req.Amount), model.TransactionMethod(req.Method))
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("start recharge error", zap.Error(err), zap.String("userID", actor.UserID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, rechargeResponse{PaymentID: paymentID})
}

// CancelRecharge отменяет отложенный платёж текущего пользователя
// до его применения.
func (h *Handler) CancelRecharge(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	paymentID := chi.URLParam(r, "paymentID")

	if err := h.service.CancelRecharge(actor.Role, actor.UserID, paymentID); err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("cancel recharge error", zap.Error(err), zap.String("payment", paymentID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetTransactions возвращает журнал пополнений: администратору — весь,
// пользователю — только его записи.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), actor.Role, actor.UserID)
	if err != nil {
		h.logger.Error("get transactions error", zap.Error(err), zap.String("userID", actor.UserID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if len(transactions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		resp = append(resp, transactionResponse{
			ID:       t.ID,
			UserID:   t.UserID,
			UserName: t.UserName,
			Amount:   centsToAmount(t.AmountCents),
			Type:     t.Type,
			Method:   string(t.Method),
			Status:   t.Status,
			Date:     t.Date.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetOrderStatus переводит заказ в новый статус (операция администратора).
func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	order, err := h.service.SetOrderStatus(r.Context(), orderID, model.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrFileRequired):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, repository.ErrOrderNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		default:
			h.logger.Error("set order status error", zap.Error(err), zap.String("order", orderID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// AttachOrderFile принимает PDF-файл подтверждения и переводит заказ
// в статус success (операция администратора).
func (h *Handler) AttachOrderFile(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	defer r.Body.Close()

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	order, err := h.service.AttachOrderFile(r.Context(), orderID, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotPDF):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrOrderNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		default:
			h.logger.Error("attach order file error", zap.Error(err), zap.String("order", orderID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// GetUsers возвращает всех пользователей (операция администратора).
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

type creditRequest struct {
	Amount float64 `json:"amount"`
}

// CreditBalance зачисляет средства пользователю от имени администратора.
func (h *Handler) CreditBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req creditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.service.CreditBalance(r.Context(), userID, amountToCents(req.Amount))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrUserNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		default:
			h.logger.Error("credit balance error", zap.Error(err), zap.String("userID", userID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type serviceRequest struct {
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Price  float64 `json:"price"`
}

// CreateService добавляет услугу в каталог (операция администратора).
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	h.saveService(w, r, "")
}

// UpdateService изменяет услугу каталога (операция администратора).
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	h.saveService(w, r, chi.URLParam(r, "serviceID"))
}

func (h *Handler) saveService(w http.ResponseWriter, r *http.Request, serviceID string) {
	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	svc, err := h.service.SaveService(r.Context(), model.Service{
		ID:         serviceID,
		Name:       req.Name,
		Status:     model.ServiceStatus(req.Status),
		PriceCents: amountToCents(req.Price),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyServiceName), errors.Is(err, service.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrServiceNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		default:
			h.logger.Error("save service error", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	status := http.StatusOK
	if serviceID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, toServiceResponse(svc))
}

// GetSettings возвращает полные настройки сайта (операция администратора).
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.logger.Error("get settings error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// SaveSettings перезаписывает настройки сайта (операция администратора).
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.SaveSettings(r.Context(), settings); err != nil {
		h.logger.Error("save settings error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetSummary возвращает сводные показатели для панели администратора.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		h.logger.Error("get summary error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
