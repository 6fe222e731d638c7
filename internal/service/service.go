// Package service реализует бизнес-логику сервиса servicepoint.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmeshcher/servicepoint/internal/model"
	"github.com/mmeshcher/servicepoint/internal/policy"
	"github.com/mmeshcher/servicepoint/internal/repository"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmptyIdentifier возвращается, если номер документа не заполнен.
	ErrEmptyIdentifier = errors.New("identifier must not be empty")
	// ErrServiceInactive возвращается при заказе неактивной услуги.
	ErrServiceInactive = errors.New("service is not active")
	// ErrInvalidStatus возвращается при неизвестном статусе заказа.
	ErrInvalidStatus = errors.New("unknown order status")
	// ErrFileRequired возвращается при попытке перевести заказ в success
	// без прикреплённого файла: единственный путь к success лежит через
	// загрузку файла.
	ErrFileRequired = errors.New("success status requires an attached file")
	// ErrNotPDF возвращается, если загруженный файл не является PDF.
	ErrNotPDF = errors.New("only PDF files are accepted")
	// ErrFileNotAvailable возвращается при попытке скачать файл заказа,
	// который не завершён успешно.
	ErrFileNotAvailable = errors.New("order file is not available")
	// ErrInvalidAmount возвращается при неположительной сумме пополнения.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrEmptyServiceName возвращается при сохранении услуги без названия.
	ErrEmptyServiceName = errors.New("service name must not be empty")
	// ErrPaymentNotFound возвращается, если ожидающий платёж не найден
	// (уже применён, отменён или не существовал).
	ErrPaymentNotFound = errors.New("pending payment not found")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateUser(ctx context.Context, name, email, phone, password string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ApplyRecharge(ctx context.Context, userID string, amountCents int64, method model.TransactionMethod) (*model.User, *model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID string) ([]model.Transaction, error)
	ListServices(ctx context.Context) ([]model.Service, error)
	GetServiceByID(ctx context.Context, id string) (*model.Service, error)
	SaveService(ctx context.Context, svc model.Service) (*model.Service, error)
	CreateOrder(ctx context.Context, order model.Order) (*model.Order, error)
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	UpdateOrder(ctx context.Context, order model.Order) error
	GetSettings(ctx context.Context) (*model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error
}

// Notifier описывает контракт отправки уведомлений. Вызовы выполняются
// в отдельных горутинах и не влияют на исход вызвавшей операции.
type Notifier interface {
	OrderCreated(order model.Order, owner model.User)
	Recharge(user model.User, amountCents int64)
}

// newPaymentID дополняет отметку времени случайным суффиксом:
// идентификатор платежа нельзя угадать перебором соседних значений.
func newPaymentID() string {
	suffix := make([]byte, 8)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("pay%d%s", time.Now().UnixNano(), hex.EncodeToString(suffix))
}

type pendingPayment struct {
	timer       *time.Timer
	userID      string
	amountCents int64
	method      model.TransactionMethod
}

// Service содержит бизнес-логику сервиса servicepoint.
type Service struct {
	repo         Repository
	notifier     Notifier
	paymentDelay time.Duration

	mu       sync.Mutex
	payments map[string]*pendingPayment
}

// NewService создаёт новый сервис с указанным репозиторием и отправителем
// уведомлений. paymentDelay — задержка применения имитируемого платежа.
func NewService(repo Repository, notifier Notifier, paymentDelay time.Duration) *Service {
	return &Service{
		repo:         repo,
		notifier:     notifier,
		paymentDelay: paymentDelay,
		payments:     make(map[string]*pendingPayment),
	}
}

// Close останавливает отложенные платежи и закрывает ресурсы сервиса.
func (s *Service) Close() error {
	s.mu.Lock()
	for id, p := range s.payments {
		p.timer.Stop()
		delete(s.payments, id)
	}
	s.mu.Unlock()

	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RegisterUser регистрирует нового пользователя с ролью user и нулевым
// балансом. Повторная регистрация email возвращает repository.ErrEmailTaken.
func (s *Service) RegisterUser(ctx context.Context, name, email, phone, password string) (*model.User, error) {
	return s.repo.CreateUser(ctx, name, email, phone, password)
}

// AuthenticateUser проверяет email и пароль пользователя.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.Password != password {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetUser возвращает пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ListUsers возвращает всех пользователей (административная операция).
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// ListServices возвращает каталог услуг с учётом роли: пользователю
// видны только активные услуги.
func (s *Service) ListServices(ctx context.Context, role model.Role) ([]model.Service, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	return policy.VisibleServices(role, services), nil
}

// SaveService создаёт или изменяет услугу каталога.
func (s *Service) SaveService(ctx context.Context, svc model.Service) (*model.Service, error) {
	if strings.TrimSpace(svc.Name) == "" {
		return nil, ErrEmptyServiceName
	}
	if svc.PriceCents < 0 {
		return nil, ErrInvalidAmount
	}
	if svc.Status != model.ServiceStatusActive && svc.Status != model.ServiceStatusInactive {
		svc.Status = model.ServiceStatusActive
	}
	return s.repo.SaveService(ctx, svc)
}

// CreateOrder создаёт заказ на активную услугу. Название услуги, цена и
// имя пользователя фиксируются на момент создания: последующие правки
// каталога не меняют историю. После сохранения асинхронно уходит
// уведомление, его ошибка на заказ не влияет.
func (s *Service) CreateOrder(ctx context.Context, userID, serviceID, docType, identifier, note string) (*model.Order, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrEmptyIdentifier
	}

	svc, err := s.repo.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.Status != model.ServiceStatusActive {
		return nil, fmt.Errorf("%w: %s", ErrServiceInactive, svc.Name)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := model.Order{
		Service:    svc.Name,
		Type:       docType,
		Identifier: identifier,
		Note:       strings.TrimSpace(note),
		Status:     model.OrderStatusPending,
		Date:       time.Now(),
		UserID:     user.ID,
		UserName:   user.Name,
		PriceCents: svc.PriceCents,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.OrderCreated(*created, *user)
	}

	return created, nil
}

// ListOrders возвращает заказы с учётом роли: администратор видит все,
// пользователь — только собственные.
func (s *Service) ListOrders(ctx context.Context, role model.Role, userID string) ([]model.Order, error) {
	if policy.Allowed(role, policy.ResourceOrders, policy.ActionViewAll) {
		return s.repo.ListOrders(ctx)
	}
	return s.repo.ListOrdersByUser(ctx, userID)
}

// SetOrderStatus переводит заказ в новый статус. Переход в success без
// прикреплённого файла отклоняется: он возможен только через
// AttachOrderFile. Переход в pending или failed очищает файл.
func (s *Service) SetOrderStatus(ctx context.Context, orderID string, newStatus model.OrderStatus) (*model.Order, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if newStatus == model.OrderStatusSuccess && !order.HasFile() {
		return nil, ErrFileRequired
	}

	if newStatus != model.OrderStatusSuccess {
		order.FileData = nil
	}
	order.Status = newStatus

	if err := s.repo.UpdateOrder(ctx, *order); err != nil {
		return nil, err
	}
	return order, nil
}

// AttachOrderFile прикрепляет PDF-файл к заказу и одновременно переводит
// его в success одной записью в хранилище. Файл иного типа отклоняется,
// заказ при этом не меняется.
func (s *Service) AttachOrderFile(ctx context.Context, orderID string, data []byte) (*model.Order, error) {
	if http.DetectContentType(data) != "application/pdf" {
		return nil, ErrNotPDF
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.FileData = data
	order.Status = model.OrderStatusSuccess

	if err := s.repo.UpdateOrder(ctx, *order); err != nil {
		return nil, err
	}
	return order, nil
}

// OrderFile возвращает имя и содержимое файла успешного заказа.
// Пользователь может скачивать только собственные заказы.
func (s *Service) OrderFile(ctx context.Context, role model.Role, userID, orderID string) (string, []byte, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return "", nil, err
	}

	if !policy.CanAccessOrder(role, userID, order) {
		return "", nil, repository.ErrOrderNotFound
	}

	if order.Status != model.OrderStatusSuccess || !order.HasFile() {
		return "", nil, ErrFileNotAvailable
	}

	return fmt.Sprintf("order-%s.pdf", order.ID), order.FileData, nil
}

// StartRecharge регистрирует ожидающий платёж. Баланс и журнал меняются
// только после истечения задержки обработки; до этого платёж можно
// отменить через CancelRecharge.
func (s *Service) StartRecharge(ctx context.Context, userID string, amountCents int64, method model.TransactionMethod) (string, error) {
	if amountCents <= 0 {
		return "", ErrInvalidAmount
	}
	if method == "" {
		method = model.MethodBkash
	}

	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return "", err
	}

	paymentID := newPaymentID()

	s.mu.Lock()
	p := &pendingPayment{
		userID:      userID,
		amountCents: amountCents,
		method:      method,
	}
	p.timer = time.AfterFunc(s.paymentDelay, func() {
		s.completePayment(paymentID)
	})
	s.payments[paymentID] = p
	s.mu.Unlock()

	return paymentID, nil
}

// CancelRecharge отменяет ожидающий платёж до истечения задержки.
// Отменить платёж может только его владелец либо администратор; чужой
// платёж неотличим от несуществующего. После отмены ни баланс, ни журнал
// не меняются.
func (s *Service) CancelRecharge(role model.Role, userID, paymentID string) error {
	s.mu.Lock()
	p, ok := s.payments[paymentID]
	if ok && p.userID != userID && !policy.Allowed(role, policy.ResourceWallet, policy.ActionCancelAny) {
		ok = false
	}
	if ok {
		delete(s.payments, paymentID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrPaymentNotFound
	}

	p.timer.Stop()
	return nil
}

// completePayment применяет платёж ровно один раз: запись в карте служит
// признаком того, что платёж ещё не применён и не отменён.
func (s *Service) completePayment(paymentID string) {
	s.mu.Lock()
	p, ok := s.payments[paymentID]
	if ok {
		delete(s.payments, paymentID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	user, _, err := s.repo.ApplyRecharge(context.Background(), p.userID, p.amountCents, p.method)
	if err != nil {
		return
	}

	if s.notifier != nil {
		go s.notifier.Recharge(*user, p.amountCents)
	}
}

// CreditBalance зачисляет средства пользователю от имени администратора.
// Операция проходит через тот же журнал, что и самостоятельное пополнение,
// с каналом admin, поэтому журнал остаётся симметричным.
func (s *Service) CreditBalance(ctx context.Context, userID string, amountCents int64) (*model.User, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	user, _, err := s.repo.ApplyRecharge(ctx, userID, amountCents, model.MethodAdmin)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListTransactions возвращает журнал пополнений с учётом роли:
// администратор видит весь журнал, пользователь — только свои записи.
func (s *Service) ListTransactions(ctx context.Context, role model.Role, userID string) ([]model.Transaction, error) {
	if policy.Allowed(role, policy.ResourceUsers, policy.ActionViewAll) {
		return s.repo.ListTransactions(ctx)
	}
	return s.repo.ListTransactionsByUser(ctx, userID)
}

// GetSettings возвращает полные настройки сайта (административная операция).
func (s *Service) GetSettings(ctx context.Context) (*model.Settings, error) {
	return s.repo.GetSettings(ctx)
}

// SaveSettings перезаписывает настройки сайта целиком.
func (s *Service) SaveSettings(ctx context.Context, settings model.Settings) error {
	return s.repo.SaveSettings(ctx, settings)
}

// GetBranding возвращает публичную часть настроек без секретов.
func (s *Service) GetBranding(ctx context.Context) (*model.Branding, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Branding{
		SiteName: settings.SiteName,
		Logo:     settings.Logo,
	}, nil
}

// Summary содержит сводные показатели для панели администратора.
type Summary struct {
	TotalRevenueCents int64 `json:"total_revenue_cents"`
	TotalOrders       int   `json:"total_orders"`
	PendingOrders     int   `json:"pending_orders"`
	TotalUsers        int   `json:"total_users"`
}

// GetSummary считает показатели панели администратора: выручка по
// успешным заказам, количество заказов и пользователей.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalOrders: len(orders),
		TotalUsers:  len(users),
	}
	for _, o := range orders {
		switch o.Status {
		case model.OrderStatusSuccess:
			summary.TotalRevenueCents += o.PriceCents
		case model.OrderStatusPending:
			summary.PendingOrders++
		}
	}
	return summary, nil
}
