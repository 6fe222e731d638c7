// Package repository содержит файловую реализацию хранилища коллекций.
//
// Каждая коллекция хранится в отдельном JSON-файле в каталоге данных.
// Первый доступ к отсутствующей или повреждённой коллекции заполняет её
// фиксированным начальным набором данных и сразу сохраняет его, поэтому
// повторное чтение возвращает тот же набор. Повреждённые данные
// логируются и перезаписываются, ошибка наружу не отдаётся.
package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/servicepoint/internal/model"
)

// ErrEmailTaken возвращается при попытке регистрации с уже занятым email.
var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrServiceNotFound возвращается, если услуга не найдена в каталоге.
	ErrServiceNotFound = errors.New("service not found")
)

const (
	servicesFile     = "services.json"
	ordersFile       = "orders.json"
	usersFile        = "users.json"
	transactionsFile = "transactions.json"
	settingsFile     = "settings.json"
)

// FileRepository предоставляет доступ к коллекциям, сохраняемым в файлах.
// Все операции сериализуются одним мьютексом: между чтением и записью
// другая операция вклиниться не может, поэтому составные мутации
// (пополнение баланса плюс запись в журнал) наблюдаются только целиком.
type FileRepository struct {
	mu     sync.Mutex
	dir    string
	logger *zap.Logger
}

// NewFileRepository создаёт репозиторий поверх указанного каталога данных.
func NewFileRepository(dir string, logger *zap.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileRepository{dir: dir, logger: logger}, nil
}

// Close освобождает ресурсы репозитория.
func (r *FileRepository) Close() error {
	return nil
}

func (r *FileRepository) readCollection(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}

// writeCollection записывает коллекцию через временный файл и переименование,
// чтобы читатель не увидел частично записанный файл.
func (r *FileRepository) writeCollection(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(r.dir, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (r *FileRepository) loadUsers() ([]model.User, error) {
	var users []model.User
	err := r.readCollection(usersFile, &users)
	if err == nil {
		return users, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("corrupt users collection, reseeding", zap.Error(err))
	}
	users = seedUsers()
	if err := r.writeCollection(usersFile, users); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

func (r *FileRepository) loadServices() ([]model.Service, error) {
	var services []model.Service
	err := r.readCollection(servicesFile, &services)
	if err == nil {
		return services, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("corrupt services collection, reseeding", zap.Error(err))
	}
	services = seedServices()
	if err := r.writeCollection(servicesFile, services); err != nil {
		return nil, fmt.Errorf("seed services: %w", err)
	}
	return services, nil
}

func (r *FileRepository) loadOrders() ([]model.Order, error) {
	var orders []model.Order
	err := r.readCollection(ordersFile, &orders)
	if err == nil {
		return orders, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("corrupt orders collection, reseeding", zap.Error(err))
	}
	orders = seedOrders()
	if err := r.writeCollection(ordersFile, orders); err != nil {
		return nil, fmt.Errorf("seed orders: %w", err)
	}
	return orders, nil
}

func (r *FileRepository) loadTransactions() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.readCollection(transactionsFile, &transactions)
	if err == nil {
		return transactions, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("corrupt transactions collection, reseeding", zap.Error(err))
	}
	transactions = seedTransactions()
	if err := r.writeCollection(transactionsFile, transactions); err != nil {
		return nil, fmt.Errorf("seed transactions: %w", err)
	}
	return transactions, nil
}

func (r *FileRepository) loadSettings() (model.Settings, error) {
	var settings model.Settings
	err := r.readCollection(settingsFile, &settings)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("corrupt settings, reseeding defaults", zap.Error(err))
	}
	settings = seedSettings()
	if err := r.writeCollection(settingsFile, settings); err != nil {
		return model.Settings{}, fmt.Errorf("seed settings: %w", err)
	}
	return settings, nil
}

// newID дополняет отметку времени случайным суффиксом: идентификаторы
// не совпадают даже в пределах одной наносекунды и не угадываются.
func newID(prefix string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%s%d%s", prefix, time.Now().UnixNano(), hex.EncodeToString(suffix))
}

// CreateUser регистрирует нового пользователя с нулевым балансом.
// Email сравнивается без учёта регистра; повторная регистрация возвращает
// ErrEmailTaken и не изменяет коллекцию.
func (r *FileRepository) CreateUser(ctx context.Context, name, email, phone, password string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
	}

	user := model.User{
		ID:        newID("u"),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Password:  password,
		Role:      model.RoleUser,
		CreatedAt: time.Now(),
	}

	users = append([]model.User{user}, users...)
	if err := r.writeCollection(usersFile, users); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByEmail возвращает пользователя по email без учёта регистра.
func (r *FileRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *FileRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// ListUsers возвращает всех пользователей.
func (r *FileRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadUsers()
}

// ApplyRecharge увеличивает баланс пользователя и добавляет одну запись
// в журнал пополнений. Обе коллекции записываются в одной критической
// секции: пополнение без записи в журнале (и наоборот) наблюдаться не может.
func (r *FileRepository) ApplyRecharge(ctx context.Context, userID string, amountCents int64, method model.TransactionMethod) (*model.User, *model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers()
	if err != nil {
		return nil, nil, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, ErrUserNotFound
	}

	transactions, err := r.loadTransactions()
	if err != nil {
		return nil, nil, err
	}

	users[idx].BalanceCents += amountCents

	txn := model.Transaction{
		ID:          newID("txn_"),
		UserID:      users[idx].ID,
		UserName:    users[idx].Name,
		AmountCents: amountCents,
		Type:        "recharge",
		Method:      method,
		Status:      "success",
		Date:        time.Now(),
	}
	transactions = append([]model.Transaction{txn}, transactions...)

	if err := r.writeCollection(transactionsFile, transactions); err != nil {
		return nil, nil, err
	}
	if err := r.writeCollection(usersFile, users); err != nil {
		return nil, nil, err
	}

	user := users[idx]
	return &user, &txn, nil
}

// ListTransactions возвращает журнал пополнений, новые записи первыми.
func (r *FileRepository) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadTransactions()
}

// ListTransactionsByUser возвращает журнал пополнений одного пользователя.
func (r *FileRepository) ListTransactionsByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transactions, err := r.loadTransactions()
	if err != nil {
		return nil, err
	}

	res := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.UserID == userID {
			res = append(res, t)
		}
	}
	return res, nil
}

// ListServices возвращает каталог услуг.
func (r *FileRepository) ListServices(ctx context.Context) ([]model.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadServices()
}

// GetServiceByID возвращает услугу по идентификатору.
func (r *FileRepository) GetServiceByID(ctx context.Context, id string) (*model.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	services, err := r.loadServices()
	if err != nil {
		return nil, err
	}

	for i := range services {
		if services[i].ID == id {
			s := services[i]
			return &s, nil
		}
	}
	return nil, ErrServiceNotFound
}

// SaveService создаёт новую услугу (при пустом ID) или заменяет
// существующую. Услуги не удаляются, только деактивируются.
func (r *FileRepository) SaveService(ctx context.Context, svc model.Service) (*model.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	services, err := r.loadServices()
	if err != nil {
		return nil, err
	}

	if svc.ID == "" {
		svc.ID = newID("s")
		services = append(services, svc)
	} else {
		idx := -1
		for i := range services {
			if services[i].ID == svc.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, svc.ID)
		}
		services[idx] = svc
	}

	if err := r.writeCollection(servicesFile, services); err != nil {
		return nil, err
	}
	return &svc, nil
}

// CreateOrder сохраняет новый заказ. Идентификатор назначается здесь,
// если не задан.
func (r *FileRepository) CreateOrder(ctx context.Context, order model.Order) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.loadOrders()
	if err != nil {
		return nil, err
	}

	if order.ID == "" {
		order.ID = newID("o")
	}

	orders = append([]model.Order{order}, orders...)
	if err := r.writeCollection(ordersFile, orders); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByID возвращает заказ по идентификатору.
func (r *FileRepository) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.loadOrders()
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID == id {
			o := orders[i]
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// ListOrders возвращает все заказы, новые первыми.
func (r *FileRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadOrders()
}

// ListOrdersByUser возвращает заказы одного пользователя.
func (r *FileRepository) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.loadOrders()
	if err != nil {
		return nil, err
	}

	res := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.UserID == userID {
			res = append(res, o)
		}
	}
	return res, nil
}

// UpdateOrder заменяет существующий заказ целиком одной записью на диск.
// Статус и файл меняются вместе: промежуточное состояние не наблюдается.
func (r *FileRepository) UpdateOrder(ctx context.Context, order model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.loadOrders()
	if err != nil {
		return err
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == order.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, order.ID)
	}

	orders[idx] = order
	return r.writeCollection(ordersFile, orders)
}

// GetSettings возвращает настройки сайта, при первом доступе — значения
// по умолчанию.
func (r *FileRepository) GetSettings(ctx context.Context) (*model.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings, err := r.loadSettings()
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings перезаписывает настройки сайта целиком.
func (r *FileRepository) SaveSettings(ctx context.Context, settings model.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeCollection(settingsFile, settings)
}
