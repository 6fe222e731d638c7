// Package model содержит доменные сущности сервиса servicepoint.
package model

import "time"

// Role определяет роль пользователя в системе.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User представляет зарегистрированного пользователя с балансом кошелька.
// Баланс хранится в копейках и изменяется только операциями пополнения.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Password     string    `json:"password"`
	Role         Role      `json:"role"`
	BalanceCents int64     `json:"balance_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

// ServiceStatus описывает доступность услуги в каталоге.
type ServiceStatus string

const (
	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"
)

// Service представляет запись каталога услуг. Услуги не удаляются,
// только переводятся в статус inactive.
type Service struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Status     ServiceStatus `json:"status"`
	PriceCents int64         `json:"price_cents"`
}

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusSuccess OrderStatus = "success"
	OrderStatusFailed  OrderStatus = "failed"
)

// Valid сообщает, является ли значение одним из допустимых статусов заказа.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusSuccess, OrderStatusFailed:
		return true
	}
	return false
}

// Order представляет заявку на услугу. Название услуги, цена и имя
// пользователя фиксируются на момент создания и не зависят от последующих
// правок каталога. Инвариант: статус success возможен только при наличии
// прикреплённого файла, переход из success очищает файл.
type Order struct {
	ID         string      `json:"id"`
	Service    string      `json:"service"`
	Type       string      `json:"type"`
	Identifier string      `json:"identifier"`
	Note       string      `json:"note,omitempty"`
	Status     OrderStatus `json:"status"`
	Date       time.Time   `json:"date"`
	UserID     string      `json:"user_id"`
	UserName   string      `json:"user_name"`
	PriceCents int64       `json:"price_cents"`
	FileData   []byte      `json:"file_data,omitempty"`
}

// HasFile сообщает, прикреплён ли к заказу файл подтверждения.
func (o *Order) HasFile() bool {
	return len(o.FileData) > 0
}

// TransactionMethod определяет канал пополнения баланса.
type TransactionMethod string

const (
	MethodBkash TransactionMethod = "bKash"
	MethodAdmin TransactionMethod = "admin"
)

// Transaction представляет неизменяемую запись журнала пополнений.
// Записи только добавляются, никогда не редактируются и не удаляются.
type Transaction struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	UserName    string            `json:"user_name"`
	AmountCents int64             `json:"amount_cents"`
	Type        string            `json:"type"`
	Method      TransactionMethod `json:"method"`
	Status      string            `json:"status"`
	Date        time.Time         `json:"date"`
}

// Settings содержит единственную запись конфигурации сайта.
// Перезаписывается целиком при сохранении.
type Settings struct {
	SiteName         string `json:"site_name"`
	Logo             string `json:"logo,omitempty"`
	APIKey           string `json:"api_key,omitempty"`
	TelegramBotToken string `json:"telegram_bot_token,omitempty"`
	TelegramChatID   string `json:"telegram_chat_id,omitempty"`
}

// Branding содержит публичную часть настроек без секретов.
type Branding struct {
	SiteName string `json:"site_name"`
	Logo     string `json:"logo,omitempty"`
}
