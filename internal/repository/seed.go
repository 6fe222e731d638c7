package repository

import (
	"time"

	"github.com/mmeshcher/servicepoint/internal/model"
)

// seedReceiptPDF — минимальный PDF-документ, прикрепляемый к успешным
// заказам начального набора данных. Статус success без файла недопустим.
var seedReceiptPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

var seedCreatedAt = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)

// seedServices возвращает начальный каталог услуг.
// Идентификаторы и цены фиксированы, чтобы повторное заполнение
// давало тот же набор данных.
func seedServices() []model.Service {
	return []model.Service{
		{ID: "s1", Name: "New NID", Status: model.ServiceStatusActive, PriceCents: 20000},
		{ID: "s2", Name: "Server Copy Updated", Status: model.ServiceStatusActive, PriceCents: 5000},
		{ID: "s3", Name: "TIN Certificate", Status: model.ServiceStatusActive, PriceCents: 8000},
		{ID: "s4", Name: "New Birth Registration", Status: model.ServiceStatusActive, PriceCents: 12000},
		{ID: "s5", Name: "Server To Master Copy", Status: model.ServiceStatusActive, PriceCents: 30000},
		{ID: "s6", Name: "Smart Card PDF", Status: model.ServiceStatusActive, PriceCents: 15000},
		{ID: "s7", Name: "Biometric", Status: model.ServiceStatusActive, PriceCents: 50000},
		{ID: "s12", Name: "Server Copy (Old)", Status: model.ServiceStatusInactive, PriceCents: 4000},
		{ID: "s13", Name: "ID Card", Status: model.ServiceStatusActive, PriceCents: 10000},
	}
}

// seedUsers возвращает начальный список пользователей: один администратор
// и два обычных пользователя.
func seedUsers() []model.User {
	return []model.User{
		{
			ID:           "u1",
			Name:         "Mozammel.ks",
			Email:        "admin@example.com",
			Phone:        "01705144099",
			Password:     "admin",
			Role:         model.RoleAdmin,
			BalanceCents: 136300,
			CreatedAt:    seedCreatedAt,
		},
		{
			ID:           "u2",
			Name:         "user2",
			Email:        "user@example.com",
			Password:     "user",
			Role:         model.RoleUser,
			BalanceCents: 30000,
			CreatedAt:    seedCreatedAt,
		},
		{
			ID:           "u3",
			Name:         "user3",
			Email:        "user3@example.com",
			Password:     "user3",
			Role:         model.RoleUser,
			BalanceCents: 75050,
			CreatedAt:    seedCreatedAt,
		},
	}
}

// seedOrders возвращает начальную историю заказов.
func seedOrders() []model.Order {
	return []model.Order{
		{
			ID:         "1",
			Service:    "Server Copy",
			Type:       "Voter No",
			Identifier: "611324784241",
			Note:       "urgent",
			Status:     model.OrderStatusSuccess,
			Date:       time.Date(2023, 3, 27, 21, 49, 0, 0, time.UTC),
			UserID:     "u1",
			UserName:   "Mozammel.ks",
			PriceCents: 4500,
			FileData:   seedReceiptPDF,
		},
		{
			ID:         "2",
			Service:    "Server Copy",
			Type:       "NID No",
			Identifier: "6592296801",
			Status:     model.OrderStatusSuccess,
			Date:       time.Date(2023, 3, 26, 17, 12, 0, 0, time.UTC),
			UserID:     "u1",
			UserName:   "Mozammel.ks",
			PriceCents: 4500,
			FileData:   seedReceiptPDF,
		},
		{
			ID:         "3",
			Service:    "ID Card",
			Type:       "NID No",
			Identifier: "8934759834",
			Status:     model.OrderStatusPending,
			Date:       time.Date(2023, 3, 28, 11, 0, 0, 0, time.UTC),
			UserID:     "u2",
			UserName:   "user2",
			PriceCents: 10000,
		},
		{
			ID:         "4",
			Service:    "Smart Card PDF",
			Type:       "Voter No",
			Identifier: "1234567890",
			Note:       "deliver fast",
			Status:     model.OrderStatusFailed,
			Date:       time.Date(2023, 3, 28, 14, 30, 0, 0, time.UTC),
			UserID:     "u3",
			UserName:   "user3",
			PriceCents: 15000,
		},
	}
}

// seedTransactions возвращает пустой журнал пополнений.
func seedTransactions() []model.Transaction {
	return []model.Transaction{}
}

// seedSettings возвращает настройки сайта по умолчанию.
func seedSettings() model.Settings {
	return model.Settings{
		SiteName: "Service Point",
	}
}
