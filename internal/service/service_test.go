package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/servicepoint/internal/model"
	"github.com/mmeshcher/servicepoint/internal/repository"
)

var pdfSample = []byte("%PDF-1.4\nsample document body\n%%EOF\n")

type recordingNotifier struct {
	mu       sync.Mutex
	orders   []model.Order
	recharge []int64
}

func (n *recordingNotifier) OrderCreated(order model.Order, owner model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order)
}

func (n *recordingNotifier) Recharge(user model.User, amountCents int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recharge = append(n.recharge, amountCents)
}

func (n *recordingNotifier) orderCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.orders)
}

func (n *recordingNotifier) rechargeAmounts() []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int64(nil), n.recharge...)
}

func newTestService(t *testing.T, delay time.Duration) (*Service, *recordingNotifier) {
	t.Helper()

	repo, err := repository.NewFileRepository(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, delay)
	t.Cleanup(func() {
		_ = svc.Close()
	})
	return svc, notifier
}

func TestAuthenticateUser(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	u, err := svc.AuthenticateUser(ctx, "Admin@Example.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	_, err = svc.AuthenticateUser(ctx, "admin@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.AuthenticateUser(ctx, "nobody@example.com", "x")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "u2", "s13", "NID No", "   ", "")
	require.ErrorIs(t, err, ErrEmptyIdentifier)

	// s12 — деактивированная услуга из начального каталога.
	_, err = svc.CreateOrder(ctx, "u2", "s12", "NID No", "123", "")
	require.ErrorIs(t, err, ErrServiceInactive)

	_, err = svc.CreateOrder(ctx, "u2", "missing", "NID No", "123", "")
	require.ErrorIs(t, err, repository.ErrServiceNotFound)
}

func TestCreateOrderSnapshotsCatalogState(t *testing.T) {
	svc, notifier := newTestService(t, time.Second)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "u2", "s13", "NID No", "8934759834", "please hurry")
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "ID Card", order.Service)
	assert.Equal(t, int64(10000), order.PriceCents)
	assert.Equal(t, "user2", order.UserName)
	assert.Equal(t, "u2", order.UserID)

	// Правка каталога не должна менять уже созданный заказ.
	_, err = svc.SaveService(ctx, model.Service{
		ID:         "s13",
		Name:       "ID Card Premium",
		Status:     model.ServiceStatusActive,
		PriceCents: 99900,
	})
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, model.RoleUser, "u2")
	require.NoError(t, err)
	require.NotEmpty(t, orders)
	assert.Equal(t, "ID Card", orders[0].Service)
	assert.Equal(t, int64(10000), orders[0].PriceCents)

	require.Eventually(t, func() bool {
		return notifier.orderCount() == 1
	}, time.Second, 10*time.Millisecond, "order notification was not dispatched")
}

func TestSetOrderStatusRequiresFileForSuccess(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	// Заказ 3 из начальных данных: pending, без файла.
	_, err := svc.SetOrderStatus(ctx, "3", model.OrderStatusSuccess)
	require.ErrorIs(t, err, ErrFileRequired)

	orders, err := svc.ListOrders(ctx, model.RoleAdmin, "")
	require.NoError(t, err)
	for _, o := range orders {
		if o.ID == "3" {
			assert.Equal(t, model.OrderStatusPending, o.Status)
		}
	}
}

func TestOrderLifecycleInvariant(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	order, err := svc.AttachOrderFile(ctx, "3", pdfSample)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusSuccess, order.Status)
	assert.True(t, order.HasFile())

	// Уход из success очищает файл.
	order, err = svc.SetOrderStatus(ctx, "3", model.OrderStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusFailed, order.Status)
	assert.False(t, order.HasFile())

	// Снова к success можно прийти только через загрузку файла.
	_, err = svc.SetOrderStatus(ctx, "3", model.OrderStatusSuccess)
	require.ErrorIs(t, err, ErrFileRequired)

	order, err = svc.SetOrderStatus(ctx, "3", model.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.False(t, order.HasFile())

	// Инвариант на всех заказах: success влечёт наличие файла.
	orders, err := svc.ListOrders(ctx, model.RoleAdmin, "")
	require.NoError(t, err)
	for _, o := range orders {
		if o.Status == model.OrderStatusSuccess {
			assert.True(t, o.HasFile(), "order %s is success without a file", o.ID)
		}
	}

	_, err = svc.SetOrderStatus(ctx, "3", model.OrderStatus("bogus"))
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAttachOrderFileRejectsNonPDF(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	_, err := svc.AttachOrderFile(ctx, "3", []byte("plain text, not a document"))
	require.ErrorIs(t, err, ErrNotPDF)

	orders, err := svc.ListOrders(ctx, model.RoleAdmin, "")
	require.NoError(t, err)
	for _, o := range orders {
		if o.ID == "3" {
			assert.Equal(t, model.OrderStatusPending, o.Status)
			assert.False(t, o.HasFile())
		}
	}
}

func TestOrderFileDownload(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	_, err := svc.AttachOrderFile(ctx, "3", pdfSample)
	require.NoError(t, err)

	name, data, err := svc.OrderFile(ctx, model.RoleUser, "u2", "3")
	require.NoError(t, err)
	assert.Equal(t, "order-3.pdf", name)
	assert.Equal(t, pdfSample, data)

	// Чужой заказ недоступен пользователю.
	_, _, err = svc.OrderFile(ctx, model.RoleUser, "u3", "3")
	require.ErrorIs(t, err, repository.ErrOrderNotFound)

	// Файл незавершённого заказа недоступен.
	_, _, err = svc.OrderFile(ctx, model.RoleAdmin, "", "4")
	require.ErrorIs(t, err, ErrFileNotAvailable)
}

func TestStartRechargeAppliesAfterDelay(t *testing.T) {
	svc, notifier := newTestService(t, 20*time.Millisecond)
	ctx := context.Background()

	before, err := svc.GetUser(ctx, "u2")
	require.NoError(t, err)

	_, err = svc.StartRecharge(ctx, "u2", 50000, model.MethodBkash)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		u, err := svc.GetUser(ctx, "u2")
		return err == nil && u.BalanceCents == before.BalanceCents+50000
	}, time.Second, 10*time.Millisecond)

	transactions, err := svc.ListTransactions(ctx, model.RoleUser, "u2")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, int64(50000), transactions[0].AmountCents)
	assert.Equal(t, model.MethodBkash, transactions[0].Method)

	require.Eventually(t, func() bool {
		amounts := notifier.rechargeAmounts()
		return len(amounts) == 1 && amounts[0] == 50000
	}, time.Second, 10*time.Millisecond, "recharge notification was not dispatched")
}

func TestCancelRechargePreventsLedgerMutation(t *testing.T) {
	svc, notifier := newTestService(t, 50*time.Millisecond)
	ctx := context.Background()

	before, err := svc.GetUser(ctx, "u2")
	require.NoError(t, err)

	paymentID, err := svc.StartRecharge(ctx, "u2", 50000, model.MethodBkash)
	require.NoError(t, err)

	require.NoError(t, svc.CancelRecharge(model.RoleUser, "u2", paymentID))

	time.Sleep(150 * time.Millisecond)

	after, err := svc.GetUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, before.BalanceCents, after.BalanceCents)

	transactions, err := svc.ListTransactions(ctx, model.RoleUser, "u2")
	require.NoError(t, err)
	assert.Empty(t, transactions)
	assert.Empty(t, notifier.rechargeAmounts())

	// Повторная отмена уже снятого платежа.
	require.ErrorIs(t, svc.CancelRecharge(model.RoleUser, "u2", paymentID), ErrPaymentNotFound)
}

func TestCancelRechargeOwnershipCheck(t *testing.T) {
	svc, _ := newTestService(t, 50*time.Millisecond)
	ctx := context.Background()

	before, err := svc.GetUser(ctx, "u2")
	require.NoError(t, err)

	paymentID, err := svc.StartRecharge(ctx, "u2", 50000, model.MethodBkash)
	require.NoError(t, err)

	// Чужой пользователь не может отменить платёж, даже зная его идентификатор.
	require.ErrorIs(t, svc.CancelRecharge(model.RoleUser, "u3", paymentID), ErrPaymentNotFound)

	// Платёж остаётся в силе и применяется после задержки.
	require.Eventually(t, func() bool {
		u, err := svc.GetUser(ctx, "u2")
		return err == nil && u.BalanceCents == before.BalanceCents+50000
	}, time.Second, 10*time.Millisecond)
}

func TestCancelRechargeAdminOverride(t *testing.T) {
	svc, notifier := newTestService(t, 50*time.Millisecond)
	ctx := context.Background()

	before, err := svc.GetUser(ctx, "u2")
	require.NoError(t, err)

	paymentID, err := svc.StartRecharge(ctx, "u2", 50000, model.MethodBkash)
	require.NoError(t, err)

	// Администратор может отменить любой ожидающий платёж.
	require.NoError(t, svc.CancelRecharge(model.RoleAdmin, "u1", paymentID))

	time.Sleep(150 * time.Millisecond)

	after, err := svc.GetUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, before.BalanceCents, after.BalanceCents)
	assert.Empty(t, notifier.rechargeAmounts())
}

func TestStartRechargeValidation(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	_, err := svc.StartRecharge(ctx, "u2", 0, model.MethodBkash)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.StartRecharge(ctx, "u2", -100, model.MethodBkash)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.StartRecharge(ctx, "nobody", 100, model.MethodBkash)
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestCreditBalanceGoesThroughLedger(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	before, err := svc.GetUser(ctx, "u3")
	require.NoError(t, err)

	user, err := svc.CreditBalance(ctx, "u3", 30000)
	require.NoError(t, err)
	assert.Equal(t, before.BalanceCents+30000, user.BalanceCents)

	transactions, err := svc.ListTransactions(ctx, model.RoleAdmin, "")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, model.MethodAdmin, transactions[0].Method)
	assert.Equal(t, int64(30000), transactions[0].AmountCents)

	_, err = svc.CreditBalance(ctx, "u3", -1)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestListServicesByRole(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	all, err := svc.ListServices(ctx, model.RoleAdmin)
	require.NoError(t, err)

	visible, err := svc.ListServices(ctx, model.RoleUser)
	require.NoError(t, err)

	assert.Greater(t, len(all), len(visible))
	for _, s := range visible {
		assert.Equal(t, model.ServiceStatusActive, s.Status)
	}
}

func TestGetBrandingStripsSecrets(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	require.NoError(t, svc.SaveSettings(ctx, model.Settings{
		SiteName:         "Service Point",
		Logo:             "logo-bytes",
		APIKey:           "secret-key",
		TelegramBotToken: "secret-token",
		TelegramChatID:   "42",
	}))

	branding, err := svc.GetBranding(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Service Point", branding.SiteName)
	assert.Equal(t, "logo-bytes", branding.Logo)
}

func TestGetSummary(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)

	// Начальные данные: 2 успешных заказа по 45.00, 1 pending, 3 пользователя.
	assert.Equal(t, int64(9000), summary.TotalRevenueCents)
	assert.Equal(t, 4, summary.TotalOrders)
	assert.Equal(t, 1, summary.PendingOrders)
	assert.Equal(t, 3, summary.TotalUsers)
}

func TestPaymentIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := newPaymentID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate payment id %s", id)
		seen[id] = struct{}{}
	}
}
