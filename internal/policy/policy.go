// Package policy определяет права ролей над ресурсами сервиса.
//
// Политика выражена чистой функцией от (роль, ресурс, действие) и
// вспомогательными фильтрами видимости. Побочных эффектов нет: одни и те же
// аргументы всегда дают один и тот же ответ.
package policy

import "github.com/mmeshcher/servicepoint/internal/model"

// Resource перечисляет защищаемые ресурсы.
type Resource string

const (
	ResourceOrders   Resource = "orders"
	ResourceServices Resource = "services"
	ResourceUsers    Resource = "users"
	ResourceSettings Resource = "settings"
	ResourceWallet   Resource = "wallet"
)

// Action перечисляет операции над ресурсами.
type Action string

const (
	ActionCreate     Action = "create"
	ActionViewAll    Action = "view_all"
	ActionViewOwn    Action = "view_own"
	ActionSetStatus  Action = "set_status"
	ActionAttachFile Action = "attach_file"
	ActionDownload   Action = "download"
	ActionEdit       Action = "edit"
	ActionCredit     Action = "credit"
	ActionRecharge   Action = "recharge"
	ActionCancelAny  Action = "cancel_any"
	ActionRead       Action = "read"
	ActionWrite      Action = "write"
	ActionReadPublic Action = "read_public"
)

type rule struct {
	resource Resource
	action   Action
}

var grants = map[model.Role]map[rule]struct{}{
	model.RoleAdmin: toSet([]rule{
		{ResourceOrders, ActionCreate},
		{ResourceOrders, ActionViewAll},
		{ResourceOrders, ActionViewOwn},
		{ResourceOrders, ActionSetStatus},
		{ResourceOrders, ActionAttachFile},
		{ResourceOrders, ActionDownload},
		{ResourceServices, ActionViewAll},
		{ResourceServices, ActionCreate},
		{ResourceServices, ActionEdit},
		{ResourceUsers, ActionViewAll},
		{ResourceUsers, ActionCredit},
		{ResourceSettings, ActionRead},
		{ResourceSettings, ActionWrite},
		{ResourceSettings, ActionReadPublic},
		{ResourceWallet, ActionRecharge},
		{ResourceWallet, ActionCancelAny},
	}),
	model.RoleUser: toSet([]rule{
		{ResourceOrders, ActionCreate},
		{ResourceOrders, ActionViewOwn},
		{ResourceOrders, ActionDownload},
		{ResourceServices, ActionViewOwn},
		{ResourceSettings, ActionReadPublic},
		{ResourceWallet, ActionRecharge},
	}),
}

func toSet(rules []rule) map[rule]struct{} {
	set := make(map[rule]struct{}, len(rules))
	for _, r := range rules {
		set[r] = struct{}{}
	}
	return set
}

// Allowed сообщает, разрешено ли роли выполнять действие над ресурсом.
func Allowed(role model.Role, resource Resource, action Action) bool {
	rules, ok := grants[role]
	if !ok {
		return false
	}
	_, ok = rules[rule{resource, action}]
	return ok
}

// VisibleServices возвращает услуги, доступные роли: администратор видит
// весь каталог, пользователь — только активные услуги.
func VisibleServices(role model.Role, services []model.Service) []model.Service {
	if Allowed(role, ResourceServices, ActionViewAll) {
		return services
	}
	res := make([]model.Service, 0, len(services))
	for _, s := range services {
		if s.Status == model.ServiceStatusActive {
			res = append(res, s)
		}
	}
	return res
}

// CanAccessOrder сообщает, видит ли пользователь конкретный заказ:
// администратор — любой, пользователь — только собственный.
func CanAccessOrder(role model.Role, userID string, order *model.Order) bool {
	if Allowed(role, ResourceOrders, ActionViewAll) {
		return true
	}
	return order.UserID == userID
}
