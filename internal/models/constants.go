package models

const (
	RoleOwner  = "owner"
	RoleTenant = "tenant"
	RoleAdmin  = "admin"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	PropertyApartment = "apartment"
	PropertyHouse     = "house"
	PropertyStudio    = "studio"
	PropertyVilla     = "villa"
	PropertyCondo     = "condo"
)

const (
	// OutboxPending задача ожидает отправки
	OutboxPending = "pending"
	OutboxRetry   = "retry"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

const (
	// DefaultPageSize размер страницы списка объектов по умолчанию
	DefaultPageSize = 12

	// MaxPageSize верхняя граница limit в запросах списка
	MaxPageSize = 50

	// DefaultDurationMonths срок аренды по умолчанию
	DefaultDurationMonths = 12

	// MaxDurationMonths максимальный срок аренды в заявке
	MaxDurationMonths = 60

	// MinPasswordLength минимальная длина пароля при регистрации
	MinPasswordLength = 6

	// ListingCacheTTL время жизни кэша списка объектов
	ListingCacheTTL = 10 * 60 // 10 минут в секундах
)

// ValidRole reports whether s is a known user role.
func ValidRole(s string) bool {
	return s == RoleOwner || s == RoleTenant || s == RoleAdmin
}

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ValidPropertyType reports whether s is a known property type.
func ValidPropertyType(s string) bool {
	switch s {
	case PropertyApartment, PropertyHouse, PropertyStudio, PropertyVilla, PropertyCondo:
		return true
	}
	return false
}
