package models

type UserRole string
type AvailabilityState string
type BookingStatus string
type NotificationType string
type NotificationCategory string

const (
	UserRoleProvider UserRole = "provider"
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"

	// Статусы доступности провайдера. Inactive всегда сопровождается
	// окном отсутствия [AwayFrom, AwayUntil).
	AvailabilityAvailable AvailabilityState = "available"
	AvailabilityBusy      AvailabilityState = "busy"
	AvailabilityInactive  AvailabilityState = "inactive"
	AvailabilityOffline   AvailabilityState = "offline"

	BookingStatusApproved    BookingStatus = "approved"
	BookingStatusDeclined    BookingStatus = "declined"
	BookingStatusRescheduled BookingStatus = "rescheduled"
	BookingStatusCancelled   BookingStatus = "cancelled"

	NotificationTypeMessage NotificationType = "message"
	NotificationTypeBooking NotificationType = "booking"

	CategoryTasks     NotificationCategory = "tasks"
	CategoryMessages  NotificationCategory = "messages"
	CategoryReviews   NotificationCategory = "reviews"
	CategoryMarketing NotificationCategory = "marketing"
)

// IsExplicitStatus сообщает, можно ли установить статус напрямую через
// SetStatus. Inactive устанавливается только через ScheduleAway.
func (s AvailabilityState) IsExplicitStatus() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityOffline:
		return true
	default:
		return false
	}
}
