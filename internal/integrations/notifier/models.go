package notifier

// Template виды шаблонов уведомлений
// Содержимое и доставка (email/SMS) - зона ответственности сервиса уведомлений
const (
	TemplateBookingApproved  = "booking_approved"
	TemplateDepositRequested = "deposit_requested"
	TemplateDepositPaid      = "deposit_paid"
	TemplateInfoRequested    = "info_requested"
	TemplateBookingDeclined  = "booking_declined"
)

// Notification запрос на отправку уведомления
type Notification struct {
	RecipientID int64             `json:"recipientId"`
	Template    string            `json:"template"`
	Params      map[string]string `json:"params,omitempty"`
}

// CancelPendingRequest запрос на отмену неотправленных уведомлений заявки
// (напоминания, follow-up после сеанса)
type CancelPendingRequest struct {
	BookingID int64 `json:"bookingId"`
}
