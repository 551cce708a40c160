package models

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"

	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// BookingDateLayout is the wire format of Booking.Date.
const BookingDateLayout = "2006-01-02"

// Booking records a reservation at a club for one day.
type Booking struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ClubID        string    `json:"club_id"`
	UserID        string    `json:"user_id"`
	Date          string    `json:"date"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Amount        float64   `json:"amount"`
}

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}
