package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Appointment statuses.
const (
	AppointmentPending   = "PENDING"
	AppointmentConfirmed = "CONFIRMED"
	AppointmentCancelled = "CANCELLED"
	AppointmentCompleted = "COMPLETED"
)

// Service is the model for the 'services' table
type Service struct {
	ID              int64           `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description" db:"description"`
	DurationMinutes int             `json:"durationMinutes" db:"duration_minutes"`
	Price           decimal.Decimal `json:"price" db:"price"`
}

// Staff is the model for the 'staff' table
type Staff struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"userId" db:"user_id"`
	DisplayName string `json:"displayName" db:"display_name"`
	Speciality  string `json:"speciality" db:"speciality"`
}

// Appointment is the model for the 'appointments' table
type Appointment struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customerId" db:"customer_id"`
	ServiceID  int64     `json:"serviceId" db:"service_id"`
	StaffID    *int64    `json:"staffId,omitempty" db:"staff_id"`
	Date       string    `json:"date" db:"date"`           // YYYY-MM-DD
	StartTime  string    `json:"startTime" db:"start_time"` // HH:MM
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
