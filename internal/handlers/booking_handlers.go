package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/missamma/missamma-golang/internal/models"
)

//
// --- Booking Handlers ---
//

// ListServices is the handler for GET /v1/booking/services
func (h *Handlers) ListServices(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, name, description, duration_minutes, price FROM services ORDER BY name")
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.Price); err != nil {
			respondError(c, err)
			return
		}
		services = append(services, s)
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

// ListMyAppointments is the handler for GET /v1/booking/appointments
func (h *Handlers) ListMyAppointments(c *gin.Context) {
	customerID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, customer_id, service_id, staff_id, date, start_time, status, created_at
		FROM appointments
		WHERE customer_id = ?
		ORDER BY date DESC, start_time DESC`,
		customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.ServiceID, &a.StaffID,
			&a.Date, &a.StartTime, &a.Status, &a.CreatedAt); err != nil {
			respondError(c, err)
			return
		}
		appointments = append(appointments, a)
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// CreateAppointmentInput defines the JSON for booking an appointment.
type CreateAppointmentInput struct {
	ServiceID int64  `json:"service_id" binding:"required"`
	StaffID   *int64 `json:"staff_id"`
	Date      string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime string `json:"start_time" binding:"required"` // HH:MM
}

// CreateAppointment is the handler for POST /v1/booking/appointments
func (h *Handlers) CreateAppointment(c *gin.Context) {
	customerID := currentUserID(c)

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
		return
	}

	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "date must be YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("15:04", input.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "start_time must be HH:MM"})
		return
	}

	// The service must exist; the staff member is optional.
	var serviceID int64
	err := h.DB.QueryRow("SELECT id FROM services WHERE id = ?", input.ServiceID).Scan(&serviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Service does not exist"})
			return
		}
		respondError(c, err)
		return
	}

	if input.StaffID != nil {
		var staffID int64
		err := h.DB.QueryRow("SELECT id FROM staff WHERE id = ?", *input.StaffID).Scan(&staffID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Staff member does not exist"})
				return
			}
			respondError(c, err)
			return
		}
	}

	result, err := h.DB.Exec(`
		INSERT INTO appointments (customer_id, service_id, staff_id, date, start_time, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		customerID, input.ServiceID, input.StaffID, input.Date, input.StartTime,
		models.AppointmentPending, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	appointmentID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Appointment requested",
		"appointmentId": appointmentID,
		"status":        models.AppointmentPending,
	})
}
