package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"

	"github.com/missamma/missamma-golang/internal/auth"
	"github.com/missamma/missamma-golang/internal/models"
)

//
// --- Account Handlers ---
//

// RegisterUserInput holds the registration payload; kept separate from
// models.User so clients cannot set id, staff flag or balance.
type RegisterUserInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

// Register is the handler for POST /v1/register
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to hash password"})
		return
	}

	var phone *string
	if input.Phone != "" {
		phone = &input.Phone
	}

	result, err := h.DB.Exec(`
		INSERT INTO users (email, password_hash, full_name, phone, is_staff, wallet_balance, created_at)
		VALUES (?, ?, ?, ?, 0, 0.00, ?)`,
		input.Email, password.Hash, input.FullName, phone, time.Now())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "An account with this email already exists"})
			return
		}
		respondError(c, err)
		return
	}
	userID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"userId":  userID,
	})
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, email, password_hash, full_name, phone, is_staff, wallet_balance, created_at
		FROM users WHERE email = ?`,
		input.Email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&user.Phone, &user.IsStaff, &user.WalletBalance, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if !match {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me is the handler for GET /v1/me
func (h *Handlers) Me(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, email, full_name, phone, is_staff, wallet_balance, created_at
		FROM users WHERE id = ?`,
		userID,
	).Scan(&user.ID, &user.Email, &user.FullName, &user.Phone,
		&user.IsStaff, &user.WalletBalance, &user.CreatedAt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
