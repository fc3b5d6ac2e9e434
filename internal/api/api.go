package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hrkit/employee-api/internal/auth"
	"github.com/hrkit/employee-api/internal/employee"
	"github.com/hrkit/employee-api/internal/models"
	"github.com/hrkit/employee-api/internal/user"
)

type Handler struct {
	users     *user.Service
	employees *employee.Service
	tokens    *auth.TokenService
	logger    *zap.SugaredLogger

	// RequireAuth gates the employee routes behind bearer tokens.
	RequireAuth bool
	// RateLimitRPS > 0 enables per-client rate limiting on the user routes.
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewHandler(users *user.Service, employees *employee.Service, tokens *auth.TokenService, logger *zap.SugaredLogger) *Handler {
	return &Handler{users: users, employees: employees, tokens: tokens, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api/v1")

	userGroup := apiGroup.Group("/user")
	if h.RateLimitRPS > 0 {
		userGroup.Use(RateLimit(h.RateLimitRPS, h.RateLimitBurst))
	}
	userGroup.POST("/signup", h.handleSignUp)
	userGroup.POST("/login", h.handleLogin)

	empGroup := apiGroup.Group("/emp")
	if h.RequireAuth {
		empGroup.Use(auth.RequireAuth(h.tokens))
	}
	empGroup.GET("/employees", h.handleListEmployees)
	empGroup.POST("/employees", h.handleCreateEmployee)
	empGroup.GET("/employees/search", h.handleSearchEmployees)
	empGroup.GET("/employees/:id", h.handleGetEmployee)
	empGroup.PUT("/employees/:id", h.handleUpdateEmployee)
	empGroup.DELETE("/employees", h.handleDeleteEmployee)
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest mirrors the documented body: the email field may carry a
// username.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	id, err := h.users.SignUp(c.Request.Context(), user.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserExists):
			writeError(c, http.StatusBadRequest, "User already exists with this username or email")
		case errors.Is(err, user.ErrUsernameRequired),
			errors.Is(err, user.ErrEmailRequired),
			errors.Is(err, user.ErrEmailInvalid),
			errors.Is(err, user.ErrPasswordTooShort):
			writeError(c, http.StatusBadRequest, err.Error())
		default:
			h.logger.Errorw("signup failed", "error", err)
			writeError(c, http.StatusInternalServerError, "Error during user signup")
		}
		return
	}

	resp := gin.H{
		"message": "User registered successfully",
		"user_id": id,
	}
	// Signup issues a token too so the freshly registered client does not
	// need a second round trip to log in.
	if h.tokens != nil {
		token, expiresAt, err := h.tokens.Generate(id)
		if err != nil {
			h.logger.Errorw("token generation failed", "error", err)
			writeError(c, http.StatusInternalServerError, "Error during user signup")
			return
		}
		resp["token"] = token
		resp["expires_at"] = expiresAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	loggedIn, err := h.users.Login(c.Request.Context(), user.LoginInput{
		Identifier: req.Email,
		Password:   req.Password,
	})
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			writeError(c, http.StatusBadRequest, "Invalid email/username or password")
			return
		}
		h.logger.Errorw("login failed", "error", err)
		writeError(c, http.StatusInternalServerError, "Error during user login")
		return
	}

	resp := gin.H{"message": "Login successful"}
	if h.tokens != nil {
		token, expiresAt, err := h.tokens.Generate(loggedIn.ID.Hex())
		if err != nil {
			h.logger.Errorw("token generation failed", "error", err)
			writeError(c, http.StatusInternalServerError, "Error during user login")
			return
		}
		resp["token"] = token
		resp["expires_at"] = expiresAt.Format(time.RFC3339)
		resp["user"] = loggedIn.Public()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleListEmployees(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("list employees failed", "error", err)
		writeError(c, http.StatusInternalServerError, "Error fetching employees")
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (h *Handler) handleCreateEmployee(c *gin.Context) {
	var input models.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	id, err := h.employees.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrEmailExists):
			writeError(c, http.StatusBadRequest, "Employee already exists with this email")
		case models.IsValidation(err):
			writeError(c, http.StatusBadRequest, err.Error())
		default:
			h.logger.Errorw("create employee failed", "error", err)
			writeError(c, http.StatusInternalServerError, "Error creating employee")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Employee created successfully",
		"employee_id": id,
	})
}

func (h *Handler) handleGetEmployee(c *gin.Context) {
	emp, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			writeError(c, http.StatusNotFound, "Employee not found")
			return
		}
		h.logger.Errorw("fetch employee failed", "error", err)
		writeError(c, http.StatusInternalServerError, "Error fetching employee")
		return
	}

	c.JSON(http.StatusOK, emp)
}

func (h *Handler) handleUpdateEmployee(c *gin.Context) {
	var input models.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	id, err := h.employees.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrNotFound):
			writeError(c, http.StatusNotFound, "Employee not found")
		case errors.Is(err, employee.ErrEmailExists):
			writeError(c, http.StatusBadRequest, "Employee already exists with this email")
		case models.IsValidation(err):
			writeError(c, http.StatusBadRequest, err.Error())
		default:
			h.logger.Errorw("update employee failed", "error", err)
			writeError(c, http.StatusInternalServerError, "Error updating employee")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Employee updated successfully",
		"employee_id": id,
	})
}

func (h *Handler) handleDeleteEmployee(c *gin.Context) {
	id := c.Query("id")

	err := h.employees.Delete(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrIDRequired):
			writeError(c, http.StatusBadRequest, "Employee ID is required")
		case errors.Is(err, employee.ErrNotFound):
			writeError(c, http.StatusNotFound, "Employee not found")
		default:
			h.logger.Errorw("delete employee failed", "error", err)
			writeError(c, http.StatusInternalServerError, "Error deleting employee")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleSearchEmployees(c *gin.Context) {
	employees, err := h.employees.Search(c.Request.Context(), c.Query("department"), c.Query("position"))
	if err != nil {
		h.logger.Errorw("search employees failed", "error", err)
		writeError(c, http.StatusInternalServerError, "Error searching employees")
		return
	}

	c.JSON(http.StatusOK, employees)
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  "false",
		"message": message,
	})
}
