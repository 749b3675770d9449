package handlers

import (
	"fmt"

	"chatterbox_service/internal/user/app"
	"chatterbox_service/pkg/logger"
	"chatterbox_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler handle user directory HTTP requests
type UserHandler struct {
	Usecase app.UserUseCase
}

// NewUserHandler create a new UserHandler
func NewUserHandler(usecase app.UserUseCase) *UserHandler {
	return &UserHandler{
		Usecase: usecase,
	}
}

// Register create a new account
// @Summary Register a new user
// @Description Handle the registration request
// @Tags Users
// @Accept json
// @Produce json
// @Success 201 {object} string "register success"
// @Failure 400 {object} string "invalid request"
// @Failure 409 {object} string "duplicate email or username"
// @Router /auth/register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	type request struct {
		FullName string `json:"fullName"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Register request", zap.String("username", req.Username), zap.String("email", req.Email))

	user, err := h.Usecase.Register(c.Context(), req.FullName, req.Username, req.Email, req.Password)
	if err != nil {
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Account created successfully! Welcome to Chatterbox, %s!", user.FullName),
		"user":    user,
	})
}

// Login sign in with email and password
// @Summary User login
// @Description Verify credentials and open a session
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} string "login success"
// @Failure 400 {object} string "invalid request"
// @Failure 401 {object} string "login failed"
// @Router /auth/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Login", zap.String("email", req.Email))

	token, user, err := h.Usecase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome back, %s!", user.FullName),
		"token":   token,
		"user":    user,
	})
}

// Logout close the caller's session
// @Summary User logout
// @Description Delete the session and mark the user offline
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} string "logout success"
// @Failure 401 {object} string "missing or invalid token"
// @Failure 500 {object} string "server error"
// @Router /auth/logout [post]
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	tokenStr := tokenFromRequest(c)
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	if err := h.Usecase.Logout(c.Context(), tokenStr); err != nil {
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "logout success"})
}

// Search find users by username or email substring
// @Summary Search users
// @Description Case-insensitive substring match on username or email, the caller excluded
// @Tags Users
// @Produce json
// @Param q query string true "search text"
// @Param page query int false "1-based page"
// @Param limit query int false "page size"
// @Success 200 {object} string "users and pagination"
// @Failure 400 {object} string "missing query"
// @Router /users/search [get]
func (h *UserHandler) Search(c *fiber.Ctx) error {
	userID, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenUserID)})
	}

	query := c.Query("q")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	users, pagination, err := h.Usecase.Search(c.Context(), query, userID, page, limit)
	if err != nil {
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}

// tokenFromRequest pull the raw JWT the same way the middleware does
func tokenFromRequest(c *fiber.Ctx) string {
	tokenStr := c.Get(fiber.HeaderAuthorization)
	if len(tokenStr) > 7 && tokenStr[:7] == "Bearer " {
		tokenStr = tokenStr[7:]
	}
	if tokenStr == "" {
		tokenStr = c.Query(middlewares.QueryToken)
	}
	if tokenStr == "" {
		tokenStr = c.Cookies(middlewares.CookieToken)
	}
	return tokenStr
}
