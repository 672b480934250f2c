package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/plotvista/plotvista/internal/services"
	"github.com/plotvista/plotvista/internal/utils"
)

// AuthHandler handles admin session routes
type AuthHandler struct {
	Sessions *services.SessionService
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/admin/login
// @Summary Admin login
// @Description Exchange the admin password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Admin credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "login")
	}

	token, err := h.Sessions.Login(req.Password)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid password", fiber.StatusUnauthorized, "login")
	}

	return c.Status(fiber.StatusOK).JSON(loginResponse{Token: token})
}

// Logout handles POST /api/admin/logout
// @Summary Admin logout
// @Description Invalidate the current bearer token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	h.Sessions.Logout(token)
	return utils.MutationSuccessResponse(c, nil)
}
