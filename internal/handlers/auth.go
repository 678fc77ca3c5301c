// auth.go
//
// A multi-tenant university library service.
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of unilib.
// unilib is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// unilib is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with unilib.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/unilib/internal/models"
	"github.com/localnerve/unilib/internal/services"
	"github.com/localnerve/unilib/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles credential and session routes
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Env       string
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// setAuthCookie issues the session cookie for a signed-in user
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, user *models.User) error {
	token, err := services.GenerateAuthToken(h.JWTSecret, user)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(services.AuthTokenTTL / time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.Env == "production",
	})
	return nil
}

// clearAuthCookie expires the session cookie
func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.Env == "production",
	})
}

// Register handles POST /api/auth/register
// @Summary Register a student account
// @Description Create a student account; the university is resolved from the email domain
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "Email and password"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "register")
	}

	user, err := services.Register(requestDB(h.DB, c), req.Email, req.Password)
	if err != nil {
		return serviceErrorResponse(c, err, "register")
	}

	if err := h.setAuthCookie(c, user); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "register")
	}

	return utils.SuccessResponse(c, fiber.Map{
		"message": "Registered",
		"user":    user,
	}, fiber.StatusCreated)
}

// Login handles POST /api/auth/login
// @Summary Sign in
// @Description Verify credentials and set the auth_token cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "Email and password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "login")
	}

	user, err := services.Login(requestDB(h.DB, c), req.Email, req.Password)
	if err != nil {
		return serviceErrorResponse(c, err, "login")
	}

	if err := h.setAuthCookie(c, user); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "login")
	}

	return utils.SuccessResponse(c, fiber.Map{
		"message": "Logged in",
		"user":    user,
	}, fiber.StatusOK)
}

// Logout handles POST /api/auth/logout
// @Summary Sign out
// @Description Clear the auth_token cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearAuthCookie(c)
	return utils.SuccessResponse(c, fiber.Map{"message": "Logged out"}, fiber.StatusOK)
}

// Status handles GET /api/auth/status
// @Summary Session status
// @Description Report the signed-in user, if any
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/status [get]
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	token := c.Cookies("auth_token")
	if token == "" {
		return utils.SuccessResponse(c, fiber.Map{"authenticated": false}, fiber.StatusOK)
	}

	scope, err := services.ParseAuthToken(h.JWTSecret, token)
	if err != nil {
		return utils.SuccessResponse(c, fiber.Map{"authenticated": false}, fiber.StatusOK)
	}

	return utils.SuccessResponse(c, fiber.Map{
		"authenticated": true,
		"userId":        scope.UserID,
		"email":         scope.Email,
		"role":          scope.Role,
		"universityId":  scope.UniversityID,
	}, fiber.StatusOK)
}
