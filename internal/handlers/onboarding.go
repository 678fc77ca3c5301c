package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/unilib/internal/middleware"
	"github.com/localnerve/unilib/internal/services"
	"github.com/localnerve/unilib/internal/utils"
	"gorm.io/gorm"
)

// OnboardingHandler handles tenant creation and the public directory
type OnboardingHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Env       string
}

// RegisterUniversity handles POST /api/onboarding/university
// @Summary Onboard a university
// @Description Create a university tenant with its admin account and sign the admin in
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param body body services.OnboardingInput true "University and admin details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /onboarding/university [post]
func (h *OnboardingHandler) RegisterUniversity(c *fiber.Ctx) error {
	var input services.OnboardingInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "onboarding")
	}

	university, admin, err := services.RegisterUniversity(requestDB(h.DB, c), input)
	if err != nil {
		return serviceErrorResponse(c, err, "onboarding")
	}

	auth := AuthHandler{DB: h.DB, JWTSecret: h.JWTSecret, Env: h.Env}
	if err := auth.setAuthCookie(c, admin); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "onboarding")
	}

	return utils.SuccessResponse(c, fiber.Map{
		"message":    "University registered",
		"university": university,
		"admin":      admin,
	}, fiber.StatusCreated)
}

// ListUniversities handles GET /api/universities
// @Summary List universities
// @Description Public directory of onboarded universities
// @Tags Onboarding
// @Produce json
// @Success 200 {array} models.University
// @Router /universities [get]
func (h *OnboardingHandler) ListUniversities(c *fiber.Ctx) error {
	universities, err := services.ListUniversities(requestDB(h.DB, c))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "universities")
	}
	return utils.SuccessResponse(c, universities, fiber.StatusOK)
}

// GetSettings handles GET /api/university/settings
// @Summary Get tenant settings
// @Description Loan policy settings of the caller's university
// @Tags University
// @Produce json
// @Success 200 {object} models.University
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /university/settings [get]
func (h *OnboardingHandler) GetSettings(c *fiber.Ctx) error {
	scope := middleware.ScopeFrom(c)

	university, err := services.GetSettings(requestDB(h.DB, c), scope)
	if err != nil {
		return serviceErrorResponse(c, err, "settings")
	}
	return utils.SuccessResponse(c, university, fiber.StatusOK)
}
