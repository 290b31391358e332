package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mindharbor/internal/models"
	"github.com/terraincognita07/mindharbor/internal/services"
	"go.uber.org/zap"
)

type stepInput struct {
	Value string `json:"value" form:"value"`
}

func (handler *Handler) ShowOnboarding(c *fiber.Ctx) error {
	deviceID := currentDeviceID(c)

	draft, err := handler.questionnaire.Draft(deviceID)
	if err != nil {
		handler.logger.Warn("load questionnaire draft", zap.String("device_id", deviceID), zap.Error(err))
		draft = services.QuestionnaireDraft{}
	}
	completed, err := handler.onboarding.OnboardingCompleted(deviceID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load onboarding")
	}

	return c.JSON(fiber.Map{
		"steps":     services.QuestionnaireSteps(),
		"draft":     draft,
		"completed": completed,
	})
}

func (handler *Handler) SaveOnboardingStep(c *fiber.Ctx) error {
	input := stepInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	draft, err := handler.questionnaire.SaveStep(c.UserContext(), currentDeviceID(c), c.Params("step"), input.Value)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"draft": draft})
	case errors.Is(err, services.ErrUnknownStep):
		return apiError(c, fiber.StatusNotFound, "unknown step")
	case errors.Is(err, services.ErrStepValueRequired):
		return apiError(c, fiber.StatusBadRequest, "select an answer to continue")
	case errors.Is(err, services.ErrStepValueInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid answer")
	case errors.Is(err, services.ErrStepLocked):
		return apiError(c, fiber.StatusConflict, "answer the earlier steps first")
	default:
		handler.logger.Error("save questionnaire step", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to save answer")
	}
}

// SubmitOnboarding takes the answers from the body, or from the device's
// draft when the body is empty.
func (handler *Handler) SubmitOnboarding(c *fiber.Ctx) error {
	deviceID := currentDeviceID(c)

	answers := models.QuestionnaireAnswers{}
	if len(c.Body()) == 0 {
		draft, err := handler.questionnaire.Draft(deviceID)
		if err == nil {
			answers = draft.Answers
		}
	} else if err := c.BodyParser(&answers); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	bearing, err := handler.onboarding.SubmitOnboarding(c.UserContext(), deviceID, answers)
	if errors.Is(err, services.ErrOnboardingUnauthenticated) {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		handler.logger.Error("submit onboarding", zap.String("device_id", deviceID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to save your answers")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"bearing": bearing})
}

func (handler *Handler) GetBearing(c *fiber.Ctx) error {
	bearing, err := handler.onboarding.Bearing(c.UserContext(), currentDeviceID(c))
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"bearing": bearing})
	case errors.Is(err, services.ErrOnboardingUnauthenticated):
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, services.ErrBearingNotFound):
		return apiError(c, fiber.StatusNotFound, "bearing not found")
	default:
		handler.logger.Error("load bearing", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to load bearing")
	}
}
