package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/fenilmodi00/neet-cutoff-backend/services"
	"github.com/fenilmodi00/neet-cutoff-backend/shared"
	"github.com/gofiber/fiber/v2"
)

type PredictHandler struct {
	Service services.Predictor
}

func NewPredictHandler(service services.Predictor) *PredictHandler {
	return &PredictHandler{Service: service}
}

// predictBody keeps rank as a json.Number so fractional ranks are rejected
// instead of truncated
type predictBody struct {
	Rank          json.Number `json:"rank"`
	Category      string      `json:"category"`
	Quota         string      `json:"quota"`
	DomicileState *string     `json:"domicile_state"`
}

func (h *PredictHandler) Predict(c *fiber.Ctx) error {
	var body predictBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"predictions": []models.PredictionResult{},
			"error":       "Invalid request",
		})
	}

	var rank int64
	if body.Rank != "" {
		parsed, err := strconv.ParseInt(body.Rank.String(), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"predictions": []models.PredictionResult{},
				"error":       "invalid prediction request",
				"fields":      map[string]string{"rank": "rank must be a positive integer"},
			})
		}
		rank = parsed
	}

	req := models.PredictionRequest{
		Rank:          rank,
		Category:      body.Category,
		Quota:         body.Quota,
		DomicileState: body.DomicileState,
	}

	predictions, err := h.Service.Predict(c.UserContext(), req)
	if err != nil {
		if serviceErr, ok := shared.AsServiceError(err); ok && serviceErr.Category == shared.ErrorCategoryValidation {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"predictions": predictions,
				"error":       serviceErr.Message,
				"fields":      serviceErr.Details,
			})
		}
		return storageFailure(c, "predictions", predictions, "failed to compute predictions")
	}

	return c.JSON(fiber.Map{"predictions": predictions})
}
