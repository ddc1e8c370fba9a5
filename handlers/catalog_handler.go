package handlers

import (
	"fmt"
	"strconv"

	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/fenilmodi00/neet-cutoff-backend/services"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the reference data and cutoff endpoints. Responses
// always carry the documented key; failures add an "error" key next to an
// empty value.
type CatalogHandler struct {
	Service services.CatalogReader
}

func NewCatalogHandler(service services.CatalogReader) *CatalogHandler {
	return &CatalogHandler{Service: service}
}

func (h *CatalogHandler) GetStates(c *fiber.Ctx) error {
	states, err := h.Service.ListStates(c.UserContext())
	if err != nil {
		return storageFailure(c, "states", states, "failed to load states")
	}
	return c.JSON(fiber.Map{"states": states})
}

// GetColleges lists every college, or a state's colleges when state_id is
// given as a path or query parameter
func (h *CatalogHandler) GetColleges(c *fiber.Ctx) error {
	stateID, present, err := idParam(c, "state_id", "state_id")
	if err != nil {
		return badRequest(c, "colleges", []models.College{}, err)
	}

	var filter *int64
	if present {
		filter = &stateID
	}

	colleges, err := h.Service.ListColleges(c.UserContext(), filter)
	if err != nil {
		return storageFailure(c, "colleges", colleges, "failed to load colleges")
	}
	return c.JSON(fiber.Map{"colleges": colleges})
}

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	stateID, err := requiredID(c, "state_id", "state_id")
	if err != nil {
		return badRequest(c, "categories", []string{}, err)
	}

	categories, err := h.Service.ListCategoriesForState(c.UserContext(), stateID)
	if err != nil {
		return storageFailure(c, "categories", categories, "failed to load categories")
	}
	return c.JSON(fiber.Map{"categories": categories})
}

func (h *CatalogHandler) GetCollege(c *fiber.Ctx) error {
	id, err := requiredID(c, "college_id", "id")
	if err != nil {
		return badRequest(c, "college", nil, err)
	}

	college, err := h.Service.GetCollege(c.UserContext(), id)
	if err != nil {
		return storageFailure(c, "college", nil, "failed to load college")
	}
	return c.JSON(fiber.Map{"college": college})
}

func (h *CatalogHandler) GetStateName(c *fiber.Ctx) error {
	id, err := requiredID(c, "state_id", "id")
	if err != nil {
		return badRequest(c, "state_name", nil, err)
	}

	name, err := h.Service.GetStateName(c.UserContext(), id)
	if err != nil {
		return storageFailure(c, "state_name", nil, "failed to load state")
	}
	return c.JSON(fiber.Map{"state_name": name})
}

// GetCutoffs serves /cutoffs. college_id wins when both ids are given.
func (h *CatalogHandler) GetCutoffs(c *fiber.Ctx) error {
	if c.Query("college_id") != "" {
		return h.GetCutoffsByCollege(c)
	}
	if c.Query("state_id") != "" {
		return h.GetCutoffsByState(c)
	}
	return badRequest(c, "cutoffs", []models.Cutoff{}, fmt.Errorf("college_id or state_id is required"))
}

func (h *CatalogHandler) GetCutoffsByCollege(c *fiber.Ctx) error {
	collegeID, err := requiredID(c, "college_id", "college_id")
	if err != nil {
		return badRequest(c, "cutoffs", []models.Cutoff{}, err)
	}

	cutoffs, err := h.Service.CutoffsForCollege(c.UserContext(), collegeID)
	if err != nil {
		return storageFailure(c, "cutoffs", cutoffs, "failed to load cutoffs")
	}
	return c.JSON(fiber.Map{"cutoffs": cutoffs})
}

func (h *CatalogHandler) GetCutoffsByState(c *fiber.Ctx) error {
	stateID, err := requiredID(c, "state_id", "state_id")
	if err != nil {
		return badRequest(c, "cutoffs", []models.CutoffWithCollege{}, err)
	}

	cutoffs, err := h.Service.TopCutoffsForState(c.UserContext(), stateID)
	if err != nil {
		return storageFailure(c, "cutoffs", cutoffs, "failed to load cutoffs")
	}
	return c.JSON(fiber.Map{"cutoffs": cutoffs})
}

// idParam reads an integer id from the route parameter, falling back to the
// query string
func idParam(c *fiber.Ctx, param, query string) (int64, bool, error) {
	raw := c.Params(param)
	if raw == "" {
		raw = c.Query(query)
	}
	if raw == "" {
		return 0, false, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be an integer", query)
	}
	return id, true, nil
}

func requiredID(c *fiber.Ctx, param, query string) (int64, error) {
	id, present, err := idParam(c, param, query)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, fmt.Errorf("%s is required", query)
	}
	return id, nil
}

func badRequest(c *fiber.Ctx, key string, empty interface{}, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		key:     empty,
		"error": err.Error(),
	})
}

func storageFailure(c *fiber.Ctx, key string, empty interface{}, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		key:     empty,
		"error": message,
	})
}
