package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"animalshelter/internal/model"
	"animalshelter/internal/service"
)

// Pinger reports store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AnimalListResult is the response body for every endpoint returning records.
type AnimalListResult struct {
	Items []model.Record `json:"data"`
	Total int            `json:"total"`
}

type updateRequest struct {
	Query  any `json:"query"`
	Values any `json:"values"`
}

type deleteRequest struct {
	Query any `json:"query"`
}

type rescueRequest struct {
	RescueType any `json:"rescue_type"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers translate JSON to service calls and carry no business logic.
func RegisterRoutes(app *fiber.App, store Pinger, svc service.AnimalService) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	animals := app.Group("/animals")
	animals.Get("/", ListAnimals(svc))
	animals.Post("/", CreateAnimal(svc))
	animals.Patch("/", UpdateAnimals(svc))
	animals.Delete("/", DeleteAnimals(svc))
	animals.Post("/search", SearchAnimals(svc))
	animals.Get("/rescue", RescueAnimals(svc))
	animals.Post("/rescue", RescueAnimalsByBody(svc))
}

// HealthCheck checks store connectivity only.
//
// @Summary Store health
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListAnimals returns every record.
//
// @Summary List animals
// @Produce json
// @Success 200 {object} AnimalListResult
// @Router /animals [get]
func ListAnimals(svc service.AnimalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return writeList(c, svc.Read(c.UserContext(), model.Query{}))
	}
}

// CreateAnimal inserts the JSON object in the body.
//
// @Summary Create animal
// @Accept json
// @Produce json
// @Param record body object true "Animal record"
// @Success 201 {object} map[string]bool
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /animals [post]
func CreateAnimal(svc service.AnimalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body any
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed JSON body")
		}
		rec, ok := body.(map[string]any)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "record must be a JSON object")
		}

		created, err := svc.Create(c.UserContext(), model.Record(rec))
		if err != nil {
			return writeServiceError(c, err)
		}
		if !created {
			return writeError(c, fiber.StatusServiceUnavailable, "CREATE_FAILED", "animal could not be saved")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"created": true})
	}
}

// SearchAnimals reads records matching the query object in the body.
// An empty body matches everything.
//
// @Summary Search animals
// @Accept json
// @Produce json
// @Param query body object false "Query"
// @Success 200 {object} AnimalListResult
// @Failure 400 {object} errorPayload
// @Router /animals/search [post]
func SearchAnimals(svc service.AnimalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := model.Query{}
		if len(c.Body()) > 0 {
			var body any
			if err := json.Unmarshal(c.Body(), &body); err != nil {
				return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed JSON body")
			}
			m, ok := body.(map[string]any)
			if !ok {
				return writeError(c, fiber.StatusBadRequest, "TYPE_ARGUMENT", "query must be a JSON object")
			}
			q = model.Query(m)
		}
		return writeList(c, svc.Read(c.UserContext(), q))
	}
}

// UpdateAnimals sets values on every record matching query.
//
// @Summary Update animals
// @Accept json
// @Produce json
// @Param request body updateRequest true "Query and values"
// @Success 200 {object} map[string]int
// @Failure 400 {object} errorPayload
// @Router /animals [patch]
func UpdateAnimals(svc service.AnimalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed JSON body")
		}
		n, err := svc.Update(c.UserContext(), req.Query, req.Values)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"modified": n})
	}
}

// DeleteAnimals removes every record matching query.
//
// @Summary Delete animals
// @Accept json
// @Produce json
// @Param request body deleteRequest true "Query"
// @Success 200 {object} map[string]int
// @Failure 400 {object} errorPayload
// @Router /animals [delete]
func DeleteAnimals(svc service.AnimalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req deleteRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed JSON body")
		}
		n, err := svc.Delete(c.UserContext(), req.Query)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"deleted": n})
	}
}

// RescueAnimals filters by the rescue type in the "type" query parameter.
//
// @Summary Animals suitable for a rescue type
// @Produce json
// @Param type query string false "Water Rescue, Mountain Rescue, Disaster Rescue or Reset"
// @Success 200 {object} AnimalListResult
// @Router /animals/rescue [get]
func RescueAnimals(svc service.AnimalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recs, err := svc.FilterByRescueType(c.UserContext(), c.Query("type"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeList(c, recs)
	}
}

// RescueAnimalsByBody is RescueAnimals with the label taken from a JSON body,
// so non-string labels reach the service and are rejected there.
//
// @Summary Animals suitable for a rescue type
// @Accept json
// @Produce json
// @Param request body rescueRequest true "Rescue type"
// @Success 200 {object} AnimalListResult
// @Failure 400 {object} errorPayload
// @Router /animals/rescue [post]
func RescueAnimalsByBody(svc service.AnimalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req rescueRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed JSON body")
		}
		recs, err := svc.FilterByRescueType(c.UserContext(), req.RescueType)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeList(c, recs)
	}
}

func writeList(c *fiber.Ctx, recs []model.Record) error {
	if recs == nil {
		recs = []model.Record{}
	}
	return c.JSON(AnimalListResult{Items: recs, Total: len(recs)})
}

// writeServiceError maps argument errors to 400 and anything else to 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTypeArgument):
		return writeError(c, fiber.StatusBadRequest, "TYPE_ARGUMENT", err.Error())
	case errors.Is(err, service.ErrInvalidArgument):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
