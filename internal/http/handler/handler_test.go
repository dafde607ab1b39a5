package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"animalshelter/internal/http/middleware"
	"animalshelter/internal/model"
	"animalshelter/internal/service"
	serviceMocks "animalshelter/internal/service/mocks"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func newApp(svc service.AnimalService, store Pinger) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, store, svc)
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := newApp(new(serviceMocks.MockAnimalService), fakePinger{})
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		app := newApp(new(serviceMocks.MockAnimalService), fakePinger{err: errors.New("no primary")})
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
		assert.NotEmpty(t, body.RequestID)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := newApp(new(serviceMocks.MockAnimalService), fakePinger{})
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListAnimals(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnimalService)
	app := newApp(mockSvc, fakePinger{})

	recs := []model.Record{{"breed": "Beagle"}, {"breed": "Poodle"}}
	mockSvc.On("Read", mock.Anything, model.Query{}).Return(recs).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/animals", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var result AnimalListResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, "Beagle", result.Items[0]["breed"])
	mockSvc.AssertExpectations(t)
}

func TestCreateAnimal(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnimalService)
	app := newApp(mockSvc, fakePinger{})

	t.Run("created", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, model.Record{"breed": "Beagle", "age_upon_outcome_in_weeks": float64(52)}).
			Return(true, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/animals", `{"breed":"Beagle","age_upon_outcome_in_weeks":52}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, model.Record{"breed": "Poodle"}).Return(false, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/animals", `{"breed":"Poodle"}`))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "CREATE_FAILED", decodeError(t, resp).Error.Code)
	})

	t.Run("empty record", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, model.Record{}).
			Return(false, fmt.Errorf("%w: nothing to save", service.ErrInvalidArgument)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/animals", `{}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, resp).Error.Code)
	})

	t.Run("not an object", func(t *testing.T) {
		for _, body := range []string{`null`, `[1,2]`, `"dog"`} {
			resp, _ := app.Test(jsonRequest(http.MethodPost, "/animals", body))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, resp).Error.Code)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/animals", `{"breed":`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "BAD_REQUEST", decodeError(t, resp).Error.Code)
	})
}

func TestSearchAnimals(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnimalService)
	app := newApp(mockSvc, fakePinger{})

	t.Run("query object", func(t *testing.T) {
		q := model.Query{"breed": map[string]any{"$in": []any{"Beagle"}}}
		mockSvc.On("Read", mock.Anything, q).Return([]model.Record{{"breed": "Beagle"}}).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/animals/search", `{"breed":{"$in":["Beagle"]}}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result AnimalListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, 1, result.Total)
	})

	t.Run("empty body reads all", func(t *testing.T) {
		mockSvc.On("Read", mock.Anything, model.Query{}).Return([]model.Record{}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/animals/search", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("non-object query", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/animals/search", `["breed"]`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "TYPE_ARGUMENT", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestUpdateAnimals(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnimalService)
	app := newApp(mockSvc, fakePinger{})

	t.Run("modified count", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything,
			map[string]any{"breed": "Beagle"},
			map[string]any{"sex_upon_outcome": "Intact Female"},
		).Return(int64(2), nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/animals",
			`{"query":{"breed":"Beagle"},"values":{"sex_upon_outcome":"Intact Female"}}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(2), body["modified"])
	})

	t.Run("type argument", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, "breed", mock.Anything).
			Return(int64(0), fmt.Errorf("%w: query is string", service.ErrTypeArgument)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/animals", `{"query":"breed","values":{}}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "TYPE_ARGUMENT", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestDeleteAnimals(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnimalService)
	app := newApp(mockSvc, fakePinger{})

	t.Run("deleted count", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, map[string]any{"breed": "Beagle"}).Return(int64(3), nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodDelete, "/animals", `{"query":{"breed":"Beagle"}}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(3), body["deleted"])
	})

	t.Run("missing query", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, nil).
			Return(int64(0), fmt.Errorf("%w: query is <nil>", service.ErrTypeArgument)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodDelete, "/animals", `{}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "TYPE_ARGUMENT", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestRescueAnimals(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnimalService)
	app := newApp(mockSvc, fakePinger{})

	t.Run("query parameter", func(t *testing.T) {
		mockSvc.On("FilterByRescueType", mock.Anything, "water rescue").
			Return([]model.Record{{"breed": "Newfoundland"}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/animals/rescue?type=water+rescue", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result AnimalListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, 1, result.Total)
	})

	t.Run("json body with non-string label", func(t *testing.T) {
		mockSvc.On("FilterByRescueType", mock.Anything, float64(123)).
			Return(nil, fmt.Errorf("%w: rescue type must be a string", service.ErrInvalidArgument)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/animals/rescue", `{"rescue_type":123}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, resp).Error.Code)
	})

	t.Run("json body", func(t *testing.T) {
		mockSvc.On("FilterByRescueType", mock.Anything, "Reset").Return(nil, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/animals/rescue", `{"rescue_type":"Reset"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.JSONEq(t, `{"data":[],"total":0}`, buf.String())
	})

	mockSvc.AssertExpectations(t)
}

func TestErrorHandler(t *testing.T) {
	app := newApp(new(serviceMocks.MockAnimalService), fakePinger{})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/unknown", nil))

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, resp.Header.Get(middleware.RequestIDHeader), body.RequestID)
}

func TestWriteServiceError_Internal(t *testing.T) {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return writeServiceError(c, errors.New("unexpected"))
	})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
}
