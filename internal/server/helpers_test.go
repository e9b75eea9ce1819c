package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"unpolished/internal/models"
	"unpolished/pkg/schema"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"commentId", "comment ID"},
		{"blogId", "blog ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p, err := parsePagination(c)
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"limit": p.Limit, "offset": p.Offset})
	})

	tests := []struct {
		query      string
		wantStatus int
		wantLimit  float64
		wantOffset float64
	}{
		{query: "", wantStatus: http.StatusOK, wantLimit: 20, wantOffset: 0},
		{query: "?limit=10&offset=30", wantStatus: http.StatusOK, wantLimit: 10, wantOffset: 30},
		{query: "?limit=50", wantStatus: http.StatusOK, wantLimit: 50},
		{query: "?limit=51", wantStatus: http.StatusBadRequest},
		{query: "?limit=0", wantStatus: http.StatusBadRequest},
		{query: "?limit=abc", wantStatus: http.StatusBadRequest},
		{query: "?offset=-1", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, models.CodeValidation, body["code"])
				assert.NotEmpty(t, body["details"])
				return
			}
			assert.Equal(t, tt.wantLimit, body["limit"])
			assert.Equal(t, tt.wantOffset, body["offset"])
		})
	}
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	s := &Server{}
	app.Get("/comments/:commentId", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "commentId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/comments/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	for _, bad := range []string{"abc", "0", "-3"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/comments/"+bad, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Invalid comment ID", body.Error)
		_ = resp.Body.Close()
	}
}

func TestBindBody(t *testing.T) {
	app := fiber.New()
	app.Post("/comments", func(c *fiber.Ctx) error {
		var req schema.CreateCommentInput
		if err := bindBody(c, &req); err != nil {
			return nil
		}
		return c.SendStatus(http.StatusNoContent)
	})

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"content":"hi"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = post(`{"content":""}`)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Details, 1)
	assert.Equal(t, "content", body.Details[0].Field)

	resp2 := post(`{not json`)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestRespondError_HidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, models.NewInternalError(errors.New("pq: connection refused")))
	})
	app.Get("/gone", func(c *fiber.Ctx) error {
		return respondError(c, models.NewNotFoundError("Blog", nil))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Error)

	resp2, err := app.Test(httptest.NewRequest(http.MethodGet, "/gone", nil))
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}
