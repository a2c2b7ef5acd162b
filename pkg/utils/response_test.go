package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/query"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", errors.Validation("task_name is required"), fiber.StatusBadRequest, "task_name is required"},
		{"unauthorized", errors.Unauthorized("authentication required"), fiber.StatusUnauthorized, "authentication required"},
		{"forbidden", errors.Forbidden("nope"), fiber.StatusForbidden, "nope"},
		{"not found", errors.NotFound("Task not found"), fiber.StatusNotFound, "Task not found"},
		{"conflict", errors.Conflictf("execution %s is %s", "x", "success"), fiber.StatusConflict, "execution x is success"},
		{"store", errors.Store(errors.New("dial tcp: refused"), "insert execution"), fiber.StatusInternalServerError, "Failed to run task"},
		{"unclassified", errors.New("boom"), fiber.StatusInternalServerError, "Failed to run task"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return HandleError(c, tt.err, "Failed to run task")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorBody
			raw, _ := io.ReadAll(resp.Body)
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.message, body.Error)
			assert.NotContains(t, string(raw), "dial tcp")
		})
	}
}

func TestListResponseEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ListResponse(c, []string{"a"}, query.Pagination{Page: 2, PageSize: 1, Total: 5})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"items":["a"],"pagination":{"page":2,"pageSize":1,"total":5}}`, string(raw))
}
