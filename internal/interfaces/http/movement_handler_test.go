package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQueryMulti(t *testing.T, target, key string) []string {
	t.Helper()
	app := fiber.New()
	var got []string
	app.Get("/movements", func(c *fiber.Ctx) error {
		got = queryMulti(c, key)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	return got
}

// location_id es repetible en el listado; deben llegar todos los valores al
// filtro, no solo el primero.
func TestQueryMulti_ParamRepetido(t *testing.T) {
	got := parseQueryMulti(t, "/movements?location_id=loc-a&location_id=loc-b&kind=transfer", "location_id")
	assert.Equal(t, []string{"loc-a", "loc-b"}, got)
}

func TestQueryMulti_ParamUnico(t *testing.T) {
	got := parseQueryMulti(t, "/movements?location_id=loc-a", "location_id")
	assert.Equal(t, []string{"loc-a"}, got)
}

func TestQueryMulti_AusenteOVacio(t *testing.T) {
	assert.Empty(t, parseQueryMulti(t, "/movements", "location_id"))
	assert.Empty(t, parseQueryMulti(t, "/movements?location_id=", "location_id"))
}
