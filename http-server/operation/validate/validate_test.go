package validate

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copilot-ops/internal/response"
	"copilot-ops/internal/validation"
)

func TestValidateHandler(t *testing.T) {
	v, err := validation.New("zh-Hans")
	require.NoError(t, err)

	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), v)

	post := func(body string) (*httptest.ResponseRecorder, response.Response) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/copilot/validate", strings.NewReader(body)))
		var resp response.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return rec, resp
	}

	rec, resp := post(`{
		"stageName": "act_perm_1-7",
		"actions": [{"_id": "1", "type": "Deploy", "name": "能天使", "location": [1, 2], "direction": "Left"}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp.Data.(map[string]any)["valid"])

	rec, resp = post(`{
		"stageName": "act_perm_1-7",
		"actions": [{"type": "SpeedUp"}],
		"groups": [{"_id": "g", "name": "先锋"}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	result := resp.Data.(map[string]any)
	assert.Equal(t, false, result["valid"])
	assert.Equal(t, "干员组“先锋”不能为空", result["message"])

	rec, _ = post(`{"stageName": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
