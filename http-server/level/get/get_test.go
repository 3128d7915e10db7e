package get

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"copilot-ops/internal/operation"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Levels(ctx context.Context) ([]operation.Level, error) {
	args := m.Called(ctx)
	levels, _ := args.Get(0).([]operation.Level)
	return levels, args.Error(1)
}

func TestLevelHandler(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Levels", mock.Anything).Return([]operation.Level{
		{LevelID: "main_01-07", Name: "暴君"},
		{LevelID: "act_perm_1-7", Name: "坚壁清野", CatThree: "永久关卡"},
	}, nil)

	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), provider)

	var resp struct {
		Data []operation.Level `json:"data"`
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/arknights/level", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/arknights/level?keyword=%E6%B0%B8%E4%B9%85", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "act_perm_1-7", resp.Data[0].LevelID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/arknights/level?keyword=none", nil))
	assert.JSONEq(t, `{"status_code": 200, "data": []}`, rec.Body.String())
}

func TestLevelHandler_Error(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Levels", mock.Anything).Return(nil, errors.New("db down"))

	rec := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil)), provider).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/arknights/level", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
