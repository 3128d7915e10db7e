package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type updateBody struct {
	ID      int64  `json:"id" validate:"required,gt=0"`
	Content string `json:"content" validate:"required"`
}

func newRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecode(t *testing.T) {
	var body updateBody
	require.NoError(t, Decode(newRequest(`{"id": 3, "content": "{}"}`), &body))
	assert.Equal(t, int64(3), body.ID)
	assert.Equal(t, "{}", body.Content)
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "malformed", body: `{"id": 3`},
		{name: "zero id", body: `{"id": 0, "content": "x"}`, wantMsg: "ID failed required"},
		{name: "negative id", body: `{"id": -1, "content": "x"}`, wantMsg: "ID failed gt=0"},
		{name: "missing content", body: `{"id": 2}`, wantMsg: "Content failed required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body updateBody

			err := Decode(newRequest(tc.body), &body)

			assert.ErrorIs(t, err, ErrInvalidBody)
			if tc.wantMsg != "" {
				assert.ErrorContains(t, err, tc.wantMsg)
			}
		})
	}
}
