package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"obiabedidi/errs"
	"obiabedidi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"rice", "tomato"}, SplitCSV(" rice, ,tomato ,"))
	assert.Nil(t, SplitCSV(""))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?n=5&bad=x", nil)
	n, ok := QueryInt(r, "n", 1)
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	n, ok = QueryInt(r, "missing", 7)
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = QueryInt(r, "bad", 1)
	assert.False(t, ok)
}

func TestRespondWithErr(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/recipes/x", nil)
	RespondWithErr(rec, req, fmt.Errorf("recipe x: %w", errs.ErrNotFound))

	assert.Equal(t, 404, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])

	rec = httptest.NewRecorder()
	RespondWithErr(rec, req, fmt.Errorf("mongo exploded"))
	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestUserContext(t *testing.T) {
	assert.Nil(t, UserFromContext(context.Background()))
	ctx := WithUser(context.Background(), &models.User{ID: "u1"})
	assert.Equal(t, "u1", UserFromContext(ctx).ID)

	r := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	assert.Equal(t, "u1", GetUserIDFromRequest(r))
}
