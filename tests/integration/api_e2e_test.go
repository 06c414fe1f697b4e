package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoviz-io/algoviz-backend/internal/auth"
	"github.com/algoviz-io/algoviz-backend/internal/bootstrap"
)

type scriptedGenerator struct{}

func (scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "Step 1: Compare [3, 1, 2] at indices 0 and 1.\n" +
		"Step 2: Swap to [1, 3, 2].\n" +
		"Step 3: Final state [1, 2, 3].\n" +
		"Time complexity: O(n^2)\n" +
		"Space complexity: O(1)", nil
}

func e2eRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "algoviz-backend",
		Version:     "test",
		Production:  true,
		DB:          setupTestPool(t),
		Tokens:      auth.NewTokenManager("e2e-secret", time.Hour),
		Generator:   scriptedGenerator{},
		GenTimeout:  5 * time.Second,
		GenerateRPS: 1000, GenerateBurst: 1000,
	})
}

func jsonReq(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestAPI_RegisterLoginGenerateList walks the full happy path through the
// assembled router: register, login, generate a visualization, read it back
// through the list endpoint.
func TestAPI_RegisterLoginGenerateList(t *testing.T) {
	r := e2eRouter(t)
	email := testEmail()

	// register
	w := jsonReq(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"email":    email,
		"password": "Abc123",
		"name":     "Ann",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered struct {
		Data struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	cleanupUser(t, registered.Data.User.ID)

	// duplicate registration conflicts
	w = jsonReq(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"email":    email,
		"password": "Abc123",
		"name":     "Ann",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// login
	w = jsonReq(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email":    email,
		"password": "Abc123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)

	// unauthenticated generation is rejected
	w = jsonReq(t, r, http.MethodPost, "/api/v1/visualizations", "", gin.H{
		"algorithmType": "sorting",
		"algorithm":     "bubble-sort",
		"input":         []int{3, 1, 2},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// generate
	w = jsonReq(t, r, http.MethodPost, "/api/v1/visualizations", login.Data.Token, gin.H{
		"algorithmType": "sorting",
		"algorithm":     "bubble-sort",
		"input":         []int{3, 1, 2},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			Visualization struct {
				ID       string `json:"id"`
				Response struct {
					Steps           []json.RawMessage `json:"steps"`
					TimeComplexity  string            `json:"timeComplexity"`
					SpaceComplexity string            `json:"spaceComplexity"`
				} `json:"response"`
			} `json:"visualization"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.GreaterOrEqual(t, len(created.Data.Visualization.Response.Steps), 1)
	assert.Equal(t, "O(n^2)", created.Data.Visualization.Response.TimeComplexity)

	// list shows exactly the one record
	w = jsonReq(t, r, http.MethodGet, "/api/v1/visualizations", login.Data.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var listed struct {
		Data struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Data.Total)
	require.Len(t, listed.Data.Items, 1)
	assert.Equal(t, created.Data.Visualization.ID, listed.Data.Items[0].ID)

	// delete and confirm it is gone
	path := fmt.Sprintf("/api/v1/visualizations/%s", created.Data.Visualization.ID)
	w = jsonReq(t, r, http.MethodDelete, path, login.Data.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = jsonReq(t, r, http.MethodGet, path, login.Data.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
