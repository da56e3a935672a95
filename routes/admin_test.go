package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-search-platform/internal/config"
	"recipe-search-platform/middleware"
	"recipe-search-platform/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminStore struct {
	indexes     map[string]bool
	ensureCalls int
	cleared     int64
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{indexes: make(map[string]bool)}
}

func (f *fakeAdminStore) EnsureVectorIndex(ctx context.Context, name string, dims int, similarity string) (bool, error) {
	f.ensureCalls++
	if f.indexes[name] {
		return false, nil
	}
	f.indexes[name] = true
	return true, nil
}

func (f *fakeAdminStore) DropVectorIndex(ctx context.Context, name string) error {
	delete(f.indexes, name)
	return nil
}

func (f *fakeAdminStore) ListVectorIndexes(ctx context.Context) ([]models.VectorIndexInfo, error) {
	out := make([]models.VectorIndexInfo, 0, len(f.indexes))
	for name := range f.indexes {
		out = append(out, models.VectorIndexInfo{Name: name, Type: "vectorSearch", Status: "READY"})
	}
	return out, nil
}

func (f *fakeAdminStore) ClearVectors(ctx context.Context) (int64, error) {
	return f.cleared, nil
}

func newAdminTestServer(t *testing.T, st *fakeAdminStore) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		AdminJWTSecret:   "test-secret",
		VectorIndexName:  "recipes_vector_index",
		VectorDimensions: 1536,
		VectorSimilarity: "cosine",
	}

	router := gin.New()
	auth := middleware.NewAdminAuthMiddleware(cfg)
	SetupAdminRoutes(router, cfg, st, nil, nil, nil, auth, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.AdminJWTSecret))
	require.NoError(t, err)
	return router, signed
}

func doAdmin(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateIndexIsIdempotent(t *testing.T) {
	st := newFakeAdminStore()
	router, token := newAdminTestServer(t, st)

	type indexResp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Payload struct {
			Name    string `json:"name"`
			Created bool   `json:"created"`
		} `json:"payload"`
	}

	w := doAdmin(router, http.MethodPost, "/admin/index", token)
	require.Equal(t, http.StatusOK, w.Code)
	var first indexResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Success)
	assert.True(t, first.Payload.Created)
	assert.Equal(t, "Vector index created", first.Message)
	assert.Equal(t, "recipes_vector_index", first.Payload.Name)

	w = doAdmin(router, http.MethodPost, "/admin/index", token)
	require.Equal(t, http.StatusOK, w.Code)
	var second indexResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Success)
	assert.False(t, second.Payload.Created)
	assert.Equal(t, "Vector index already existed", second.Message)
	assert.Equal(t, 2, st.ensureCalls)
}

func TestDropThenRecreateIndex(t *testing.T) {
	st := newFakeAdminStore()
	router, token := newAdminTestServer(t, st)

	require.Equal(t, http.StatusOK,
		doAdmin(router, http.MethodPost, "/admin/index", token).Code)
	require.Equal(t, http.StatusOK,
		doAdmin(router, http.MethodDelete, "/admin/index/recipes_vector_index", token).Code)

	w := doAdmin(router, http.MethodPost, "/admin/index", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"created":true`)
}

func TestListIndexesRequiresAuth(t *testing.T) {
	st := newFakeAdminStore()
	router, _ := newAdminTestServer(t, st)

	req := httptest.NewRequest(http.MethodGet, "/admin/indexes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClearVectorsReportsCount(t *testing.T) {
	st := newFakeAdminStore()
	st.cleared = 42
	router, token := newAdminTestServer(t, st)

	w := doAdmin(router, http.MethodDelete, "/admin/vectors", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cleared":42`)
}
