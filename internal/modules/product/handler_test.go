package product

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-console/internal/modules/provider"
)

func newTestRouter(repo *fakeRepo, dir *fakeDirectory) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(newTestService(repo, dir)).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_View(t *testing.T) {
	r := newTestRouter(seededRepo(), &fakeDirectory{providers: []provider.Provider{providerFixture()}})

	rec := do(t, r, http.MethodGet, "/console/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var v struct {
		Items []struct {
			ID       string            `json:"_id"`
			Provider provider.Provider `json:"provider"`
		} `json:"items"`
		Anomalies struct {
			DanglingRefIDs []string `json:"danglingRefIds"`
		} `json:"anomalies"`
		Integrity IntegrityReport `json:"integrity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Len(t, v.Items, 3)
	assert.Equal(t, "Acme", v.Items[0].Provider.Name)
	assert.Equal(t, []string{"ghost123"}, v.Anomalies.DanglingRefIDs)
	assert.Equal(t, 1, v.Integrity.NullRefCount)
}

func TestHandler_FiltersAndPage(t *testing.T) {
	repo := seededRepo()
	r := newTestRouter(repo, &fakeDirectory{})

	rec := do(t, r, http.MethodPost, "/console/products/filters", `{"search":"anvil","minPrice":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", repo.lastQuery["minPrice"])

	rec = do(t, r, http.MethodPost, "/console/products/page/two", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/console/products/page/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", repo.lastQuery["page"])
	assert.Equal(t, "anvil", repo.lastQuery["search"])
}

func TestHandler_CreateRejectsZeroPrice(t *testing.T) {
	r := newTestRouter(seededRepo(), &fakeDirectory{})

	rec := do(t, r, http.MethodPost, "/console/products",
		`{"name":"Hammer","price":0,"description":"d","provider":"p1","stock":1}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"errors":{"price":"Price must be greater than 0"}}`, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/console/products",
		`{"name":"Hammer","price":9.99,"description":"d","provider":"p1","stock":1}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandler_DetailAndScoped(t *testing.T) {
	r := newTestRouter(seededRepo(), &fakeDirectory{providers: []provider.Provider{providerFixture()}})

	rec := do(t, r, http.MethodGet, "/console/products/x1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var d struct {
		ProviderName string `json:"providerName"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "Acme", d.ProviderName)

	rec = do(t, r, http.MethodGet, "/console/products/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, "/console/products/provider/p1?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pv struct {
		Provider provider.Provider `json:"provider"`
		Items    []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pv))
	assert.Equal(t, "Acme", pv.Provider.Name)
	assert.Len(t, pv.Items, 1)
}

func TestHandler_DeleteConflict(t *testing.T) {
	r := newTestRouter(seededRepo(), &fakeDirectory{})

	rec := do(t, r, http.MethodDelete, "/console/products/ghost", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Product is locked"}`, rec.Body.String())

	rec = do(t, r, http.MethodDelete, "/console/products/x1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
