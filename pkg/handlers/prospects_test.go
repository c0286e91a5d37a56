package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
)

func newProspectMux(svc *mockProspectService) *http.ServeMux {
	mux := http.NewServeMux()
	NewProspectHandler(svc, testDefaults, zap.NewNop()).RegisterRoutes(mux, noScope)
	return mux
}

func TestProspectHandler_Create(t *testing.T) {
	svc := &mockProspectService{}
	mux := newProspectMux(svc)

	body := `{"name":" Jean Dupont ","phone":352621000111,"company":"Acme","email":""}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/prospects", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Jean Dupont", svc.created.Name)
	require.NotNil(t, svc.created.Phone)
	assert.Equal(t, "352621000111", *svc.created.Phone)
	assert.Nil(t, svc.created.Email)
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestProspectHandler_Create_MissingName(t *testing.T) {
	svc := &mockProspectService{err: apperrors.NewValidationError("name", "name is required")}
	mux := newProspectMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/prospects", strings.NewReader(`{"company":"Acme"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestProspectHandler_Update_SetsID(t *testing.T) {
	svc := &mockProspectService{}
	mux := newProspectMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/prospects/12", strings.NewReader(`{"name":"X","status":"qualified"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), svc.created.ID)
	assert.Equal(t, "qualified", svc.created.Status)
}

func TestProspectHandler_GetAndDelete_NotFound(t *testing.T) {
	mux := newProspectMux(&mockProspectService{err: apperrors.ErrNotFound})

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, "/api/prospects/77", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
		assert.Contains(t, rec.Body.String(), "prospect_not_found", method)
	}
}

func TestProspectHandler_Delete(t *testing.T) {
	mux := newProspectMux(&mockProspectService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/prospects/77", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProspectHandler_Bulk(t *testing.T) {
	created := &models.Prospect{ID: 1, Name: "Valid"}
	svc := &mockProspectService{result: &services.BulkResult{Count: 1, Skipped: 1, Prospects: []*models.Prospect{created}}}
	mux := newProspectMux(svc)

	body := `[{"company":"NoName Ltd"},{"name":"Valid"}]`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/prospects/bulk", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.bulk, 2)
	assert.Equal(t, "", svc.bulk[0].Name)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Contains(t, rec.Body.String(), `"skipped":1`)
}

func TestProspectHandler_Bulk_RejectsNonArray(t *testing.T) {
	mux := newProspectMux(&mockProspectService{})

	for _, body := range []string{`{"name":"x"}`, `[]`} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/prospects/bulk", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestProspectHandler_Bulk_ServiceFailure(t *testing.T) {
	mux := newProspectMux(&mockProspectService{err: errors.New("insert failed")})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/prospects/bulk", strings.NewReader(`[{"name":"a"}]`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "insert failed")
}

func TestProspectHandler_List(t *testing.T) {
	mux := newProspectMux(&mockProspectService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/prospects?status=new", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"prospects":[]`)
}
