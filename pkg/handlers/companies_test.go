package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
)

func newCompanyMux(svc *mockCompanyService) *http.ServeMux {
	mux := http.NewServeMux()
	NewCompanyHandler(svc, nil, testDefaults, zap.NewNop()).RegisterRoutes(mux, noScope)
	return mux
}

func TestCompanyHandler_List(t *testing.T) {
	svc := &mockCompanyService{companies: []*models.Company{{ID: 1, Name: "Acme"}}}
	mux := newCompanyMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies?q=acme&sort=name", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CompanyListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Companies, 1)
	assert.Equal(t, 1, resp.Pagination.Total)
}

func TestCompanyHandler_Suggestions(t *testing.T) {
	svc := &mockCompanyService{suggestions: []string{"Société Générale"}}
	mux := newCompanyMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies/suggestions?q=soc&field=domain", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "domain", svc.lastField)
	assert.Equal(t, "soc", svc.lastTerm)
	assert.JSONEq(t, `{"suggestions":["Société Générale"]}`, rec.Body.String())
}

func TestCompanyHandler_Suggestions_EmptyIsArray(t *testing.T) {
	svc := &mockCompanyService{suggestions: []string{}}
	mux := newCompanyMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies/suggestions?q=a", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, rec.Body.String())
}

func TestCompanyHandler_Get(t *testing.T) {
	svc := &mockCompanyService{aggregate: &models.CompanyAggregate{
		Company:      models.Company{ID: 3, Name: "Acme"},
		ContactCount: 1,
		Contacts:     []*models.Contact{{ID: 9, FullName: "Ana"}},
	}}
	mux := newCompanyMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies/3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Acme", body["name"])
	assert.EqualValues(t, 1, body["contact_count"])
}

func TestCompanyHandler_Get_PassesContactFilter(t *testing.T) {
	svc := &mockCompanyService{aggregate: &models.CompanyAggregate{Company: models.Company{ID: 3, Name: "Acme"}}}
	mux := newCompanyMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies/3?q=h%C3%A9l%C3%A8ne", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hélène", svc.lastGetTerm)
}

func TestCompanyHandler_Get_NotFound(t *testing.T) {
	mux := newCompanyMux(&mockCompanyService{err: apperrors.ErrNotFound})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies/3", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "company_not_found")
}
