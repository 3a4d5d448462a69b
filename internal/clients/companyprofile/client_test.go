package companyprofile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/models"
)

func TestGetCompanyProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company/00006400", r.URL.Path)
		_, _ = w.Write([]byte(`{"company_number":"00006400","type":"ltd","company_status":"active","has_super_secure_pscs":true}`))
	}))
	defer srv.Close()

	client := New(clients.Config{BaseURL: srv.URL})
	profile, err := client.GetCompanyProfile(context.Background(), models.Transaction{ID: "tx-1", CompanyNumber: "00006400"}, "tok")

	require.NoError(t, err)
	assert.Equal(t, "ltd", profile.Type)
	assert.Equal(t, "active", profile.CompanyStatus)
	assert.True(t, profile.HasSuperSecurePscs)
}
