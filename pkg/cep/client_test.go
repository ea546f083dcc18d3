package cep

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"rental-service/pkg/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&config.CEPConfig{BaseURL: server.URL, Timeout: 0}, zap.NewNop())
}

func TestLookupSuccess(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/01001000/json", r.URL.Path)
		w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
	})

	addr, err := client.Lookup("01001000")
	require.NoError(t, err)
	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
}

func TestLookupRejectsMalformedCEP(t *testing.T) {
	client := NewClient(&config.CEPConfig{BaseURL: "http://unused"}, zap.NewNop())

	_, err := client.Lookup("1234")
	assert.Error(t, err)

	_, err = client.Lookup("abcdefgh")
	assert.Error(t, err)
}

func TestLookupNotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"erro": true}`))
	})

	_, err := client.Lookup("99999999")
	assert.Error(t, err)
}

func TestLookupWithRetryRecoversFromTransientFailure(t *testing.T) {
	attempts := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","localidade":"São Paulo","uf":"SP"}`))
	})

	addr, err := client.LookupWithRetry("01001000")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "Praça da Sé", addr.Street)
}

func TestLookupWithRetryGivesUpAfterSecondFailure(t *testing.T) {
	attempts := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.LookupWithRetry("01001000")
	assert.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestLookupServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Lookup("01001000")
	assert.Error(t, err)
}
