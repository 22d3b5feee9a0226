package fhirapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"

	"github.com/ndp-scot/cdr-gateway/lib/apperror"
	"github.com/ndp-scot/cdr-gateway/lib/to"
)

func TestNew_URLComposition(t *testing.T) {
	t.Run("root base path is dropped", func(t *testing.T) {
		client := New("https://example.com/", "/", "", "", "")
		assert.Equal(t, "https://example.com/Patient", client.URL("/Patient"))
	})
	t.Run("tenant segment is appended", func(t *testing.T) {
		client := New("https://example.com", "/fhir/", "", "", "tenant-1")
		assert.Equal(t, "https://example.com/fhir/tenant/tenant-1/Patient", client.URL("/Patient"))
	})
}

func TestClient_GetResourceById(t *testing.T) {
	t.Run("returns the resource", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/Patient/0123456789", r.URL.Path)
			_ = json.NewEncoder(w).Encode(fhir.Patient{Id: to.Ptr("0123456789")})
		}))
		defer server.Close()
		client := New(server.URL, "", "", "", "")

		var patient fhir.Patient
		err := client.GetResourceById(context.Background(), "Patient", "0123456789", &patient)
		require.NoError(t, err)
		assert.Equal(t, "0123456789", to.Value(patient.Id))
	})
	t.Run("404 translates to not-found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		client := New(server.URL, "", "", "", "")

		var patient fhir.Patient
		err := client.GetResourceById(context.Background(), "Patient", "0123456789", &patient)
		assert.True(t, apperror.IsNotFound(err))
	})
	t.Run("other non-200 is a generic error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()
		client := New(server.URL, "", "", "", "")

		var patient fhir.Patient
		err := client.GetResourceById(context.Background(), "Patient", "0123456789", &patient)
		require.EqualError(t, err, "response 500: Internal Server Error")
		assert.False(t, apperror.IsNotFound(err))
	})
}

func TestClient_SearchByIdentifier(t *testing.T) {
	var capturedQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(fhir.Bundle{Type: fhir.BundleTypeSearchset, Total: to.Ptr(0)})
	}))
	defer server.Close()
	client := New(server.URL, "", "", "", "")

	var bundle fhir.Bundle
	t.Run("with system", func(t *testing.T) {
		err := client.SearchByIdentifier(context.Background(), "Patient", "012", "https://fhir.nhs.scot/chinumber", &bundle)
		require.NoError(t, err)
		assert.Equal(t, "https://fhir.nhs.scot/chinumber|012", capturedQuery.Get("identifier"))
	})
	t.Run("bare identifier", func(t *testing.T) {
		err := client.SearchByIdentifier(context.Background(), "Patient", "012", "", &bundle)
		require.NoError(t, err)
		assert.Equal(t, "012", capturedQuery.Get("identifier"))
	})
}

func TestClient_GetFirstByIdentifier(t *testing.T) {
	t.Run("empty bundle yields nil", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(fhir.Bundle{Type: fhir.BundleTypeSearchset, Total: to.Ptr(0)})
		}))
		defer server.Close()
		client := New(server.URL, "", "", "", "")

		resource, err := client.GetFirstByIdentifier(context.Background(), "Patient", "012", "")
		require.NoError(t, err)
		assert.Nil(t, resource)
	})
	t.Run("first entry is returned", func(t *testing.T) {
		patientJSON, _ := json.Marshal(fhir.Patient{Id: to.Ptr("p1")})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(fhir.Bundle{
				Type:  fhir.BundleTypeSearchset,
				Total: to.Ptr(1),
				Entry: []fhir.BundleEntry{{Resource: patientJSON}},
			})
		}))
		defer server.Close()
		client := New(server.URL, "", "", "", "")

		resource, err := client.GetFirstByIdentifier(context.Background(), "Patient", "012", "")
		require.NoError(t, err)
		var patient fhir.Patient
		require.NoError(t, json.Unmarshal(resource, &patient))
		assert.Equal(t, "p1", to.Value(patient.Id))
	})
}

func TestClient_ListResourceByType(t *testing.T) {
	var capturedRawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedRawQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(fhir.Bundle{Type: fhir.BundleTypeSearchset})
	}))
	defer server.Close()
	client := New(server.URL, "", "", "", "")

	var bundle fhir.Bundle
	err := client.ListResourceByType(context.Background(), "Immunization", []string{"date=ge2020-01-01", "_count=10"}, &bundle)
	require.NoError(t, err)
	// custom query fragments are passed through without re-encoding
	assert.Equal(t, "date=ge2020-01-01&_count=10", capturedRawQuery)
}

func TestClient_Create(t *testing.T) {
	t.Run("201 returns the created resource", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(fhir.Patient{Id: to.Ptr("new-id")})
		}))
		defer server.Close()
		client := New(server.URL, "", "", "", "")

		var created fhir.Patient
		err := client.Create(context.Background(), "Patient", fhir.Patient{}, &created)
		require.NoError(t, err)
		assert.Equal(t, "new-id", to.Value(created.Id))
	})
	t.Run("anything but 201 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		client := New(server.URL, "", "", "", "")

		err := client.Create(context.Background(), "Patient", fhir.Patient{}, nil)
		require.EqualError(t, err, "response 200: OK")
	})
}

func TestClient_Search(t *testing.T) {
	var capturedQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(fhir.Bundle{Type: fhir.BundleTypeSearchset})
	}))
	defer server.Close()
	client := New(server.URL, "", "", "", "")

	var bundle fhir.Bundle
	err := client.Search(context.Background(), "Encounter", url.Values{
		"patient.identifier": []string{"0123456789"},
		"_include":           []string{"Encounter:participant:Practitioner"},
	}, &bundle)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", capturedQuery.Get("patient.identifier"))
	assert.Equal(t, "Encounter:participant:Practitioner", capturedQuery.Get("_include"))
}

func TestClient_Match(t *testing.T) {
	var capturedURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedURL = r.URL.String()
		_ = json.NewEncoder(w).Encode(fhir.Bundle{Type: fhir.BundleTypeSearchset})
	}))
	defer server.Close()
	client := New(server.URL, "", "", "", "")

	var bundle fhir.Bundle
	err := client.Match(context.Background(), "Patient", map[string]any{"resourceType": "Parameters"}, &bundle)
	require.NoError(t, err)
	assert.Equal(t, "/Patient?$match", capturedURL)
}
