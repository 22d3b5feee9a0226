package openehrapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMDDHClient_ListCompositionsForEHR(t *testing.T) {
	var capturedPath string
	var capturedQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(DeviceSearchResponse{
			Count: 1,
			DeviceRecords: []*DeviceRecord{{
				Meta: &DeviceRecordMeta{CompositionID: "comp-1", CompositionVersion: 2},
			}},
		})
	}))
	defer server.Close()
	client := NewMDDH(server.URL, "", "", "", "")

	t.Run("decodes device records", func(t *testing.T) {
		response, err := client.ListCompositionsForEHR(context.Background(), "ehr-1", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "/patient/ehr-1/composition", capturedPath)
		assert.NotContains(t, capturedQuery, "format")

		var result DeviceSearchResponse
		require.NoError(t, response.Decode(&result))
		require.Len(t, result.DeviceRecords, 1)
		assert.Equal(t, "comp-1", result.DeviceRecords[0].Meta.CompositionID)
	})
	t.Run("format is passed through when set", func(t *testing.T) {
		_, err := client.ListCompositionsForEHR(context.Background(), "ehr-1", FormatCanonical, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"CANONICAL"}, capturedQuery["format"])
	})
}

func TestMDDHClient_GetEHRBySubject(t *testing.T) {
	var capturedQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patient", r.URL.Path)
		capturedQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(EHR{EHRID: &ObjectID{Value: "ehr-1"}})
	}))
	defer server.Close()
	client := NewMDDH(server.URL, "", "", "", "")

	response, err := client.GetEHRBySubject(context.Background(), "0123456789", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"0123456789"}, capturedQuery["subject_id"])
	assert.NotContains(t, capturedQuery, "subject_namespace")

	var ehr EHR
	require.NoError(t, response.Decode(&ehr))
	require.NotNil(t, ehr.EHRID)
	assert.Equal(t, "ehr-1", ehr.EHRID.Value)
}

func TestMDDHClient_GetComposition(t *testing.T) {
	var capturedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	client := NewMDDH(server.URL, "/mddh", "", "", "registry.nhs.scot")

	version := 4
	_, err := client.GetComposition(context.Background(), "ehr-1", "comp-1", &version, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "/mddh/patient/ehr-1/composition/comp-1::registry.nhs.scot::4", capturedPath)
}

func TestMDDHClient_SearchDevices(t *testing.T) {
	var capturedQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/devices/search", r.URL.Path)
		capturedQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(DeviceSearchResponse{})
	}))
	defer server.Close()
	client := NewMDDH(server.URL, "", "", "", "")

	_, err := client.SearchDevices(context.Background(), map[string]string{"serialNumber": "SN-1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"SN-1"}, capturedQuery["serialNumber"])
}
