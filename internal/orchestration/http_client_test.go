package orchestration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-controller/pkg/models"
)

func TestHTTPClient_Provision(t *testing.T) {
	var got ProvisionSpec
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sessions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	spec := ProvisionSpec{
		SessionID:  uuid.New(),
		Type:       models.SessionTypeJupyter,
		Image:      "acme/jupyter:custom",
		Workspace:  "/var/workflows/mytest",
		PodName:    "interactive-jupyter-abc",
		AccessPath: "/abc",
	}

	require.NoError(t, client.Provision(context.Background(), spec))
	assert.Equal(t, spec.SessionID, got.SessionID)
	assert.Equal(t, spec.Image, got.Image)
	// The controller-assigned pod name reaches the orchestrator verbatim.
	assert.Equal(t, "interactive-jupyter-abc", got.PodName)
}

func TestHTTPClient_ProvisionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"message": "no nodes available"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	err := client.Provision(context.Background(), ProvisionSpec{SessionID: uuid.New()})

	require.Error(t, err)
	// The orchestrator's own message is preserved for diagnosability.
	assert.Contains(t, err.Error(), "no nodes available")
}

func TestHTTPClient_Teardown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/sessions/pod-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	assert.NoError(t, client.Teardown(context.Background(), "pod-1"))
}

func TestHTTPClient_TeardownRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	err := client.Teardown(context.Background(), "pod-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code 500")
}
