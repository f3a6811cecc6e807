package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/pkg/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(url string) *BackendClient {
	return NewBackendClient(url, 2*time.Second, nil)
}

func TestListProjectsKeepsOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects", r.URL.Path)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`[
			{"id":"3","name":"C","location":"L3","status":"finalizado","area":"1 ha"},
			{"id":"1","name":"A","location":"L1","status":"activo","area":"2 ha"},
			{"id":"1","name":"A","location":"L1","status":"activo","area":"2 ha"}
		]`))
	}))
	defer server.Close()

	projects, err := newTestClient(server.URL).ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 3, "duplicates are kept")
	assert.Equal(t, models.ProjectID("3"), projects[0].ID)
	assert.Equal(t, models.ProjectID("1"), projects[1].ID)
	assert.Equal(t, models.ProjectStatusFinished, projects[0].Status)
}

func TestListProjectsNullIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	projects, err := newTestClient(server.URL).ListProjects(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestListProjectsFailures(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		contentType string
		body        string
		check       func(t *testing.T, err error)
	}{
		{
			name:        "server rejection with detail",
			status:      http.StatusInternalServerError,
			contentType: "application/json",
			body:        `{"detail":"DB unavailable"}`,
			check: func(t *testing.T, err error) {
				var rejection *ServerRejection
				require.ErrorAs(t, err, &rejection)
				assert.Equal(t, 500, rejection.StatusCode)
				assert.Equal(t, "DB unavailable", rejection.Detail)
			},
		},
		{
			name:        "server rejection without body",
			status:      http.StatusBadGateway,
			contentType: "text/plain",
			check: func(t *testing.T, err error) {
				var rejection *ServerRejection
				require.ErrorAs(t, err, &rejection)
				assert.Empty(t, rejection.Detail)
				assert.Contains(t, rejection.Error(), "502")
			},
		},
		{
			name:        "html with 200",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        `<html>oops</html>`,
			check: func(t *testing.T, err error) {
				var malformed *MalformedResponse
				require.ErrorAs(t, err, &malformed)
				assert.Contains(t, malformed.Reason, "text/html")
			},
		},
		{
			name:        "invalid json",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"not":"a list"}`,
			check: func(t *testing.T, err error) {
				var malformed *MalformedResponse
				require.ErrorAs(t, err, &malformed)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			projects, err := newTestClient(server.URL).ListProjects(context.Background())
			assert.Nil(t, projects)
			tc.check(t, err)
		})
	}
}

func TestListProjectsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(url).ListProjects(context.Background())
	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, "GET /projects", transport.Op)
}

func TestCreateProjectSendsDraft(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"9"}`))
	}))
	defer server.Close()

	draft := models.ProjectDraft{
		Name: "Yuca Cayetano", Location: "Lote A", Status: models.ProjectStatusActive,
		PlantingDate: "2025-03-15", Area: "2.5 ha",
	}
	require.NoError(t, newTestClient(server.URL).CreateProject(context.Background(), draft))

	assert.Equal(t, map[string]string{
		"name": "Yuca Cayetano", "location": "Lote A", "status": "activo",
		"planting_date": "2025-03-15", "harvest_date": "", "area": "2.5 ha",
	}, got)
}

func TestCreateProjectRejection(t *testing.T) {
	testCases := []struct {
		name   string
		body   string
		detail string
	}{
		{name: "string detail", body: `{"detail":"Nombre duplicado"}`, detail: "Nombre duplicado"},
		{name: "validation list", body: `{"detail":[{"msg":"field required"},{"msg":"bad area"}]}`, detail: "field required; bad area"},
		{name: "no detail", body: `{"error":"x"}`, detail: ""},
		{name: "not json", body: `Internal Server Error`, detail: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			err := newTestClient(server.URL).CreateProject(context.Background(), models.NewProjectDraft())
			var rejection *ServerRejection
			require.ErrorAs(t, err, &rejection)
			assert.Equal(t, http.StatusUnprocessableEntity, rejection.StatusCode)
			assert.Equal(t, tc.detail, rejection.Detail)
		})
	}
}

func TestBackendClientRateLimited(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client := NewBackendClient(server.URL, time.Second, limiter)

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.ListProjects(ctx)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "the limited call never reached the backend")
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON("application/json"))
	assert.True(t, isJSON("application/json; charset=utf-8"))
	assert.True(t, isJSON("application/problem+json"))
	assert.False(t, isJSON("text/html"))
	assert.False(t, isJSON(""))
}

func TestRequestIDForwarded(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get(requestid.Header))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	ctx := requestid.With(context.Background(), "rid-42")
	require.NoError(t, newTestClient(server.URL).CreateProject(ctx, models.NewProjectDraft()))
	assert.Equal(t, "rid-42", got.Load())
}
