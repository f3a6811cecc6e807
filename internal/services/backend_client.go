package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/pkg/logger"
	"github.com/alimgiray/agrocontrol/pkg/requestid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	listProjectsPath  = "/projects"
	createProjectPath = "/projects/"

	// maxErrorBody bounds how much of a rejection body is read for "detail"
	maxErrorBody = 64 << 10
)

// ProjectBackend is the external projects API as the flows see it
type ProjectBackend interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, draft models.ProjectDraft) error
}

// BackendClient talks to the projects API over HTTP
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewBackendClient creates a client for baseURL. A nil limiter disables
// outbound rate limiting.
func NewBackendClient(baseURL string, timeout time.Duration, limiter *rate.Limiter) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}
}

// ListProjects fetches every project. The slice is returned in the order
// the backend sent it.
func (c *BackendClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	resp, err := c.do(ctx, http.MethodGet, listProjectsPath, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, rejectionFrom(resp)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil, &MalformedResponse{
			Reason: fmt.Sprintf("se esperaba JSON pero se recibió %q", resp.Header.Get("Content-Type")),
		}
	}

	var projects []models.Project
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, &MalformedResponse{Reason: fmt.Sprintf("no se pudo decodificar la lista: %v", err)}
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// CreateProject posts the draft. Any 2xx is success and the body is ignored.
func (c *BackendClient) CreateProject(ctx context.Context, draft models.ProjectDraft) error {
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, createProjectPath, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejectionFrom(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *BackendClient) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	op := method + " " + path
	entry := logger.Component("backend_client").WithFields(logrus.Fields{
		"method":     method,
		"url":        c.baseURL + path,
		"request_id": requestid.From(ctx),
	})

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			entry.WithError(err).Warn("rate limiter wait aborted")
			return nil, &TransportError{Op: op, Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := requestid.From(ctx); rid != "" {
		req.Header.Set(requestid.Header, rid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		entry.WithError(err).WithField("latency", latency.String()).Warn("backend unreachable")
		return nil, &TransportError{Op: op, Err: err}
	}

	entry = entry.WithFields(logrus.Fields{"status": resp.StatusCode, "latency": latency.String()})
	if resp.StatusCode >= 400 {
		entry.Warn("backend returned error status")
	} else {
		entry.Debug("backend call completed")
	}
	return resp, nil
}

// rejectionFrom builds a ServerRejection, picking up {"detail": ...} when
// the body is JSON.
func rejectionFrom(resp *http.Response) *ServerRejection {
	rejection := &ServerRejection{StatusCode: resp.StatusCode, Status: resp.Status}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return rejection
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return rejection
	}
	rejection.Detail = detailText(payload.Detail)
	return rejection
}

// detailText accepts a plain string or a list of {"msg": ...} entries as
// produced by validation layers.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
