package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrSubmitInProgress  = errors.New("a create request is already in flight")
	ErrSurfaceClosed     = errors.New("create surface is closed")
	ErrRetryNotAllowed   = errors.New("retry is only allowed after a failed load")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// TransportError means no response was received from the backend
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerRejection is a response with a non-success status code. Detail is
// the backend's "detail" field when the body carried one.
type ServerRejection struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *ServerRejection) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %s", e.statusLine())
}

func (e *ServerRejection) statusLine() string {
	if e.Status != "" {
		return e.Status
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("%d", e.StatusCode)
}

// MalformedResponse is a success status whose body is not the JSON we expect
type MalformedResponse struct {
	Reason string
}

func (e *MalformedResponse) Error() string {
	return "malformed backend response: " + e.Reason
}

// loadFailureMessage turns a fetch error into the text shown on the dashboard
func loadFailureMessage(err error) string {
	var rejection *ServerRejection
	var transport *TransportError
	var malformed *MalformedResponse

	switch {
	case errors.As(err, &rejection):
		if rejection.Detail != "" {
			return fmt.Sprintf("Error %d: %s", rejection.StatusCode, rejection.Detail)
		}
		return "Error " + rejection.statusLine()
	case errors.As(err, &transport):
		return "Error de conexión con el servidor: " + errorText(transport.Err)
	case errors.As(err, &malformed):
		return "Respuesta inválida del servidor: " + malformed.Reason
	default:
		return "Error al cargar los proyectos: " + err.Error()
	}
}

// createFailureMessage turns a submit error into the text shown on the form
func createFailureMessage(err error) string {
	var rejection *ServerRejection
	var transport *TransportError

	switch {
	case errors.As(err, &transport):
		return MessageCreateConnection
	case errors.As(err, &rejection) && strings.TrimSpace(rejection.Detail) != "":
		return "Error: " + rejection.Detail
	default:
		return MessageCreateGeneric
	}
}

func errorText(err error) string {
	if err == nil {
		return "sin respuesta"
	}
	return err.Error()
}
