package json

import (
	"net/http"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, err error, message string) {
	Write(w, status, errorResponse{
		Error:   err.Error(),
		Message: message,
	})
}

func WriteValidationError(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusBadRequest, err, "Request validation failed")
}

func WriteInternalError(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusInternalServerError, err, "Something went wrong")
}

func WriteNotFound(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusNotFound, err, "Resource not found")
}
