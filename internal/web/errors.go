package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"partsearch/internal/catalog"
	"partsearch/internal/logging"
	"partsearch/internal/reconcile"
	"partsearch/internal/sheet"
)

var (
	errNoUpload      = errors.New("no active upload")
	errUnknownRecord = errors.New("catalog record not found")
	errUnknownRun    = errors.New("run not found")
	errBadRequest    = errors.New("bad request")
)

// UserMessage is what a user sees for a failed operation.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// MapError turns an operation error into the blocking message shown to the user.
func MapError(err error) UserMessage {
	var notFound *reconcile.ColumnNotFoundError
	switch {
	case errors.Is(err, catalog.ErrLoad):
		return UserMessage{
			Message: "Error loading parts database.",
			Action:  "Check the catalog source and reload the catalog",
			Code:    "CAT001",
		}
	case errors.Is(err, reconcile.ErrEmptyInput):
		return UserMessage{
			Message: "The uploaded file appears to be empty.",
			Action:  "Upload a file with a header row and at least one part",
			Code:    "FILE001",
		}
	case errors.As(err, &notFound) && notFound.Kind == reconcile.ColumnPrimary:
		return UserMessage{
			Message: "Could not find the primary part number column in uploaded file.",
			Action:  "Add a header containing both PRIMARY and PART",
			Code:    "COL001",
		}
	case errors.As(err, &notFound) && notFound.Kind == reconcile.ColumnTariff:
		return UserMessage{
			Message: "Could not find the tariff number column in uploaded file.",
			Action:  "Add a header containing both TARIFF and NUM",
			Code:    "COL002",
		}
	case errors.Is(err, sheet.ErrUnreadable):
		return UserMessage{
			Message: "Error processing file. Please make sure it's a valid Excel file.",
			Action:  "Save the file as .xlsx or .csv and upload it again",
			Code:    "FILE002",
		}
	case errors.Is(err, errNoUpload):
		return UserMessage{
			Message: "No file has been uploaded.",
			Action:  "Upload a part list first",
			Code:    "UPL001",
		}
	case errors.Is(err, errUnknownRecord):
		return UserMessage{
			Message: "The selected catalog record no longer exists.",
			Action:  "Search again and pick another record",
			Code:    "CAT002",
		}
	case errors.Is(err, errUnknownRun):
		return UserMessage{
			Message: "No reconciliation run with this id was recorded.",
			Action:  "Pick a run from the run history",
			Code:    "RUN001",
		}
	case errors.Is(err, errBadRequest):
		return UserMessage{
			Message: "The request was not understood.",
			Action:  "Check the request parameters",
			Code:    "REQ001",
		}
	default:
		return UserMessage{
			Message: "An unexpected error occurred.",
			Action:  "Please try again",
			Code:    "ERR000",
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrLoad):
		return http.StatusServiceUnavailable
	case errors.Is(err, reconcile.ErrEmptyInput), errors.Is(err, reconcile.ErrColumnNotFound), errors.Is(err, sheet.ErrUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNoUpload):
		return http.StatusConflict
	case errors.Is(err, errUnknownRecord), errors.Is(err, errUnknownRun):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error and writes the mapped user message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := MapError(err)
	status := statusFor(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
