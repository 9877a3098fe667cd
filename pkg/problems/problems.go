package problems

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrAlreadyExists = fmt.Errorf("already exists")
var ErrInternal = fmt.Errorf("internal error")
var ErrNotFound = fmt.Errorf("not found")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrBadResponse = fmt.Errorf("bad response")
var ErrRequest = fmt.Errorf("request failed")
var ErrInvalidRequest = fmt.Errorf("invalid request")
var ErrUnknownTenant = fmt.Errorf("unknown tenant")
var ErrUnknownCollection = fmt.Errorf("unknown collection")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewAlreadyExistsError(msg string) error {
	return &myError{msg: msg, target: ErrAlreadyExists}
}

func NewBadRequestError(msg string) error {
	return &myError{msg: msg, target: ErrBadRequest}
}

func NewInvalidRequestError(msg string) error {
	return &myError{msg: msg, target: ErrInvalidRequest}
}

func NewNotFoundError(msg string) error {
	return &myError{msg: msg, target: ErrNotFound}
}

func NewUnknownTenantError(msg string) error {
	return &myError{msg: msg, target: ErrUnknownTenant}
}

func NewUnknownCollectionError(msg string) error {
	return &myError{msg: msg, target: ErrUnknownCollection}
}

func NewInternalError(msg string) error {
	return &myError{msg: msg, target: ErrInternal}
}

const (
	//ProblemReportContentType as required by https://tools.ietf.org/html/rfc7807
	ProblemReportContentType string = "application/problem+json"

	typePrefix string = "https://diwise.io/tenant-store/problems/"
)

const (
	TypeAlreadyExists     string = typePrefix + "AlreadyExists"
	TypeBadRequestData    string = typePrefix + "BadRequestData"
	TypeInvalidRequest    string = typePrefix + "InvalidRequest"
	TypeInternalError     string = typePrefix + "InternalError"
	TypeNotFound          string = typePrefix + "ResourceNotFound"
	TypeUnknownTenant     string = typePrefix + "NonexistentTenant"
	TypeUnknownCollection string = typePrefix + "NonexistentCollection"
)

// ProblemDetails stores details about a certain problem according to RFC7807
// See https://tools.ietf.org/html/rfc7807
type ProblemDetails struct {
	typ     string
	title   string
	detail  string
	code    int
	traceID string
}

func NewAlreadyExists(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{TypeAlreadyExists, "Already Exists", detail, http.StatusConflict, traceID}
}

func NewBadRequestData(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{TypeBadRequestData, "Bad Request Data", detail, http.StatusBadRequest, traceID}
}

func NewInvalidRequest(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{TypeInvalidRequest, "Invalid Request", detail, http.StatusBadRequest, traceID}
}

func NewInternalErrorReport(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{TypeInternalError, "Internal Error", detail, http.StatusInternalServerError, traceID}
}

func NewNotFound(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{TypeNotFound, "Not Found", detail, http.StatusNotFound, traceID}
}

func NewUnknownTenant(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{TypeUnknownTenant, "Non Existent Tenant", detail, http.StatusNotFound, traceID}
}

func NewUnknownCollection(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{TypeUnknownCollection, "Non Existent Collection", detail, http.StatusNotFound, traceID}
}

func ReportNewAlreadyExistsError(w http.ResponseWriter, detail, traceID string) {
	NewAlreadyExists(detail, traceID).WriteResponse(w)
}

func ReportNewBadRequestData(w http.ResponseWriter, detail, traceID string) {
	NewBadRequestData(detail, traceID).WriteResponse(w)
}

func ReportNewInvalidRequest(w http.ResponseWriter, detail, traceID string) {
	NewInvalidRequest(detail, traceID).WriteResponse(w)
}

func ReportNewInternalError(w http.ResponseWriter, detail, traceID string) {
	NewInternalErrorReport(detail, traceID).WriteResponse(w)
}

func ReportNotFoundError(w http.ResponseWriter, detail, traceID string) {
	NewNotFound(detail, traceID).WriteResponse(w)
}

func ReportUnknownTenantError(w http.ResponseWriter, detail, traceID string) {
	NewUnknownTenant(detail, traceID).WriteResponse(w)
}

func ReportUnknownCollectionError(w http.ResponseWriter, detail, traceID string) {
	NewUnknownCollection(detail, traceID).WriteResponse(w)
}

// ReportError picks the problem report that matches the kind of err
func ReportError(w http.ResponseWriter, err error, traceID string) {
	detail := err.Error()

	switch {
	case errors.Is(err, ErrUnknownTenant):
		ReportUnknownTenantError(w, detail, traceID)
	case errors.Is(err, ErrUnknownCollection):
		ReportUnknownCollectionError(w, detail, traceID)
	case errors.Is(err, ErrNotFound):
		ReportNotFoundError(w, detail, traceID)
	case errors.Is(err, ErrAlreadyExists):
		ReportNewAlreadyExistsError(w, detail, traceID)
	case errors.Is(err, ErrBadRequest):
		ReportNewBadRequestData(w, detail, traceID)
	case errors.Is(err, ErrInvalidRequest):
		ReportNewInvalidRequest(w, detail, traceID)
	default:
		ReportNewInternalError(w, detail, traceID)
	}
}

func (p *ProblemDetails) ContentType() string { return ProblemReportContentType }
func (p *ProblemDetails) Type() string        { return p.typ }
func (p *ProblemDetails) Title() string       { return p.title }
func (p *ProblemDetails) Detail() string      { return p.detail }

func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	var traceID *string

	if p.traceID != "" {
		traceID = &p.traceID
	}

	return json.Marshal(struct {
		Type    string  `json:"type"`
		Title   string  `json:"title"`
		Detail  string  `json:"detail"`
		TraceID *string `json:"traceID,omitempty"`
	}{
		Type:    p.typ,
		Title:   p.title,
		Detail:  p.detail,
		TraceID: traceID,
	})
}

// ResponseCode returns the HTTP response code to be used when returning a specific problem
func (p *ProblemDetails) ResponseCode() int {
	if p.code != 0 {
		return p.code
	}

	return http.StatusBadRequest
}

func (p *ProblemDetails) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", p.ContentType())
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.ResponseCode())

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
}

// NewErrorFromProblemReport turns a problem report received from the API
// back into an error that matches the sentinels of this package
func NewErrorFromProblemReport(code int, contentType string, body []byte) error {
	report := &struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}{}

	err := json.Unmarshal(body, report)
	if err != nil {
		return fmt.Errorf("%w: failed to process problem report (%d, %s): %s", ErrBadResponse, code, contentType, err.Error())
	}

	switch report.Type {
	case TypeUnknownTenant:
		return NewUnknownTenantError(report.Detail)
	case TypeUnknownCollection:
		return NewUnknownCollectionError(report.Detail)
	case TypeNotFound:
		return NewNotFoundError(report.Detail)
	case TypeBadRequestData:
		return NewBadRequestError(report.Detail)
	case TypeInvalidRequest:
		return NewInvalidRequestError(report.Detail)
	case TypeAlreadyExists:
		return NewAlreadyExistsError(report.Detail)
	}

	if code == http.StatusNotFound {
		return NewNotFoundError(report.Detail)
	}

	return NewInternalError(
		fmt.Sprintf("[code: %d] unknown problem report of type \"%s\" with detail \"%s\" received",
			code, report.Type, report.Detail,
		),
	)
}
