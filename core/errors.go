package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Closed error-code taxonomy. Backend codes mirror the remote API's failure
// shapes; SDK-local codes are raised before any network call.
const (
	ErrorCodeBadRequest        = "SDK_BAD_REQUEST"
	ErrorCodeUnauthorized      = "SDK_UNAUTHORIZED"
	ErrorCodeNotFound          = "SDK_NOT_FOUND"
	ErrorCodeRateLimited       = "SDK_RATE_LIMITED"
	ErrorCodeServerError       = "SDK_SERVER_ERROR"
	ErrorCodeServerUnavailable = "SDK_SERVER_UNAVAILABLE"
	ErrorCodeUnknownBackend    = "SDK_UNKNOWN_BACKEND_ERROR"

	ErrorCodeInvalidParams       = "SDK_INVALID_PARAMS"
	ErrorCodeNoConnectedAccount  = "SDK_NO_CONNECTED_ACCOUNT"
	ErrorCodeIntegrationNotFound = "SDK_INTEGRATION_NOT_FOUND"
	ErrorCodeAmbiguousAuthMode   = "SDK_AMBIGUOUS_AUTH_MODE"
)

// ErrorMetadata carries request context for a normalized failure. Zero-valued
// fields mean the transport did not expose that piece of context.
type ErrorMetadata struct {
	FullURL    string
	Method     string
	StatusCode int
	RequestID  string
}

// SdkError is the single failure shape surfaced by the SDK. It unwraps to a
// go-errors envelope so callers keep category, HTTP code, and text-code
// matching.
type SdkError struct {
	Code        string
	Message     string
	Description string
	PossibleFix string
	Metadata    ErrorMetadata

	cause *goerrors.Error
}

func (e *SdkError) Error() string {
	if e == nil {
		return ""
	}
	parts := []string{e.Message}
	if strings.TrimSpace(e.Description) != "" {
		parts = append(parts, e.Description)
	}
	if strings.TrimSpace(e.PossibleFix) != "" {
		parts = append(parts, e.PossibleFix)
	}
	return strings.Join(parts, " :: ")
}

func (e *SdkError) Unwrap() error {
	if e == nil || e.cause == nil {
		return nil
	}
	return e.cause
}

// UpstreamError is the decoded `{error: {type, name, message}}` body the
// backend attaches to failed responses.
type UpstreamError struct {
	Type    string
	Name    string
	Message string
}

// TransportError is the raw failure produced by the backend client when a
// request does not yield a usable response. It never escapes the SDK surface:
// NormalizeError converts it into an SdkError.
type TransportError struct {
	Method     string
	BaseURL    string
	Path       string
	StatusCode int
	RequestID  string
	Upstream   *UpstreamError
	Err        error
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("transport: %s %s", strings.ToUpper(strings.TrimSpace(e.Method)), e.FullURL())
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s returned status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *TransportError) FullURL() string {
	if e == nil {
		return ""
	}
	base := strings.TrimRight(strings.TrimSpace(e.BaseURL), "/")
	path := strings.TrimSpace(e.Path)
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

type errorTemplate struct {
	label       string
	description string
	possibleFix string
	category    goerrors.Category
	httpStatus  int
}

// errorTemplates covers the full code enumeration, including the unknown
// bucket. Totality is asserted by tests.
var errorTemplates = map[string]errorTemplate{
	ErrorCodeBadRequest: {
		label:       "BadRequestError",
		description: "The backend rejected the request payload",
		possibleFix: "Validate the request parameters against the action schema and retry",
		category:    goerrors.CategoryBadInput,
		httpStatus:  http.StatusBadRequest,
	},
	ErrorCodeUnauthorized: {
		label:       "UnauthorizedError",
		description: "The API key is missing or not authorized for this resource",
		possibleFix: "Check that the API key is set and has access to the requested app",
		category:    goerrors.CategoryAuth,
		httpStatus:  http.StatusUnauthorized,
	},
	ErrorCodeNotFound: {
		label:       "NotFoundError",
		description: "The requested resource does not exist on the backend",
		possibleFix: "Verify the action, app, or connection identifier and retry",
		category:    goerrors.CategoryNotFound,
		httpStatus:  http.StatusNotFound,
	},
	ErrorCodeRateLimited: {
		label:       "RateLimitError",
		description: "The backend throttled the request",
		possibleFix: "Reduce the request rate or retry after the limit window resets",
		category:    goerrors.CategoryRateLimit,
		httpStatus:  http.StatusTooManyRequests,
	},
	ErrorCodeServerError: {
		label:       "ServerError",
		description: "The backend failed while processing the request",
		possibleFix: "Retry later; if the problem persists contact support",
		category:    goerrors.CategoryExternal,
		httpStatus:  http.StatusInternalServerError,
	},
	ErrorCodeServerUnavailable: {
		label:       "ServiceUnavailableError",
		description: "The backend is temporarily unable to serve requests",
		possibleFix: "Retry after a short delay",
		category:    goerrors.CategoryExternal,
		httpStatus:  http.StatusServiceUnavailable,
	},
	ErrorCodeUnknownBackend: {
		label:       "UnknownBackendError",
		description: "The backend returned an unexpected response",
		possibleFix: "Retry the request; if the problem persists contact support",
		category:    goerrors.CategoryExternal,
		httpStatus:  http.StatusInternalServerError,
	},
	ErrorCodeInvalidParams: {
		label:       "InvalidParamsError",
		description: "The request was rejected before reaching the backend",
		possibleFix: "Fix the listed parameters and call again",
		category:    goerrors.CategoryValidation,
		httpStatus:  http.StatusBadRequest,
	},
	ErrorCodeNoConnectedAccount: {
		label:       "NoConnectedAccountError",
		description: "No connected account matched the entity and app",
		possibleFix: "Initiate a connection for the entity before executing the action",
		category:    goerrors.CategoryNotFound,
		httpStatus:  http.StatusNotFound,
	},
	ErrorCodeIntegrationNotFound: {
		label:       "IntegrationNotFoundError",
		description: "The referenced integration does not exist",
		possibleFix: "Create the integration first, or omit the integration id to provision one automatically",
		category:    goerrors.CategoryNotFound,
		httpStatus:  http.StatusNotFound,
	},
	ErrorCodeAmbiguousAuthMode: {
		label:       "AmbiguousAuthModeError",
		description: "The app supports multiple auth modes and none was selected",
		possibleFix: "Pass an explicit auth mode when initiating the connection",
		category:    goerrors.CategoryBadInput,
		httpStatus:  http.StatusBadRequest,
	},
}

var statusCodeTable = map[int]string{
	http.StatusBadRequest:          ErrorCodeBadRequest,
	http.StatusUnauthorized:        ErrorCodeUnauthorized,
	http.StatusNotFound:            ErrorCodeNotFound,
	http.StatusTooManyRequests:     ErrorCodeRateLimited,
	http.StatusInternalServerError: ErrorCodeServerError,
	http.StatusServiceUnavailable:  ErrorCodeServerUnavailable,
}

// backendErrorCodes prefer the upstream-provided message as the description;
// every other code keeps its predefined text.
var backendErrorCodes = map[string]struct{}{
	ErrorCodeBadRequest:        {},
	ErrorCodeUnauthorized:      {},
	ErrorCodeNotFound:          {},
	ErrorCodeRateLimited:       {},
	ErrorCodeServerError:       {},
	ErrorCodeServerUnavailable: {},
	ErrorCodeUnknownBackend:    {},
}

// NormalizeError is total: every non-nil input yields a well-formed SdkError.
// Already-normalized errors pass through unchanged.
func NormalizeError(err error) *SdkError {
	if err == nil {
		return nil
	}
	var sdkErr *SdkError
	if errors.As(err, &sdkErr) {
		return sdkErr
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return normalizeTransportError(transportErr)
	}
	template := errorTemplates[ErrorCodeUnknownBackend]
	return newSdkError(ErrorCodeUnknownBackend, template.label, err.Error(), template.possibleFix, ErrorMetadata{}, err)
}

func normalizeTransportError(terr *TransportError) *SdkError {
	code := ErrorCodeUnknownBackend
	if mapped, ok := statusCodeTable[terr.StatusCode]; ok {
		code = mapped
	}
	template := errorTemplates[code]

	label := template.label
	upstreamType := ""
	upstreamMessage := ""
	if terr.Upstream != nil {
		if name := strings.TrimSpace(terr.Upstream.Name); name != "" {
			label = name
		}
		upstreamType = strings.TrimSpace(terr.Upstream.Type)
		upstreamMessage = strings.TrimSpace(terr.Upstream.Message)
	}

	fullURL := terr.FullURL()
	message := label
	if upstreamType != "" {
		message = fmt.Sprintf("%s (%s)", label, upstreamType)
	}
	if fullURL != "" {
		message = fmt.Sprintf("%s at %s", message, fullURL)
	}

	description := template.description
	possibleFix := template.possibleFix
	if _, backend := backendErrorCodes[code]; backend {
		if upstreamMessage != "" {
			description = upstreamMessage
		}
	} else {
		if description == "" {
			description = strings.TrimSpace(terr.Error())
		}
		if possibleFix == "" {
			possibleFix = errorTemplates[ErrorCodeUnknownBackend].possibleFix
		}
	}

	metadata := ErrorMetadata{
		FullURL:    fullURL,
		Method:     strings.ToUpper(strings.TrimSpace(terr.Method)),
		StatusCode: terr.StatusCode,
		RequestID:  strings.TrimSpace(terr.RequestID),
	}
	return newSdkError(code, message, description, possibleFix, metadata, terr)
}

func newSdkError(code, message, description, possibleFix string, metadata ErrorMetadata, cause error) *SdkError {
	template, ok := errorTemplates[code]
	if !ok {
		template = errorTemplates[ErrorCodeUnknownBackend]
		code = ErrorCodeUnknownBackend
	}

	var rich *goerrors.Error
	if cause != nil {
		rich = goerrors.Wrap(cause, template.category, message)
	} else {
		rich = goerrors.New(message, template.category)
	}
	rich = rich.WithTextCode(code)
	status := metadata.StatusCode
	if status == 0 {
		status = template.httpStatus
	}
	rich = rich.WithCode(status)

	fields := map[string]any{}
	if metadata.FullURL != "" {
		fields["url"] = metadata.FullURL
	}
	if metadata.Method != "" {
		fields["method"] = metadata.Method
	}
	if metadata.StatusCode != 0 {
		fields["status_code"] = metadata.StatusCode
	}
	if metadata.RequestID != "" {
		fields["request_id"] = metadata.RequestID
	}
	if len(fields) > 0 {
		rich = rich.WithMetadata(fields)
	}

	return &SdkError{
		Code:        code,
		Message:     message,
		Description: description,
		PossibleFix: possibleFix,
		Metadata:    metadata,
		cause:       rich,
	}
}

// ErrorCode extracts the taxonomy code from any error chain, or "" when the
// chain holds no SdkError.
func ErrorCode(err error) string {
	var sdkErr *SdkError
	if errors.As(err, &sdkErr) {
		return sdkErr.Code
	}
	return ""
}

func NewInvalidParamsError(message string) *SdkError {
	template := errorTemplates[ErrorCodeInvalidParams]
	if strings.TrimSpace(message) == "" {
		message = template.label
	}
	return newSdkError(ErrorCodeInvalidParams, message, template.description, template.possibleFix, ErrorMetadata{}, nil)
}

func NewNoConnectedAccountError(appName, entityID string) *SdkError {
	template := errorTemplates[ErrorCodeNoConnectedAccount]
	message := fmt.Sprintf("No connected account found for app `%s` and entity `%s`", appName, entityID)
	fix := fmt.Sprintf("Initiate a connection for app `%s` on entity `%s` before executing actions", appName, entityID)
	return newSdkError(ErrorCodeNoConnectedAccount, message, template.description, fix, ErrorMetadata{}, nil)
}

func NewIntegrationNotFoundError(integrationID string) *SdkError {
	template := errorTemplates[ErrorCodeIntegrationNotFound]
	message := fmt.Sprintf("Integration `%s` does not exist", integrationID)
	return newSdkError(ErrorCodeIntegrationNotFound, message, template.description, template.possibleFix, ErrorMetadata{}, nil)
}

func NewAmbiguousAuthModeError(appName string) *SdkError {
	template := errorTemplates[ErrorCodeAmbiguousAuthMode]
	message := fmt.Sprintf("App `%s` requires an explicit auth mode", appName)
	return newSdkError(ErrorCodeAmbiguousAuthMode, message, template.description, template.possibleFix, ErrorMetadata{}, nil)
}

func newDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorCodeUnknownBackend)
}
