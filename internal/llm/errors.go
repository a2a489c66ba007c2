package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

// ErrMissingAPIKey is returned when a client is created without credentials.
var ErrMissingAPIKey = errors.New("API key is required")

// ProviderError represents a failed call to the model provider
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsFatal reports whether err means no further model or search call can succeed:
// missing or rejected credentials, or the provider being unavailable.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingAPIKey) {
		return true
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if fatalHTTPCode(apiErr.HTTPCode()) {
			return true
		}
		if st := apiErr.GRPCStatus(); st != nil {
			switch st.Code() {
			case codes.Unauthenticated, codes.PermissionDenied, codes.Unavailable:
				return true
			}
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return fatalHTTPCode(gErr.Code)
	}

	return false
}

func fatalHTTPCode(code int) bool {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusServiceUnavailable:
		return true
	}
	return false
}
