package apiclient

import (
	"net/http"

	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/logger"
	"github.com/Mohd-umair/repmeup-frontend/internal/storage"
)

// Interceptor wraps a RoundTripper with cross-cutting behavior. Interceptors
// compose into an explicit chain; there is exactly one entry point for every
// outgoing request.
type Interceptor func(http.RoundTripper) http.RoundTripper

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain composes interceptors around base. The first interceptor is the
// outermost: it sees the request first and the response last.
func Chain(base http.RoundTripper, interceptors ...Interceptor) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(interceptors) - 1; i >= 0; i-- {
		base = interceptors[i](base)
	}
	return base
}

// AuthInterceptor attaches the bearer token from the store to every request
// and, on a 401 response, clears the persisted session and fires
// onUnauthorized before re-surfacing the response unchanged. This is the
// single enforcement point for session expiry, regardless of which component
// issued the call.
func AuthInterceptor(store storage.Store, onUnauthorized func()) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if token := store.Token(); token != "" {
				req = req.Clone(req.Context())
				req.Header.Set("Authorization", "Bearer "+token)
			}

			resp, err := next.RoundTrip(req)
			if err != nil {
				return nil, err
			}

			if resp.StatusCode == http.StatusUnauthorized {
				_ = store.ClearAll()
				if onUnauthorized != nil {
					onUnauthorized()
				}
			}
			return resp, nil
		})
	}
}

// LoggingInterceptor records every request's method, path and status.
func LoggingInterceptor(log logger.ILogger) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			details := map[string]interface{}{
				"method": req.Method,
				"path":   req.URL.Path,
			}
			if err != nil {
				details["error"] = err.Error()
				log.Error("ApiClient", "Request failed", details)
				return nil, err
			}
			details["status"] = resp.StatusCode
			log.Debug("ApiClient", "Request completed", details)
			return resp, nil
		})
	}
}
