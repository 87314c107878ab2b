package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"code":    200,
			"data":    map[string]string{"greeting": "hello"},
		})
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	resp, err := client.Get(context.Background(), "/anything", nil)
	require.NoError(t, err)
	require.NoError(t, resp.Err())

	var payload struct {
		Greeting string `json:"greeting"`
	}
	require.NoError(t, resp.Decode(&payload))
	assert.Equal(t, "hello", payload.Greeting)
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"code":    400,
			"message": "invalid credentials",
		})
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	resp, err := client.Post(context.Background(), "/auth/login", map[string]string{"email": "x"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "invalid credentials", statusErr.Error())
	// The envelope still travels alongside the error.
	require.NotNil(t, resp)
	assert.False(t, resp.Success)
}

func TestStatusErrorOnNonEnvelopeBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	_, err := client.Get(context.Background(), "/inbox", nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestQueryParamsForwarded(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	query := url.Values{}
	query.Set("platform", "instagram")
	query.Set("status", "unread")
	_, err := client.Get(context.Background(), "/inbox", query)
	require.NoError(t, err)

	assert.Equal(t, "instagram", gotQuery.Get("platform"))
	assert.Equal(t, "unread", gotQuery.Get("status"))
}

func TestPostMultipart(t *testing.T) {
	var gotTitle, gotFileName, gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mediaType)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTitle = r.FormValue("title")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFileName = header.Filename
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		gotContent = string(content)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	resp, err := client.PostMultipart(context.Background(), "/knowledge-base/pdf",
		map[string]string{"title": "FAQ"}, "file", "faq.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	require.NoError(t, resp.Err())

	assert.Equal(t, "FAQ", gotTitle)
	assert.Equal(t, "faq.pdf", gotFileName)
	assert.Equal(t, "pdf-bytes", gotContent)
}

func TestBaseURLTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	client := New(server.URL+"/", 5*time.Second, nil)
	_, err := client.Get(context.Background(), "/inbox", nil)
	require.NoError(t, err)
	assert.Equal(t, "/inbox", gotPath)
}
