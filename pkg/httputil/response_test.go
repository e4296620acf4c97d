package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseJSON(t *testing.T) {
	// null status ok
	handler := func(w http.ResponseWriter, r *http.Request) {
		ResponseJSON(nil, http.StatusOK, w)
	}
	req := httptest.NewRequest("GET", "http://example.com/foo", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, []byte("null"), body)
	assert.Equal(t, http.Header{"Content-Type": []string{"application/json"}}, w.Header())
	assert.Equal(t, 200, w.Code)

	// interface status 500
	handler = func(w http.ResponseWriter, r *http.Request) {
		ResponseError("Not OK", http.StatusInternalServerError, w)
	}
	w = httptest.NewRecorder()
	handler(w, req)
	resp = w.Result()
	body, _ = io.ReadAll(resp.Body)

	assert.Equal(t, []byte(`{"message":"Not OK"}`), body)
	assert.Equal(t, http.Header{"Content-Type": []string{"application/json"}}, w.Header())
	assert.Equal(t, 500, w.Code)
}

func TestResponseJSON_MarshalFailure(t *testing.T) {
	w := httptest.NewRecorder()
	err := ResponseJSON(make(chan int), http.StatusOK, w)

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ResponseJSON: Failed to response")
}

func TestPostJSON(t *testing.T) {
	var gotMethod, gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("ignored"))
	}))
	defer server.Close()

	status, err := PostJSON(context.Background(), server.Client(), server.URL, []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, `{"a":1}`, gotBody)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestPostJSON_SingleAttemptOnError(t *testing.T) {
	calls := 0
	ioErr := errors.New("connection reset by peer")
	client := doerFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, ioErr
	})

	_, err := PostJSON(context.Background(), client, "http://example.invalid/report", []byte(`{}`))
	assert.ErrorIs(t, err, ioErr)
	assert.Equal(t, 1, calls)
}

func TestPostJSON_BadURL(t *testing.T) {
	_, err := PostJSON(context.Background(), http.DefaultClient, "://bad", nil)
	assert.Error(t, err)
}

func TestIsSuccess(t *testing.T) {
	assert.False(t, IsSuccess(199))
	assert.True(t, IsSuccess(200))
	assert.True(t, IsSuccess(204))
	assert.False(t, IsSuccess(300))
	assert.False(t, IsSuccess(500))
}

func TestHTTPStatusError(t *testing.T) {
	assert.Equal(t, "non-success status: 502", HTTPStatusError{StatusCode: 502}.Error())
}

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(strings.NewReader(`{"name":"x"}`), &target))
	assert.Equal(t, "x", target.Name)

	err := DecodeJSON(strings.NewReader(`{"name":"x","extra":1}`), &target)
	assert.Error(t, err)

	assert.NoError(t, DecodeJSON(strings.NewReader(`garbage`), nil))
}
