// Package testutil holds helpers for handler and repository tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"net/url"

	"github.com/gin-gonic/gin"
)

// RequestBuilder builds and executes a test request against a gin
// engine with a fluent API.
type RequestBuilder struct {
	method  string
	path    string
	body    any
	headers map[string]string
	query   url.Values
}

func NewRequest(method, path string) *RequestBuilder {
	return &RequestBuilder{
		method:  method,
		path:    path,
		headers: make(map[string]string),
		query:   make(url.Values),
	}
}

func GET(path string) *RequestBuilder    { return NewRequest("GET", path) }
func POST(path string) *RequestBuilder   { return NewRequest("POST", path) }
func PUT(path string) *RequestBuilder    { return NewRequest("PUT", path) }
func DELETE(path string) *RequestBuilder { return NewRequest("DELETE", path) }

func (rb *RequestBuilder) WithJSON(body any) *RequestBuilder {
	rb.body = body
	return rb
}

func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

func (rb *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	rb.query.Set(key, value)
	return rb
}

func (rb *RequestBuilder) WithBearerToken(token string) *RequestBuilder {
	return rb.WithHeader("Authorization", "Bearer "+token)
}

func (rb *RequestBuilder) WithTraceID(traceID string) *RequestBuilder {
	return rb.WithHeader("X-Trace-ID", traceID)
}

// Do runs the request through engine and wraps the recorder.
func (rb *RequestBuilder) Do(engine *gin.Engine) *ResponseHelper {
	target := rb.path
	if len(rb.query) > 0 {
		target += "?" + rb.query.Encode()
	}

	var bodyReader *bytes.Reader
	if rb.body != nil {
		bodyBytes, _ := json.Marshal(rb.body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(rb.method, target, bodyReader)
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	if rb.body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return &ResponseHelper{Recorder: w}
}

// ResponseHelper wraps the response recorder with decode shortcuts.
type ResponseHelper struct {
	Recorder *httptest.ResponseRecorder
}

func (rh *ResponseHelper) Status() int {
	return rh.Recorder.Code
}

func (rh *ResponseHelper) Body() string {
	return rh.Recorder.Body.String()
}

func (rh *ResponseHelper) JSON(v any) error {
	return json.Unmarshal(rh.Recorder.Body.Bytes(), v)
}

func (rh *ResponseHelper) Header(key string) string {
	return rh.Recorder.Header().Get(key)
}
