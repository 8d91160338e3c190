package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flowly-io/flowly/engine"
	"github.com/flowly-io/flowly/logger"
	"github.com/flowly-io/flowly/model"
	"go.uber.org/zap"
)

type InvocationError struct {
	EndpointId string
	Status     int
	Message    string
}

func (e InvocationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("endpoint %s returned status %d: %s", e.EndpointId, e.Status, e.Message)
	}
	return fmt.Sprintf("error invoking endpoint %s: %s", e.EndpointId, e.Message)
}

type EndpointStore interface {
	GetEndpoint(id string) (*model.Endpoint, error)
}

var _ engine.Invoker = new(HttpInvoker)

// HttpInvoker calls the endpoint referenced by a step. Path parameters are
// substituted into the endpoint path, header parameters become headers,
// everything else goes to the query string for bodyless methods and to a
// json body otherwise. Single attempt, no retry.
type HttpInvoker struct {
	endpoints EndpointStore
	baseUrl   string
	client    *http.Client
}

func NewHttpInvoker(endpoints EndpointStore, baseUrl string, timeout time.Duration) *HttpInvoker {
	return &HttpInvoker{
		endpoints: endpoints,
		baseUrl:   strings.TrimSuffix(baseUrl, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (inv *HttpInvoker) Invoke(ctx context.Context, endpointId string, params map[string]any) (*engine.InvocationResult, error) {
	endpoint, err := inv.endpoints.GetEndpoint(endpointId)
	if err != nil {
		return nil, InvocationError{EndpointId: endpointId, Message: "endpoint not registered"}
	}

	remaining := make(map[string]any, len(params))
	for k, v := range params {
		remaining[k] = v
	}

	path := endpoint.Path
	headers := make(map[string]string)
	for _, paramDef := range endpoint.Parameters {
		value, ok := remaining[paramDef.Name]
		if !ok {
			continue
		}
		switch paramDef.In {
		case "path":
			path = strings.ReplaceAll(path, "{"+paramDef.Name+"}", url.PathEscape(fmt.Sprintf("%v", value)))
			delete(remaining, paramDef.Name)
		case "header":
			headers[paramDef.Name] = fmt.Sprintf("%v", value)
			delete(remaining, paramDef.Name)
		}
	}

	method := strings.ToUpper(endpoint.Method)
	requestUrl := inv.baseUrl + path
	var body io.Reader
	if bodyless(method) {
		if len(remaining) > 0 {
			query := url.Values{}
			for k, v := range remaining {
				query.Set(k, fmt.Sprintf("%v", v))
			}
			requestUrl = requestUrl + "?" + query.Encode()
		}
	} else {
		data, err := json.Marshal(remaining)
		if err != nil {
			return nil, InvocationError{EndpointId: endpointId, Message: err.Error()}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestUrl, body)
	if err != nil {
		return nil, InvocationError{EndpointId: endpointId, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logger.Debug("invoking endpoint", zap.String("endpoint", endpointId), zap.String("method", method), zap.String("url", requestUrl))
	resp, err := inv.client.Do(req)
	if err != nil {
		return nil, InvocationError{EndpointId: endpointId, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, InvocationError{EndpointId: endpointId, Message: err.Error()}
	}
	var data any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			data = string(raw)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(raw))
		if len(message) == 0 {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, InvocationError{EndpointId: endpointId, Status: resp.StatusCode, Message: message}
	}

	return &engine.InvocationResult{
		Status: resp.StatusCode,
		Data:   data,
	}, nil
}

func bodyless(method string) bool {
	switch method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		return true
	}
	return false
}
