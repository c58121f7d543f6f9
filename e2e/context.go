// Package e2e drives a running recovery service over HTTP with godog
// scenarios. Start the server with SEED_DEMO=true and
// TRUSTED_PROXIES=127.0.0.1,::1 (scenarios pick their client address through
// X-Forwarded-For) and point E2E_BASE_URL at it.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"
)

// TestContext holds per-scenario HTTP state.
type TestContext struct {
	BaseURL    string
	HTTPClient *http.Client

	clientIP     string
	lastStatus   int
	lastBody     []byte
	lastResponse map[string]any
	remembered   map[string]any
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset gives each scenario its own client address so rate limits do not
// leak between scenarios.
func (tc *TestContext) Reset() {
	tc.clientIP = fmt.Sprintf("198.51.100.%d", rand.IntN(250)+1)
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastResponse = nil
	tc.remembered = map[string]any{}
}

func (tc *TestContext) SetClientIP(ip string) {
	tc.clientIP = ip
}

func (tc *TestContext) POST(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req, nil)
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return tc.do(req, headers)
}

func (tc *TestContext) do(req *http.Request, headers map[string]string) error {
	req.Header.Set("X-Forwarded-For", tc.clientIP)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastResponse = nil
	var parsed map[string]any
	if json.Unmarshal(tc.lastBody, &parsed) == nil {
		tc.lastResponse = parsed
	}
	return nil
}

func (tc *TestContext) GetLastResponseStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.lastBody
}

func (tc *TestContext) GetResponseField(field string) (any, error) {
	if tc.lastResponse == nil {
		return nil, fmt.Errorf("last response is not a JSON object: %s", tc.lastBody)
	}
	v, ok := tc.lastResponse[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response: %s", field, tc.lastBody)
	}
	return v, nil
}

func (tc *TestContext) Remember(key string, v any) {
	tc.remembered[key] = v
}

func (tc *TestContext) Recall(key string) (any, bool) {
	v, ok := tc.remembered[key]
	return v, ok
}
