package action

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
)

// DefaultManifestPath is used when a request does not name a manifest directory.
const DefaultManifestPath = "."

// Request holds the action parameters.
type Request struct {
	GitURL       string         `json:"gitUrl"`
	ManifestPath string         `json:"manifestPath,omitempty"`
	EnvData      map[string]any `json:"envData,omitempty"`
	WskAPIHost   string         `json:"wskApiHost,omitempty"`
	WskAuth      string         `json:"wskAuth,omitempty"`

	// Method is the web method set by the platform. Empty means the action
	// was invoked directly and is treated as POST.
	Method string `json:"__ow_method,omitempty"`
}

// Environment is the ambient input supplied by the hosting runtime.
type Environment struct {
	ActivationID string
	APIHost      string
	APIKey       string
}

// DecodeParams decodes a JSON parameter object into a Request.
// Empty input yields the zero Request.
func DecodeParams(data []byte) (Request, error) {
	var req Request
	if len(bytes.TrimSpace(data)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, errors.Wrap(err, errors.CodeInvalidInput, "Parameters must be a JSON object")
	}
	return req, nil
}

// manifestPath returns the requested manifest directory or the default.
func (r Request) manifestPath() string {
	if r.ManifestPath == "" {
		return DefaultManifestPath
	}
	return r.ManifestPath
}

// isPost reports whether the request should be processed.
func (r Request) isPost() bool {
	return r.Method == "" || strings.EqualFold(r.Method, http.MethodPost)
}
