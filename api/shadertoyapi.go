// Package api imports shaders from the Shadertoy REST API.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

const shadertoyAPIURL = "https://www.shadertoy.com/api/v1"

var httpClient = &http.Client{
	Transport: &headerTransport{Transport: http.DefaultTransport},
}

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "shaderpad/1.0")
	return t.Transport.RoundTrip(req)
}

// --- Structs for the Shadertoy API response ---

type shadertoyResponse struct {
	Shader *apiShader `json:"Shader"`
	Error  string     `json:"Error,omitempty"`
}

type apiShader struct {
	Info       shaderInfo      `json:"info"`
	RenderPass []apiRenderPass `json:"renderpass"`
}

type shaderInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type apiRenderPass struct {
	Inputs []apiInput `json:"inputs"`
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Type   string     `json:"type"`
}

type apiInput struct {
	Channel int    `json:"channel"`
	CType   string `json:"ctype"`
}

// ImportedShader is the usable part of a fetched shader: the image pass.
// Complete is false when the shader also relies on features this tool does
// not render (channel inputs, buffer/common/sound passes).
type ImportedShader struct {
	ID       string
	Name     string
	Username string
	Code     string
	Complete bool
}

// Fetch retrieves a public shader by ID or URL through the documented API.
func Fetch(apiKey, idOrURL string) (*ImportedShader, error) {
	shaderID := idOrURL
	if strings.Contains(shaderID, "/") {
		shaderID = path.Base(strings.TrimSuffix(shaderID, "/"))
	}

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/shaders/%s", shadertoyAPIURL, shaderID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Add("key", apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to shadertoy API failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load shader %s, status code: %d", shaderID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read API response: %w", err)
	}
	return ParseResponse(body)
}

// ParseResponse extracts the image pass from a raw API response body.
func ParseResponse(body []byte) (*ImportedShader, error) {
	var resp shadertoyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode shader JSON: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("shadertoy API error: %s (is the shader public+api?)", resp.Error)
	}
	if resp.Shader == nil {
		return nil, fmt.Errorf("invalid JSON response: 'Shader' key is missing")
	}

	imported := &ImportedShader{
		ID:       resp.Shader.Info.ID,
		Name:     resp.Shader.Info.Name,
		Username: resp.Shader.Info.Username,
		Complete: true,
	}

	for _, pass := range resp.Shader.RenderPass {
		switch pass.Type {
		case "image":
			imported.Code = pass.Code
			if len(pass.Inputs) > 0 {
				slog.Warn("shader uses channel inputs, which are not supported", "shader", imported.ID)
				imported.Complete = false
			}
		default:
			slog.Warn("shader uses an unsupported render pass", "shader", imported.ID, "pass", pass.Type)
			imported.Complete = false
		}
	}

	if imported.Code == "" {
		return nil, fmt.Errorf("shader %s has no image pass", imported.ID)
	}
	return imported, nil
}
