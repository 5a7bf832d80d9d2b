package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOllamaBaseURL = "http://127.0.0.1:11434"

type ollamaConfig struct {
	BaseURL string `json:"base_url"`
}

// ollamaProvider talks to a locally hosted model runtime. It backs the
// second generation tier when the primary hosted model is unavailable.
type ollamaProvider struct {
	baseURL string
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (p *ollamaProvider) Name() string {
	return "ollama"
}

func (p *ollamaProvider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	resp, err := p.send(ctx, model, prompt, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Response), nil
}

func (p *ollamaProvider) GenerateStream(ctx context.Context, model string, prompt string) (<-chan string, error) {
	resp, err := p.send(ctx, model, prompt, true)
	if err != nil {
		return nil, err
	}
	out := make(chan string)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var part ollamaGenerateResponse
			if err := json.Unmarshal(scanner.Bytes(), &part); err != nil {
				return
			}
			if part.Response != "" {
				select {
				case out <- part.Response:
				case <-ctx.Done():
					return
				}
			}
			if part.Done {
				return
			}
		}
	}()
	return out, nil
}

func (p *ollamaProvider) send(ctx context.Context, model string, prompt string, stream bool) (*http.Response, error) {
	endpoint := strings.TrimRight(p.baseURL, "/") + "/api/generate"
	data, err := json.Marshal(ollamaGenerateRequest{Model: model, Prompt: prompt, Stream: stream})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

func createOllamaFactory(args interface{}) (IProvider, error) {
	cfg := &ollamaConfig{}
	if args != nil {
		if err := decodeConfig(args, cfg); err != nil {
			return nil, err
		}
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &ollamaProvider{baseURL: baseURL}, nil
}

func init() {
	Register("ollama", createOllamaFactory)
}
