// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/lyh1028/arxiv-tracker/internal/httputil"
)

// googleBase is the translation endpoint. Tests point it at a local server.
var googleBase = "https://translate.googleapis.com/translate_a/single"

// Google translates through the public Google Translate web endpoint.
type Google struct {
	client     *http.Client
	maxRetries int
}

// NewGoogle builds a Google translator on top of the shared HTTP client.
func NewGoogle(client *http.Client, maxRetries int) *Google {
	return &Google{client: client, maxRetries: maxRetries}
}

// Translate implements Translator. The endpoint splits long input into
// sentence segments; the translated segments are concatenated back into a
// single string.
func (g *Google) Translate(ctx context.Context, text, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequest(http.MethodGet, googleBase+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building translate request: %w", err)
	}

	body, err := httputil.FetchText(ctx, g.client, req, g.maxRetries)
	if err != nil {
		return "", fmt.Errorf("requesting translation: %w", err)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse extracts the translated text from the endpoint's
// nested-array payload: [[["translated","original",...],...],...].
func parseGoogleResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decoding translation response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decoding translation segments: %w", err)
	}

	var sb strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(segment[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}
	return sb.String(), nil
}
