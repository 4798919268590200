package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStub(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	g := NewGemini("test-key")
	g.SetBaseURL(srv.URL)
	return g
}

func textResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]interface{}{{"text": text}},
			}},
		},
	}
}

func TestGenerateSendsSystemInstruction(t *testing.T) {
	var got genRequest
	g := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-3-flash-preview:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(textResponse("hello"))
	})

	out, err := g.Generate(context.Background(), "say hello", GenerateOptions{System: "assistant persona"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "assistant persona", got.SystemInstruction.Parts[0].Text)
}

func TestGenerateThinkingUsesProModel(t *testing.T) {
	g := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-3-pro-preview:generateContent", r.URL.Path)
		json.NewEncoder(w).Encode(textResponse("deep answer"))
	})

	out, err := g.Generate(context.Background(), "plan", GenerateOptions{Thinking: true})
	require.NoError(t, err)
	assert.Equal(t, "deep answer", out)
}

func TestGenerateAPIError(t *testing.T) {
	g := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 429, "message": "quota exceeded"},
		})
	})

	_, err := g.Generate(context.Background(), "x", GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRiskWarningsParsesJSON(t *testing.T) {
	g := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textResponse(`[{"severity":"high","message":"3 overdue payments"}]`))
	})

	ws, err := g.RiskWarnings(context.Background(), `{"overdue":3}`)
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, "high", ws[0].Severity)
}

func TestRiskWarningsRejectsGarbage(t *testing.T) {
	g := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textResponse("sorry, I cannot do that"))
	})

	_, err := g.RiskWarnings(context.Background(), "{}")
	assert.Error(t, err)
}

func TestCertificateImageExtractsInlineData(t *testing.T) {
	g := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash-image")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": "here is your certificate"},
						{"inlineData": map[string]string{"mimeType": "image/png", "data": "aW1n"}},
					},
				}},
			},
		})
	})

	img, err := g.CertificateImage(context.Background(), "dGVtcGxhdGU=", "Ada Kaya")
	require.NoError(t, err)
	assert.Equal(t, "aW1n", img)
}

func TestCertificateImageNoImage(t *testing.T) {
	g := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textResponse("no can do"))
	})

	_, err := g.CertificateImage(context.Background(), "dGVtcGxhdGU=", "Ada")
	assert.Error(t, err)
}

func TestParseResume(t *testing.T) {
	g := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textResponse(`{"summary":"10 years","skills":["CBT"],"experiences":[{"title":"Therapist","company":"Clinic"}]}`))
	})

	data, err := g.ParseResume(context.Background(), "ZG9j", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "10 years", data.Summary)
	require.Len(t, data.Experiences, 1)
	assert.Equal(t, "Therapist", data.Experiences[0].Title)
}
