package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"

	modelFlash = "gemini-3-flash-preview"
	modelPro   = "gemini-3-pro-preview"
	modelImage = "gemini-2.5-flash-image"
)

// Gemini talks to the Generative Language REST API. It implements Oracle.
type Gemini struct {
	client *resty.Client
	apiKey string
}

func NewGemini(apiKey string) *Gemini {
	return &Gemini{
		client: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(60 * time.Second).
			SetRetryCount(1),
		apiKey: apiKey,
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (g *Gemini) SetBaseURL(url string) {
	g.client.SetBaseURL(url)
}

type genPart struct {
	Text       string         `json:"text,omitempty"`
	InlineData *genInlineData `json:"inlineData,omitempty"`
}

type genInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type genContent struct {
	Parts []genPart `json:"parts"`
}

type genRequest struct {
	Contents          []genContent      `json:"contents"`
	SystemInstruction *genContent       `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type genResponse struct {
	Candidates []struct {
		Content genContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gemini) generate(ctx context.Context, model string, req genRequest) (*genResponse, error) {
	var out genResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", model))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("gemini: %s", msg)
	}
	return &out, nil
}

// firstText returns the first text part of the first candidate.
func firstText(r *genResponse) string {
	for _, c := range r.Candidates {
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}

func (g *Gemini) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	model := modelFlash
	if opts.Thinking {
		model = modelPro
	}
	req := genRequest{Contents: []genContent{{Parts: []genPart{{Text: prompt}}}}}
	if opts.System != "" {
		req.SystemInstruction = &genContent{Parts: []genPart{{Text: opts.System}}}
	}
	resp, err := g.generate(ctx, model, req)
	if err != nil {
		return "", err
	}
	return firstText(resp), nil
}

func (g *Gemini) RiskWarnings(ctx context.Context, contextJSON string) ([]Warning, error) {
	req := genRequest{
		Contents: []genContent{{Parts: []genPart{
			{Text: "Analyze the operational data and return the risks as a JSON array of {severity, message} objects: " + contextJSON},
		}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}
	resp, err := g.generate(ctx, modelFlash, req)
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	if err := json.Unmarshal([]byte(firstText(resp)), &warnings); err != nil {
		return nil, fmt.Errorf("gemini: unusable risk payload: %w", err)
	}
	return warnings, nil
}

// CertificateImage sends the template image plus the participant's name and
// returns the generated image as a base64 PNG.
func (g *Gemini) CertificateImage(ctx context.Context, templateB64, participantName string) (string, error) {
	req := genRequest{Contents: []genContent{{Parts: []genPart{
		{InlineData: &genInlineData{MimeType: "image/png", Data: templateB64}},
		{Text: "Add the name to the certificate: " + participantName},
	}}}}
	resp, err := g.generate(ctx, modelImage, req)
	if err != nil {
		return "", err
	}
	for _, c := range resp.Candidates {
		for _, p := range c.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData.Data, nil
			}
		}
	}
	return "", fmt.Errorf("gemini: no image in response")
}

func (g *Gemini) ParseResume(ctx context.Context, docB64, mimeType string) (*ResumeData, error) {
	req := genRequest{
		Contents: []genContent{{Parts: []genPart{
			{InlineData: &genInlineData{MimeType: mimeType, Data: docB64}},
			{Text: "Extract the resume as JSON with summary, skills, languages, experiences and educations."},
		}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}
	resp, err := g.generate(ctx, modelPro, req)
	if err != nil {
		return nil, err
	}

	var data ResumeData
	if err := json.Unmarshal([]byte(firstText(resp)), &data); err != nil {
		return nil, fmt.Errorf("gemini: unusable resume payload: %w", err)
	}
	return &data, nil
}
