// Package ai proxies the external chat-completion provider. Every call shape
// carries a static fallback so the product keeps working, with degraded
// output, when the provider is unconfigured or unreachable.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"

	chatSystemPrompt = "You are TOBI TECH AI, a helpful marketing automation assistant for creative professionals. You help analyze data, provide insights, and suggest content strategies. Be friendly, professional, and provide actionable advice."

	// Returned by Chat when no provider key is configured.
	unavailableMessage = "AI assistant is currently unavailable. Please configure your OpenAI API key in the environment settings."
)

type Insight struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

type ContentSuggestion struct {
	Platform  string   `json:"platform"`
	Content   string   `json:"content"`
	Hashtags  []string `json:"hashtags"`
	BestTime  string   `json:"bestTime"`
	Reasoning string   `json:"reasoning"`
}

type ContentAnalysis struct {
	Score        int      `json:"score"`
	Improvements []string `json:"improvements"`
	Strengths    []string `json:"strengths"`
}

// Client is constructed once at startup and injected into the route layer.
// An empty apiKey yields a degraded client, never a nil one.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	limiter *rate.Limiter
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http:    &http.Client{Timeout: 15 * time.Second},
		// Keep outbound pressure on the provider bounded regardless of
		// how many chat frames arrive.
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

// Configured reports whether a provider key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type chatCompletionRequest struct {
	Model          string               `json:"model"`
	Messages       []models.ChatMessage `json:"messages"`
	MaxTokens      int                  `json:"max_tokens,omitempty"`
	Temperature    *float64             `json:"temperature,omitempty"`
	ResponseFormat *responseFormat      `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, req chatCompletionRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return "", fmt.Errorf("provider returned status %d: %s", res.StatusCode, string(body))
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// Chat sends the running conversation plus the fixed system preamble and
// returns the assistant's reply. Unconfigured clients return a fixed
// unavailable message; transport or provider errors propagate to the caller.
func (c *Client) Chat(ctx context.Context, history []models.ChatMessage) (string, error) {
	if !c.Configured() {
		return unavailableMessage, nil
	}

	messages := make([]models.ChatMessage, 0, len(history)+1)
	messages = append(messages, models.ChatMessage{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, history...)

	temp := 0.7
	reply, err := c.complete(ctx, chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   1000,
		Temperature: &temp,
	})
	if err != nil {
		log.Printf("[AI][Chat] provider error: %v", err)
		return "", fmt.Errorf("failed to get AI response")
	}
	if reply == "" {
		return "I apologize, but I couldn't generate a response. Please try again.", nil
	}
	return reply, nil
}

// GenerateInsights derives insights from a bounded prefix of analytics
// records. Failures degrade silently to an empty list.
func (c *Client) GenerateInsights(ctx context.Context, records []models.AnalyticsRecord) []Insight {
	if !c.Configured() {
		return []Insight{{
			Type:        "alert",
			Title:       "AI Insights Unavailable",
			Description: "Please configure your OpenAI API key to enable AI-powered insights.",
			Confidence:  0,
		}}
	}

	if len(records) > 50 {
		records = records[:50]
	}
	data, err := json.Marshal(records)
	if err != nil {
		log.Printf("[AI][Insights] marshal error: %v", err)
		return []Insight{}
	}

	reply, err := c.complete(ctx, chatCompletionRequest{
		Model: c.model,
		Messages: []models.ChatMessage{
			{
				Role:    "system",
				Content: "You are a data analysis expert. Analyze the provided social media and marketing analytics data and generate actionable insights. Respond with JSON in this format: { 'insights': [{ 'type': 'suggestion|trend|optimization|alert', 'title': string, 'description': string, 'confidence': number }] }",
			},
			{
				Role:    "user",
				Content: "Analyze this analytics data and provide insights: " + string(data),
			},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		log.Printf("[AI][Insights] provider error: %v", err)
		return []Insight{}
	}

	var parsed struct {
		Insights []Insight `json:"insights"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		log.Printf("[AI][Insights] parse error: %v", err)
		return []Insight{}
	}
	if parsed.Insights == nil {
		return []Insight{}
	}
	return parsed.Insights
}

// GenerateContentSuggestions proposes platform-specific content ideas from
// the user's profile and recent performance. Unconfigured clients return one
// hard-coded suggestion; failures degrade to an empty list.
func (c *Client) GenerateContentSuggestions(ctx context.Context, profile *models.User, records []models.AnalyticsRecord) []ContentSuggestion {
	if !c.Configured() {
		return []ContentSuggestion{{
			Platform:  "Instagram",
			Content:   "Share behind-the-scenes content of your creative process today!",
			Hashtags:  []string{"#creative", "#process", "#inspiration"},
			BestTime:  "2:00 PM",
			Reasoning: "Default suggestion while AI is unavailable",
		}}
	}

	if len(records) > 20 {
		records = records[:20]
	}
	contextPayload, err := json.Marshal(map[string]any{
		"profile":           profile,
		"recentPerformance": records,
	})
	if err != nil {
		log.Printf("[AI][Suggestions] marshal error: %v", err)
		return []ContentSuggestion{}
	}

	reply, err := c.complete(ctx, chatCompletionRequest{
		Model: c.model,
		Messages: []models.ChatMessage{
			{
				Role:    "system",
				Content: "You are a social media content strategist. Based on the user's profile and recent performance data, suggest 3-5 content ideas for different platforms. Respond with JSON in this format: { 'suggestions': [{ 'platform': string, 'content': string, 'hashtags': string[], 'bestTime': string, 'reasoning': string }] }",
			},
			{
				Role:    "user",
				Content: "Generate content suggestions based on this context: " + string(contextPayload),
			},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		log.Printf("[AI][Suggestions] provider error: %v", err)
		return []ContentSuggestion{}
	}

	var parsed struct {
		Suggestions []ContentSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		log.Printf("[AI][Suggestions] parse error: %v", err)
		return []ContentSuggestion{}
	}
	if parsed.Suggestions == nil {
		return []ContentSuggestion{}
	}
	return parsed.Suggestions
}

// AnalyzeContentPerformance scores a piece of content against its metrics.
// The score is clamped to 1..100.
func (c *Client) AnalyzeContentPerformance(ctx context.Context, content string, metrics any) *ContentAnalysis {
	if !c.Configured() {
		return &ContentAnalysis{
			Score:        75,
			Improvements: []string{"Configure OpenAI API key for detailed analysis"},
			Strengths:    []string{"Content posted successfully"},
		}
	}

	metricsPayload, err := json.Marshal(metrics)
	if err != nil {
		log.Printf("[AI][Analyze] marshal error: %v", err)
		metricsPayload = []byte(`{}`)
	}

	reply, err := c.complete(ctx, chatCompletionRequest{
		Model: c.model,
		Messages: []models.ChatMessage{
			{
				Role:    "system",
				Content: "You are a content performance analyst. Analyze the given content and its metrics, then provide a performance score (1-100), strengths, and improvement suggestions. Respond with JSON in this format: { 'score': number, 'improvements': string[], 'strengths': string[] }",
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Analyze this content and metrics: Content: %q Metrics: %s", content, string(metricsPayload)),
			},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		log.Printf("[AI][Analyze] provider error: %v", err)
		return &ContentAnalysis{
			Score:        50,
			Improvements: []string{"Unable to analyze content at this time"},
			Strengths:    []string{},
		}
	}

	var parsed ContentAnalysis
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		log.Printf("[AI][Analyze] parse error: %v", err)
		return &ContentAnalysis{
			Score:        50,
			Improvements: []string{"Unable to analyze content at this time"},
			Strengths:    []string{},
		}
	}
	if parsed.Score < 1 {
		parsed.Score = 1
	}
	if parsed.Score > 100 {
		parsed.Score = 100
	}
	if parsed.Improvements == nil {
		parsed.Improvements = []string{}
	}
	if parsed.Strengths == nil {
		parsed.Strengths = []string{}
	}
	return &parsed
}
