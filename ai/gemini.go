// Package ai wraps the generative-language collaborator: greeting
// synthesis and semantic post search. Both calls degrade to an empty or
// default result on any failure — callers never see an error state.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// DefaultGreeting is shown when the model is unavailable or errors out.
const DefaultGreeting = "استكشف أحدث المقالات والأفكار."

// Match is one semantic-search hit: a post id and the model's stated
// reason for considering it relevant.
type Match struct {
	ID              string `json:"id"`
	RelevanceReason string `json:"relevanceReason"`
}

// Document is the minimal view of a post the search prompt needs. The
// caller converts its own post type at the boundary; this package never
// imports the blog's model.
type Document struct {
	ID       string
	Title    string
	Excerpt  string
	Category string
}

// Client talks to the Gemini API. A zero Client (no key) is valid and
// permanently degraded: every call returns its default immediately.
type Client struct {
	g     *genai.Client
	model string
}

// NewClient builds a Client. An empty apiKey yields a disabled client
// rather than an error, so the site keeps working without AI features.
func NewClient(ctx context.Context, apiKey, model string) *Client {
	if apiKey == "" {
		return &Client{}
	}
	g, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("ai: client init failed, running degraded: %v", err)
		return &Client{}
	}
	return &Client{g: g, model: model}
}

// Enabled reports whether the client can reach the model at all.
func (c *Client) Enabled() bool { return c.g != nil }

// Greeting synthesizes a short Arabic welcome line for a category.
func (c *Client) Greeting(ctx context.Context, category string) string {
	if c.g == nil {
		return DefaultGreeting
	}
	prompt := fmt.Sprintf(
		"بصفتك كاتب محتوى مبدع، اكتب جملة ترحيبية قصيرة وجذابة لمدونة شخصية في قسم %q. رد بالنص فقط باللغة العربية.",
		category)
	resp, err := c.g.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("ai: greeting failed: %v", err)
		return DefaultGreeting
	}
	if s := strings.TrimSpace(resp.Text()); s != "" {
		return s
	}
	return DefaultGreeting
}

// Summarize condenses text into a single Arabic sentence. Empty on error.
func (c *Client) Summarize(ctx context.Context, text string) string {
	if c.g == nil {
		return ""
	}
	prompt := "لخص هذا النص في جملة واحدة قوية باللغة العربية: " + text
	resp, err := c.g.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("ai: summarize failed: %v", err)
		return ""
	}
	return strings.TrimSpace(resp.Text())
}

// searchSchema constrains the model to a JSON array of {id,
// relevanceReason} objects so the response can be decoded directly.
var searchSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":              {Type: genai.TypeString},
			"relevanceReason": {Type: genai.TypeString},
		},
		Required: []string{"id", "relevanceReason"},
	},
}

// Search asks the model which documents match the query semantically.
// The result is a ranked subset of docs; nil on any failure.
func (c *Client) Search(ctx context.Context, query string, docs []Document) []Match {
	if c.g == nil || strings.TrimSpace(query) == "" || len(docs) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("هذه قائمة مقالات المدونة:\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "- id=%s | القسم: %s | العنوان: %s | المقتطف: %s\n",
			d.ID, d.Category, d.Title, d.Excerpt)
	}
	fmt.Fprintf(&b, "\nأعد المقالات الأكثر صلة بالبحث التالي مرتبة حسب الصلة: %q", query)

	resp, err := c.g.Models.GenerateContent(ctx, c.model, genai.Text(b.String()), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   searchSchema,
	})
	if err != nil {
		log.Printf("ai: search failed: %v", err)
		return nil
	}

	var matches []Match
	if err := json.Unmarshal([]byte(resp.Text()), &matches); err != nil {
		log.Printf("ai: search returned malformed JSON: %v", err)
		return nil
	}
	return matches
}
