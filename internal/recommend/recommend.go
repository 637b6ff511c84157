// Package recommend calls an external text-generation service to
// suggest scholarships for a student.  The integration is strictly
// best-effort: any failure is returned as an error for the handler
// to translate into a friendly message, and never bubbles up as a
// crash of the saved-items view.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/minhngvn/scholarship-hub/internal/model"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
)

// Client talks to a Gemini-style generateContent endpoint.
type Client struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewFromEnv builds a client from GEMINI_API_KEY and the optional
// GEMINI_MODEL / GEMINI_BASE_URL overrides.  Returns nil when no API
// key is configured; callers then skip recommendations entirely.
func NewFromEnv() *Client {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil
	}
	c := &Client{
		APIKey:     key,
		Model:      os.Getenv("GEMINI_MODEL"),
		BaseURL:    os.Getenv("GEMINI_BASE_URL"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	return c
}

type candidateListing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Eligibility []string `json:"eligibility"`
	Tags        []string `json:"tags"`
}

// generateContent request/response wire shapes (the slice we use).
type generateRequest struct {
	Contents []content `json:"contents"`
}
type content struct {
	Parts []part `json:"parts"`
}
type part struct {
	Text string `json:"text"`
}
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Recommend asks the model for up to 3 scholarship ids matching the
// student's profile.  Ids the student has already saved and ids not
// present in the candidate set are dropped from the result.
func (c *Client) Recommend(ctx context.Context, user model.User, candidates []model.Scholarship) ([]string, error) {
	prompt := buildPrompt(user, candidates)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recommendation service returned %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("recommendation service returned no candidates")
	}

	ids, err := parseIDList(out.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(candidates))
	for _, s := range candidates {
		known[s.ID] = true
	}
	kept := ids[:0]
	for _, id := range ids {
		if known[id] && !user.HasSaved(id) {
			kept = append(kept, id)
		}
		if len(kept) == 3 {
			break
		}
	}
	return kept, nil
}

func buildPrompt(user model.User, candidates []model.Scholarship) string {
	org := user.Organization
	if org == "" {
		org = "Not specified"
	}
	savedTitles := []string{}
	for _, id := range user.SavedScholarshipIDs {
		for i := range candidates {
			if candidates[i].ID == id {
				savedTitles = append(savedTitles, candidates[i].Title.EN)
			}
		}
	}
	saved := strings.Join(savedTitles, ", ")
	if saved == "" {
		saved = "None"
	}

	available := make([]candidateListing, 0, len(candidates))
	for _, s := range candidates {
		available = append(available, candidateListing{
			ID:          s.ID,
			Title:       s.Title.EN,
			Description: s.Description.EN,
			Eligibility: s.Eligibility.EN,
			Tags:        s.Tags,
		})
	}
	listJSON, _ := json.MarshalIndent(available, "", "  ")

	var b strings.Builder
	b.WriteString("You are an expert scholarship advisor. Your task is to recommend the best-suited scholarships for a student based on their profile.\n\n")
	b.WriteString("Here is the student's profile:\n")
	fmt.Fprintf(&b, "- Full Name: %s\n- Organization: %s\n- Currently Saved Scholarships (indicating interests): %s\n\n", user.FullName, org, saved)
	b.WriteString("Here is a list of available scholarships in JSON format:\n")
	b.Write(listJSON)
	b.WriteString("\n\nAnalyze the student's profile and interests against the available scholarships. Identify up to 3 scholarships that are the strongest match. Do not recommend scholarships that are already in the \"Currently Saved Scholarships\" list.\n\n")
	b.WriteString("Your response MUST be a valid JSON array containing only the string IDs of your recommended scholarships. Do not include any other text, explanation, or markdown.\n\n")
	b.WriteString("Example response format: [\"scholarship-1\", \"scholarship-15\", \"scholarship-4\"]\n")
	return b.String()
}

// parseIDList tolerates markdown fences around the JSON array, which
// some models emit despite instructions.
func parseIDList(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var ids []string
	if err := json.Unmarshal([]byte(text), &ids); err != nil {
		return nil, fmt.Errorf("unparseable recommendation payload: %w", err)
	}
	return ids, nil
}
