package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/taeahn1/betterlife/models"
)

// VisionService talks to the Gemini generateContent REST endpoint. One call
// per analysis; failures are never retried because a vision call is neither
// cheap nor idempotent.
type VisionService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewVisionService initializes the VisionService with credentials and HTTP client
func NewVisionService() *VisionService {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &VisionService{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// SkinImage is one facial photo handed to the skin analysis.
type SkinImage struct {
	Position string // "left", "front" or "right"
	MimeType string
	Data     []byte
}

const mealPrompt = `Analyze this food photo and return nutritional information as JSON only, no markdown.
If the photo contains multiple food items, analyze EACH item separately in food_items.
Required fields:
- menu_name: overall meal name
- food_category: cuisine or food category
- ingredients: array of all visible ingredients
- portion_size: total serving size, e.g. "1 serving"
- calories, carbohydrates, protein, fat: totals for the whole meal (kcal / grams)
- pfc_ratio: {"protein": %, "fat": %, "carbs": %} of total calories, must sum to 100
- food_items: array of {name, calories, carbohydrates, protein, fat, portion_size} per distinct item
Be as accurate as possible.`

const skinPrompt = `You are a dermatology image analyst. Evaluate these facial photos (positions: %s) for acne, inflammation and scarring. Return JSON only, no markdown.
Required fields:
- lesion_counts: {"non_inflammatory", "inflammatory", "cystic", "large_lesions"} exact counts across all photos, avoid double counting
- spatial_mapping: {"primary_locations": [areas of highest density], "distribution_pattern": "Clustered" or "Scattered"}
- asymmetry: {"left_count", "right_count", "diff_ratio", "comment"} comparing face sides
- post_acne: {"pigmentation_count", "pitted_scars"(bool)}
- scores: {"inflammatory_score": non_inflammatory*1 + inflammatory*3 + cystic*10,
           "spatial_risk_score": 20 if Clustered else 5, +5 if jawline affected,
           "total_health_index": start at 100, subtract inflammatory_score*0.5, pigmentation_count*0.2 and spatial_risk_score, subtract 10 if diff_ratio > 2.0, clamp to [0,100],
           "status": "Good" (80-100), "Warning" (50-79) or "Danger" (0-49)}
- analysis_date: "%s"`

// AnalyzeMealImage runs the food photo through the vision model and returns
// validated meal metadata. The whole call fails if the model output violates
// the meal invariants; no partial meal is ever handed back.
func (s *VisionService) AnalyzeMealImage(ctx context.Context, image []byte, mimeType string) (*models.MealMetadata, error) {
	parts := []part{
		{Text: mealPrompt},
		{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
	}

	var meal models.MealMetadata
	if err := s.generate(ctx, parts, &meal); err != nil {
		return nil, err
	}
	if err := meal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	return &meal, nil
}

// AnalyzeSkinImages runs up to three facial photos through the vision model.
func (s *VisionService) AnalyzeSkinImages(ctx context.Context, images []SkinImage) (*models.SkinAnalysisMetadata, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no images provided", ErrExternalService)
	}

	positions := make([]string, 0, len(images))
	parts := make([]part, 0, len(images)+1)
	for _, img := range images {
		positions = append(positions, img.Position)
	}
	parts = append(parts, part{Text: fmt.Sprintf(skinPrompt, strings.Join(positions, ", "), time.Now().UTC().Format(time.RFC3339))})
	for _, img := range images {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: img.MimeType,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}})
	}

	var analysis models.SkinAnalysisMetadata
	if err := s.generate(ctx, parts, &analysis); err != nil {
		return nil, err
	}
	if err := analysis.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	return &analysis, nil
}

// Request/response shapes for the generateContent endpoint.

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type generateRequest struct {
	Contents []struct {
		Parts []part `json:"parts"`
	} `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate posts the parts to the model and decodes the JSON object embedded
// in the text reply into out.
func (s *VisionService) generate(ctx context.Context, parts []part, out any) error {
	var reqBody generateRequest
	reqBody.Contents = append(reqBody.Contents, struct {
		Parts []part `json:"parts"`
	}{Parts: parts})

	b, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal vision payload: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to create vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrExternalService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: vision API error %d: %s", ErrExternalService, resp.StatusCode, string(body))
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return fmt.Errorf("%w: parsing response: %v", ErrExternalService, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("%w: empty model response", ErrExternalService)
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	payload, err := extractJSON(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: decoding analysis: %v", ErrExternalService, err)
	}
	return nil
}

// extractJSON pulls the outermost JSON object out of a model reply that may
// be wrapped in markdown fences or prose.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in model reply")
	}
	return text[start : end+1], nil
}
