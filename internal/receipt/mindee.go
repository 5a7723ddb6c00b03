package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMindeeURL     = "https://api-v2.mindee.net/v2"
	DefaultMindeeModelID = "8502f18f-4fe7-4f1b-b1eb-a93ffe0fb743"
)

// MindeeClient extracts receipts with the Mindee V2 inference API:
// the image is enqueued, the job is polled until processed, and the result
// document is fetched from the job's result URL.
type MindeeClient struct {
	APIKey       string
	ModelID      string
	BaseURL      string
	PollInterval time.Duration
	MaxAttempts  int

	client *http.Client
}

// NewMindeeClient returns a client with the production endpoint and the
// default polling schedule (30 attempts, 2s apart).
func NewMindeeClient(apiKey, modelID string) *MindeeClient {
	if modelID == "" {
		modelID = DefaultMindeeModelID
	}
	return &MindeeClient{
		APIKey:       apiKey,
		ModelID:      modelID,
		BaseURL:      DefaultMindeeURL,
		PollInterval: 2 * time.Second,
		MaxAttempts:  30,
		client:       &http.Client{Timeout: 60 * time.Second},
	}
}

type mindeeJob struct {
	Job struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		ResultURL string `json:"result_url"`
		Error     *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"job"`
}

// Extract uploads the image and waits for the parsed receipt.
func (c *MindeeClient) Extract(ctx context.Context, image []byte, filename string) (*Receipt, error) {
	jobID, err := c.enqueue(ctx, image, filename)
	if err != nil {
		return nil, err
	}
	slog.Debug("Receipt enqueued", "job_id", jobID)

	doc, err := c.poll(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return parseInference(doc)
}

func (c *MindeeClient) enqueue(ctx context.Context, image []byte, filename string) (string, error) {
	if filename == "" {
		filename = "receipt.jpg"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("model_id", c.ModelID); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := form.WriteField("rag", "false"); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/inferences/enqueue", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var job mindeeJob
	if err := c.do(req, &job); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	if job.Job.ID == "" {
		return "", ErrNoJobID
	}
	return job.Job.ID, nil
}

// poll waits for the job and returns the raw inference document.
func (c *MindeeClient) poll(ctx context.Context, jobID string) ([]byte, error) {
	for attempt := 0; attempt < c.MaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/jobs/"+jobID+"?redirect=false", nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		raw, err := c.fetch(req)
		if err != nil {
			return nil, fmt.Errorf("poll failed: %w", err)
		}
		var job mindeeJob
		if err := json.Unmarshal(raw, &job); err != nil {
			return nil, fmt.Errorf("failed to decode job: %w", err)
		}

		switch job.Job.Status {
		case "Processed":
			if job.Job.ResultURL == "" {
				return raw, nil
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.Job.ResultURL, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to create request: %w", err)
			}
			result, err := c.fetch(req)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch result: %w", err)
			}
			return result, nil
		case "Failed":
			if job.Job.Error != nil && job.Job.Error.Message != "" {
				return nil, fmt.Errorf("processing failed: %s", job.Job.Error.Message)
			}
			return nil, fmt.Errorf("processing failed")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.PollInterval):
		}
	}
	return nil, ErrTimeout
}

func (c *MindeeClient) do(req *http.Request, out any) error {
	raw, err := c.fetch(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *MindeeClient) fetch(req *http.Request) ([]byte, error) {
	// V2 takes the bare key, without a "Token" prefix.
	req.Header.Set("Authorization", c.APIKey)

	client := c.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// mindeeField is a V2 field. Scalars carry value (or content); list fields
// carry items whose own fields are nested.
type mindeeField struct {
	Value   json.RawMessage `json:"value"`
	Content json.RawMessage `json:"content"`
	Items   []struct {
		Fields map[string]mindeeField `json:"fields"`
	} `json:"items"`
}

type mindeeInference struct {
	Inference struct {
		Result struct {
			Fields map[string]mindeeField `json:"fields"`
		} `json:"result"`
	} `json:"inference"`
}

func (f mindeeField) raw() json.RawMessage {
	if len(f.Value) > 0 && string(f.Value) != "null" {
		return f.Value
	}
	return f.Content
}

func (f mindeeField) String() string {
	raw := f.raw()
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (f mindeeField) Float() float64 {
	raw := f.raw()
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	n, _ = strconv.ParseFloat(strings.TrimSpace(f.String()), 64)
	return n
}

// firstNonZero returns the first listed field with a non-zero amount.
func firstNonZero(fields map[string]mindeeField, names ...string) float64 {
	for _, name := range names {
		if v := fields[name].Float(); v != 0 {
			return v
		}
	}
	return 0
}

func parseInference(doc []byte) (*Receipt, error) {
	var inf mindeeInference
	if err := json.Unmarshal(doc, &inf); err != nil {
		return nil, fmt.Errorf("failed to parse receipt data: %w", err)
	}
	fields := inf.Inference.Result.Fields

	r := &Receipt{
		RestaurantName: fields["supplier_name"].String(),
		Date:           fields["date"].String(),
		Lines:          []Line{},
		Subtotal:       firstNonZero(fields, "total_net", "subtotal"),
		Tax:            firstNonZero(fields, "total_tax", "tax"),
		Tip:            firstNonZero(fields, "tips_gratuity"),
		Total:          firstNonZero(fields, "total_amount", "total"),
	}
	for i, item := range fields["line_items"].Items {
		description := item.Fields["description"].String()
		if description == "" {
			description = fmt.Sprintf("Item %d", i+1)
		}
		quantity := int(item.Fields["quantity"].Float())
		if quantity < 1 {
			quantity = 1
		}
		r.Lines = append(r.Lines, Line{
			Description: description,
			Quantity:    quantity,
			UnitPrice:   item.Fields["unit_price"].Float(),
			TotalPrice:  item.Fields["total_price"].Float(),
		})
	}
	return r, nil
}
