package plot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PlotType names a sidecar chart kind.
type PlotType string

// PlotTypeHeatmap is the only chart produced here.
const PlotTypeHeatmap PlotType = "heatmap"

// PlotData is the document accepted by the sidecar's /api/plot endpoint.
type PlotData struct {
	PlotType  PlotType       `json:"plot_type"`
	Title     string         `json:"title"`
	Timestamp time.Time      `json:"timestamp"`
	ModelName string         `json:"model_name"`
	Series    []SeriesData   `json:"series"`
	Config    PlotConfig     `json:"config"`
	Metrics   map[string]any `json:"metrics,omitempty"`
}

// SeriesData is one named series of points.
type SeriesData struct {
	Name string      `json:"name"`
	Type string      `json:"type"`
	Data []DataPoint `json:"data"`
}

// DataPoint is a single cell; Z carries the heatmap value.
type DataPoint struct {
	X any `json:"x"`
	Y any `json:"y"`
	Z any `json:"z,omitempty"`
}

// PlotConfig carries axis labels and canvas size.
type PlotConfig struct {
	XAxisLabel  string `json:"x_axis_label"`
	YAxisLabel  string `json:"y_axis_label"`
	ZAxisLabel  string `json:"z_axis_label,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Interactive bool   `json:"interactive"`
}

// Response is the sidecar's reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PlotID  string `json:"plot_id,omitempty"`
	ViewURL string `json:"view_url,omitempty"`
}

// Client posts plots to a sidecar plotting service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the service at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PlotData converts a heatmap into a sidecar document. Rows map to Y and
// columns to X.
func (h *Heatmap) PlotData(model string) PlotData {
	points := make([]DataPoint, 0, h.Rows()*h.Cols())
	for y, row := range h.Values {
		for x, v := range row {
			points = append(points, DataPoint{X: x, Y: y, Z: v})
		}
	}
	return PlotData{
		PlotType:  PlotTypeHeatmap,
		Title:     h.Title,
		Timestamp: time.Now(),
		ModelName: model,
		Series:    []SeriesData{{Name: h.Title, Type: string(PlotTypeHeatmap), Data: points}},
		Config: PlotConfig{
			XAxisLabel:  "width",
			YAxisLabel:  "height",
			ZAxisLabel:  "activation",
			Width:       600,
			Height:      600,
			Interactive: true,
		},
		Metrics: map[string]any{"min": h.Min, "max": h.Max, "mean": h.Mean()},
	}
}

// Send posts data to {baseURL}/api/plot.
func (c *Client) Send(ctx context.Context, data PlotData) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plot data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/plot", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "resnet-extract")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &out, fmt.Errorf("HTTP request failed with status %d: %s", resp.StatusCode, out.Message)
	}
	return &out, nil
}
