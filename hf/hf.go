// Package hf wraps zero-shot text classification via the Hugging Face
// inference API. Classification is best-effort decoration: any failure
// yields an empty result so that a dead or unconfigured model never breaks a
// suggestion flow.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://router.huggingface.co/hf-inference/models"

	model = "facebook/bart-large-mnli"

	// minimum score for a label to count as a match
	threshold = 0.15

	// request-size bound on candidate labels
	maxLabels = 50

	// result bound
	maxTopLabels = 10

	requestTimeout = 30 * time.Second
)

// New creates a classifier client. An empty token leaves classification
// disabled: Classify returns an empty map without calling out.
func New(token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: requestTimeout},
		token:      token,
		log:        log,
	}
}

type Client struct {
	// BaseURL and HTTPClient may be replaced before first use.
	BaseURL    string
	HTTPClient *http.Client

	token string
	log   *zap.Logger
}

// Enabled reports whether a token is configured.
func (c *Client) Enabled() bool { return c.token != "" }

type classifyRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters classifyParameters `json:"parameters"`
}

type classifyParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type classifyResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify scores the candidate labels against the text with multi-label
// zero-shot classification and returns the labels at or above the score
// threshold, at most the top 10. The label set is deduplicated, trimmed, and
// truncated to 50 entries to bound request size. Without a token, or with no
// labels, or on any failure, the result is empty.
func (c *Client) Classify(ctx context.Context, text string, candidateLabels []string) map[string]float64 {
	labels := cleanLabels(candidateLabels)
	if len(labels) == 0 || !c.Enabled() {
		return map[string]float64{}
	}

	body, err := json.Marshal(classifyRequest{
		Inputs: text,
		Parameters: classifyParameters{
			CandidateLabels: labels,
			MultiLabel:      true,
		},
	})
	if err != nil {
		c.log.Warn("classify request encode failed", zap.Error(err))
		return map[string]float64{}
	}

	url := c.BaseURL + "/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.log.Warn("classify request build failed", zap.Error(err))
		return map[string]float64{}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.Warn("classify request failed", zap.Error(err))
		return map[string]float64{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("classify request failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return map[string]float64{}
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.Warn("classify response decode failed", zap.Error(err))
		return map[string]float64{}
	}

	return topScores(result)
}

// PartitionLabels splits scored labels into the ones that are known genre
// names and the ones that are known style names. A label present in both
// lists lands in both partitions.
func PartitionLabels(scored map[string]float64, allGenres, allStyles []string) (genres, styles []string) {
	genreSet := make(map[string]bool, len(allGenres))
	for _, name := range allGenres {
		genreSet[name] = true
	}
	styleSet := make(map[string]bool, len(allStyles))
	for _, name := range allStyles {
		styleSet[name] = true
	}

	for label := range scored {
		if genreSet[label] {
			genres = append(genres, label)
		}
		if styleSet[label] {
			styles = append(styles, label)
		}
	}
	sort.Strings(genres)
	sort.Strings(styles)
	return genres, styles
}

func cleanLabels(candidateLabels []string) []string {
	seen := make(map[string]bool, len(candidateLabels))
	labels := make([]string, 0, len(candidateLabels))
	for _, label := range candidateLabels {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	if len(labels) > maxLabels {
		labels = labels[:maxLabels]
	}
	return labels
}

func topScores(result classifyResponse) map[string]float64 {
	type pair struct {
		label string
		score float64
	}
	var pairs []pair
	for i, label := range result.Labels {
		var score float64
		if i < len(result.Scores) {
			score = result.Scores[i]
		}
		if score >= threshold {
			pairs = append(pairs, pair{label, score})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })
	if len(pairs) > maxTopLabels {
		pairs = pairs[:maxTopLabels]
	}

	scored := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		scored[p.label] = p.score
	}
	return scored
}
