package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// GatewaySMS posts messages to an HTTP SMS gateway.
type GatewaySMS struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewGatewaySMS builds a GatewaySMS. An empty endpoint leaves it
// unconfigured; sends then return false without making a request.
func NewGatewaySMS(endpoint, token string) *GatewaySMS {
	return &GatewaySMS{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type smsPayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (g *GatewaySMS) SendSMS(ctx context.Context, to, message string) bool {
	if g.endpoint == "" {
		return false
	}

	body, err := json.Marshal(smsPayload{To: to, Message: message})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("WARN: send SMS to %s: %v", to, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("WARN: send SMS to %s: gateway returned %d", to, resp.StatusCode)
		return false
	}
	return true
}
