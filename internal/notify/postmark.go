package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const postmarkEndpoint = "https://api.postmarkapp.com/email"

// PostmarkSender delivers email through the Postmark transactional API.
type PostmarkSender struct {
	token      string
	from       string
	httpClient *http.Client
}

func NewPostmarkSender(token, from string) *PostmarkSender {
	return &PostmarkSender{
		token: token,
		from:  from,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type postmarkRequest struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	TextBody      string `json:"TextBody"`
	MessageStream string `json:"MessageStream"`
}

type postmarkResponse struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

func (s *PostmarkSender) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(postmarkRequest{
		From:          s.from,
		To:            email.To,
		Subject:       email.Subject,
		TextBody:      email.TextBody,
		MessageStream: "outbound",
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postmarkEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call postmark: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		var pmResp postmarkResponse
		if json.Unmarshal(data, &pmResp) == nil && pmResp.Message != "" {
			return fmt.Errorf("postmark rejected email (code %d): %s", pmResp.ErrorCode, pmResp.Message)
		}
		return fmt.Errorf("postmark returned status %d", resp.StatusCode)
	}

	return nil
}
