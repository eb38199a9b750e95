package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CodeforcesService verifies handles against the Codeforces user.info API
type CodeforcesService struct {
	baseURL string
	client  *http.Client
}

// NewCodeforcesService creates a new Codeforces handle verifier
func NewCodeforcesService(baseURL string, timeout time.Duration) *CodeforcesService {
	return &CodeforcesService{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// userInfoResponse mirrors the Codeforces user.info envelope
type userInfoResponse struct {
	Status string `json:"status"`
	Result []struct {
		Handle string `json:"handle"`
		Rating *int   `json:"rating"`
	} `json:"result"`
}

// Verify resolves a handle through Codeforces. Any transport error, non-200
// response or status other than "OK" means the handle is not verifiable.
func (s *CodeforcesService) Verify(ctx context.Context, handle string) (*HandleInfo, error) {
	endpoint := fmt.Sprintf("%s/user.info?handles=%s", s.baseURL, url.QueryEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var body userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, nil
	}

	// Codeforces returns status exactly "OK" for a valid handle
	if body.Status != "OK" || len(body.Result) == 0 {
		return nil, nil
	}

	return &HandleInfo{
		Handle: body.Result[0].Handle,
		Rating: body.Result[0].Rating,
	}, nil
}
