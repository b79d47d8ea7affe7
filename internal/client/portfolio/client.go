package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/deokslife/portfolio-api/internal/models"
)

const (
	apiApps     = "/api/apps"
	apiCheck    = "/api/auth/check"
	apiPassword = "/api/auth/password"
)

// ErrUnauthorized reports that neither the cached nor the entered admin
// password passed the remote check.
var ErrUnauthorized = errors.New("admin password does not match")

// Client talks to the portfolio API. Mutating calls go through the two-step
// password fallback: the cached password is tried first, then the
// user-entered one, and a success with the entered password updates the
// cache so the next attempt short-circuits.
type Client struct {
	http    *http.Client
	baseURL string
	cache   *PasswordCache
}

// New constructs a Client for the server at baseURL.
func New(baseURL string, cache *PasswordCache) *Client {
	return &Client{
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache,
	}
}

// doJSON issues one request with the given payload plus the admin_password
// field and returns the response.
func (c *Client) doJSON(method, path string, payload map[string]any, password string) (*http.Response, error) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	if password != "" {
		body["admin_password"] = password
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

// responseError turns a non-2xx response into an error carrying the server's
// message.
func responseError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}

// authenticatedDo runs the password-fallback chain for one mutating request:
// cached password first, then the entered candidate, caching the candidate
// on success. The retry happens only when the cached password is rejected
// with 401; any other failure surfaces from the first attempt. The last
// failing response is surfaced when both candidates are rejected.
func (c *Client) authenticatedDo(method, path string, payload map[string]any, entered string) (*http.Response, error) {
	stored := c.cache.Get()

	resp, err := c.doJSON(method, path, payload, stored)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	entered = strings.TrimSpace(entered)
	if entered == "" || entered == stored {
		return resp, nil
	}
	resp.Body.Close()

	resp, err = c.doJSON(method, path, payload, entered)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 300 {
		_ = c.cache.Set(entered)
	}
	return resp, nil
}

// ListApps fetches every app in display order.
func (c *Client) ListApps() ([]models.App, error) {
	resp, err := c.http.Get(c.baseURL + apiApps)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var apps []models.App
	if err := json.NewDecoder(resp.Body).Decode(&apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// CreateApp creates a new app through the fallback chain.
func (c *Client) CreateApp(app *models.App, entered string) (*models.App, error) {
	payload := appPayload(app)
	resp, err := c.authenticatedDo(http.MethodPost, apiApps, payload, entered)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var created models.App
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateApp sends a partial update for one app.
func (c *Client) UpdateApp(id int64, upd *models.AppUpdate, entered string) (*models.App, error) {
	b, err := json.Marshal(upd)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, err
	}

	resp, err := c.authenticatedDo(http.MethodPut, fmt.Sprintf("%s/%d", apiApps, id), payload, entered)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var updated models.App
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteApp deletes one app through the fallback chain.
func (c *Client) DeleteApp(id int64, entered string) error {
	resp, err := c.authenticatedDo(http.MethodDelete, fmt.Sprintf("%s/%d", apiApps, id), nil, entered)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

// BulkDeleteApps deletes several apps through the fallback chain: the
// working password is resolved once (cached first, then the entered
// candidate, caching the winner) and the per-id requests fan out with it.
// Each id fails or succeeds on its own; the returned map holds the error per
// failed id.
func (c *Client) BulkDeleteApps(ids []int64, entered string) map[int64]error {
	failed := make(map[int64]error, len(ids))

	ok, err := c.VerifyAdmin(entered)
	if err == nil && !ok {
		err = ErrUnauthorized
	}
	if err != nil {
		for _, id := range ids {
			failed[id] = err
		}
		return failed
	}
	password := c.cache.Get()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			resp, err := c.doJSON(http.MethodDelete, fmt.Sprintf("%s/%d", apiApps, id), nil, password)
			if err == nil {
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					err = responseError(resp)
				}
			}
			if err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()
	return failed
}

// CheckPassword asks the server whether candidate is the current admin
// password. The server answers 200 with a valid flag either way.
func (c *Client) CheckPassword(candidate string) (bool, error) {
	resp, err := c.doJSON(http.MethodPost, apiCheck, map[string]any{"password": candidate}, "")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, responseError(resp)
	}

	var result struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.Valid, nil
}

// VerifyAdmin runs the fallback chain against the check endpoint: cached
// password first, then the entered candidate, caching the candidate when it
// is the one that matched.
func (c *Client) VerifyAdmin(entered string) (bool, error) {
	stored := c.cache.Get()
	ok, err := c.CheckPassword(stored)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	entered = strings.TrimSpace(entered)
	if entered == "" || entered == stored {
		return false, nil
	}
	ok, err = c.CheckPassword(entered)
	if err != nil {
		return false, err
	}
	if ok {
		_ = c.cache.Set(entered)
	}
	return ok, nil
}

// ChangePassword rotates the admin password and updates the local cache.
func (c *Client) ChangePassword(current, newPassword string) error {
	resp, err := c.doJSON(http.MethodPut, apiPassword, map[string]any{
		"currentPassword": current,
		"newPassword":     newPassword,
	}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return c.cache.Set(strings.TrimSpace(newPassword))
}

// appPayload flattens an App into the JSON body expected by create.
func appPayload(app *models.App) map[string]any {
	b, _ := json.Marshal(app)
	var payload map[string]any
	_ = json.Unmarshal(b, &payload)
	delete(payload, "id")
	delete(payload, "created_at")
	delete(payload, "updated_at")
	return payload
}
