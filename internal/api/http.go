package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/josselin06/Borobo-stage-2025/internal/common"
	"github.com/josselin06/Borobo-stage-2025/internal/fleet"
)

// HTTPClient is the concrete Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the backend at baseURL. A zero timeout
// disables the per-request deadline; callers should not do that in
// production, a hung backend would hang the console with it.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func setBearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

func (c *HTTPClient) Authenticate(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrServer, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrServer, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return "", common.ErrInvalidCredentials
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("%w: unexpected status %s", common.ErrServer, resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %v", common.ErrServer, err)
	}
	return body.AccessToken, nil
}

func (c *HTTPClient) FetchRobotTree(ctx context.Context, token string) ([]fleet.RobotFolder, error) {
	var tree []fleet.RobotFolder
	if err := c.fetchJSON(ctx, token, "/robots/tree", &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (c *HTTPClient) FetchRobotStatus(ctx context.Context, token string) ([]fleet.RobotStatus, error) {
	var statuses []fleet.RobotStatus
	if err := c.fetchJSON(ctx, token, "/robots/status", &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (c *HTTPClient) FetchMaintenanceReports(ctx context.Context, token string) ([]fleet.MaintenanceBundle, error) {
	var bundles []fleet.MaintenanceBundle
	if err := c.fetchJSON(ctx, token, "/maintenance/reports", &bundles); err != nil {
		return nil, err
	}
	return bundles, nil
}

// fetchJSON performs an authenticated GET and decodes the JSON body into out.
// A 401 means the backend session is gone; anything else that fails maps to
// ErrFetch.
func (c *HTTPClient) fetchJSON(ctx context.Context, token, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrFetch, err)
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrSessionExpired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: GET %s: unexpected status %s", common.ErrFetch, path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: decoding body: %v", common.ErrFetch, path, err)
	}
	return nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"old_password":     oldPassword,
		"new_password":     newPassword,
		"confirm_password": confirmPassword,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrServer, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/users/change-password", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrServer, err)
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrServer, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrServer, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", common.ErrSessionExpired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &common.BackendRejectionError{Message: extractDetail(body, resp.Status)}
	}

	var ok struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &ok); err != nil || ok.Detail == "" {
		return "Mot de passe changé avec succès.", nil
	}
	return ok.Detail, nil
}

// extractDetail pulls the backend's "detail" field out of an error body. The
// backend answers either a plain string or an array of {msg} objects (field
// validation); multiple messages are joined with " ; " so the user sees all
// of them at once. Anything unrecognizable falls back to the raw body or the
// HTTP status line.
func extractDetail(body []byte, status string) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != nil {
		switch detail := payload.Detail.(type) {
		case string:
			return detail
		case []any:
			parts := make([]string, 0, len(detail))
			for _, item := range detail {
				if m, ok := item.(map[string]any); ok {
					if msg, ok := m["msg"].(string); ok {
						parts = append(parts, msg)
						continue
					}
				}
				encoded, _ := json.Marshal(item)
				parts = append(parts, string(encoded))
			}
			return strings.Join(parts, " ; ")
		default:
			encoded, _ := json.Marshal(detail)
			return string(encoded)
		}
	}

	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return status
}

func (c *HTTPClient) DownloadRobotReport(ctx context.Context, token, folderID, filename string) ([]byte, error) {
	path := fmt.Sprintf("/robots/%s/reports/%s", url.PathEscape(folderID), url.PathEscape(filename))
	return c.download(ctx, token, path)
}

func (c *HTTPClient) DownloadRobotArchive(ctx context.Context, token, folderID string) ([]byte, error) {
	path := fmt.Sprintf("/robots/%s/reports/all", url.PathEscape(folderID))
	return c.download(ctx, token, path)
}

func (c *HTTPClient) DownloadMaintenanceReport(ctx context.Context, token, folderID, filename string) ([]byte, error) {
	query := url.Values{}
	query.Set("robot_folder", folderID)
	query.Set("filename", filename)
	return c.download(ctx, token, "/maintenance/download?"+query.Encode())
}

func (c *HTTPClient) DownloadMaintenanceArchive(ctx context.Context, token, folderID string) ([]byte, error) {
	path := fmt.Sprintf("/maintenance/%s/reports/all", url.PathEscape(folderID))
	return c.download(ctx, token, path)
}

// download performs an authenticated GET expecting a binary payload. Every
// failure maps to ErrDownload: a broken download is an isolated event, it
// must not tear down the session or the loaded views.
func (c *HTTPClient) download(ctx context.Context, token, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDownload, err)
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: unexpected status %s", common.ErrDownload, path, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading payload: %v", common.ErrDownload, err)
	}
	return payload, nil
}
