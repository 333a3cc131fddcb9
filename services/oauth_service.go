package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/gardenexchange/backend/config"
	"github.com/gardenexchange/backend/logger"
	"github.com/gardenexchange/backend/models"
)

const (
	robloxTokenURL     = "https://apis.roblox.com/oauth/v1/token"
	robloxUserInfoURL  = "https://apis.roblox.com/oauth/v1/userinfo"
	robloxThumbnailURL = "https://thumbnails.roblox.com/v1/users/avatar-headshot"
)

// ErrCodeExpired marks an authorization code that was already used or
// timed out. The handler maps it to a distinct status so the frontend
// can restart the login flow instead of surfacing a generic failure.
var ErrCodeExpired = errors.New("oauth: authorization code expired or already used")

// OAuthService drives the Roblox authorization-code exchange.
type OAuthService struct {
	cfg    config.OAuthConfig
	client *http.Client
}

func NewOAuthService(cfg config.OAuthConfig) *OAuthService {
	return &OAuthService{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *OAuthService) Enabled() bool {
	return s.cfg.ClientID != "" && s.cfg.ClientSecret != ""
}

type userInfoResponse struct {
	Sub               string `json:"sub"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Picture           string `json:"picture"`
}

// ExchangeCode swaps an authorization code for an access token.
func (s *OAuthService) ExchangeCode(ctx context.Context, code string) (string, error) {
	conf := &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RedirectURL:  s.cfg.RedirectURL,
		Endpoint:     oauth2.Endpoint{TokenURL: robloxTokenURL},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			if isExpiredCodeError(rerr.Response.StatusCode, string(rerr.Body)) {
				return "", ErrCodeExpired
			}
			logger.LogError("Roblox token exchange failed", err,
				slog.String("body", truncate(string(rerr.Body), 256)))
		}
		return "", fmt.Errorf("oauth: token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("oauth: token response missing access_token")
	}
	return token.AccessToken, nil
}

// FetchUser resolves the authenticated Roblox user behind a token.
func (s *OAuthService) FetchUser(ctx context.Context, accessToken string) (*models.RobloxUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robloxUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth: userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth: userinfo endpoint returned %d", resp.StatusCode)
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("oauth: malformed userinfo response: %w", err)
	}

	id, err := strconv.ParseInt(info.Sub, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("oauth: non-numeric subject %q", info.Sub)
	}

	user := &models.RobloxUser{
		ID:          id,
		Username:    info.PreferredUsername,
		DisplayName: info.Name,
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	user.ProfileImageURL = s.avatarURL(ctx, id, info.Picture)
	return user, nil
}

// avatarURL prefers the thumbnails API headshot and rewrites it to go
// through the image proxy, falling back to a generated placeholder.
func (s *OAuthService) avatarURL(ctx context.Context, userID int64, picture string) string {
	if cdn := s.fetchHeadshot(ctx, userID); cdn != "" {
		return "/api/image-proxy?url=" + url.QueryEscape(cdn)
	}
	if picture != "" {
		return "/api/image-proxy?url=" + url.QueryEscape(picture)
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%d&background=random", userID)
}

type thumbnailResponse struct {
	Data []struct {
		ImageURL string `json:"imageUrl"`
		State    string `json:"state"`
	} `json:"data"`
}

func (s *OAuthService) fetchHeadshot(ctx context.Context, userID int64) string {
	endpoint := fmt.Sprintf("%s?userIds=%d&size=150x150&format=Png&isCircular=true", robloxThumbnailURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ""
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var thumbs thumbnailResponse
	if err := json.NewDecoder(resp.Body).Decode(&thumbs); err != nil {
		return ""
	}
	if len(thumbs.Data) == 0 || thumbs.Data[0].State != "Completed" {
		return ""
	}
	return thumbs.Data[0].ImageURL
}

// isExpiredCodeError recognizes the spent-code failure by the error
// strings Roblox actually returns; there is no stable machine-readable
// code for it.
func isExpiredCodeError(status int, body string) bool {
	if status != http.StatusBadRequest && status != http.StatusUnauthorized {
		return false
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "authorization_expired") ||
		strings.Contains(lower, "invalid_grant") ||
		strings.Contains(lower, "expired")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
