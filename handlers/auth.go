package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	dbmodels "github.com/gardenexchange/backend/database/models"
	"github.com/gardenexchange/backend/middleware"
	"github.com/gardenexchange/backend/services"
	"github.com/gardenexchange/backend/storage"
	"github.com/gardenexchange/backend/utils"
)

// RobloxCallback completes the OAuth code flow: exchanges the code,
// resolves the Roblox user, upserts the profile and, when a signing
// key is configured, sets a signed session cookie.
func (app *WebApp) RobloxCallback(c *fiber.Ctx) error {
	if !app.OAuth.Enabled() {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "Roblox login is not configured")
	}

	var req struct {
		Code  string `json:"code"`
		State string `json:"state"`
	}
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return utils.SendBadRequest(c, "Authorization code is required")
	}

	token, err := app.OAuth.ExchangeCode(c.Context(), req.Code)
	if err != nil {
		if errors.Is(err, services.ErrCodeExpired) {
			return utils.SendBadRequest(c, "Authorization code expired, please login again")
		}
		slog.Error("OAuth code exchange failed", slog.String("error", err.Error()))
		return utils.SendBadRequest(c, "Login failed")
	}

	robloxUser, err := app.OAuth.FetchUser(c.Context(), token)
	if err != nil {
		slog.Error("OAuth userinfo fetch failed", slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Login failed")
	}

	userID := strconv.FormatInt(robloxUser.ID, 10)
	profile := &dbmodels.User{
		ID:              userID,
		Username:        robloxUser.Username,
		FirstName:       robloxUser.DisplayName,
		ProfileImageURL: robloxUser.ProfileImageURL,
	}
	if _, err := app.Backends.Trades.UpsertUser(c.Context(), profile); err != nil {
		slog.Error("Failed to upsert user after login",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Login failed")
	}

	if app.Sessions.Enabled() {
		cookie, sess, err := app.Sessions.Issue(userID, robloxUser.Username, robloxUser.ProfileImageURL)
		if err != nil {
			slog.Error("Failed to issue session", slog.String("error", err.Error()))
		} else {
			c.Cookie(&fiber.Cookie{
				Name:     services.SessionCookieName,
				Value:    cookie,
				Expires:  sess.ExpiresAt,
				HTTPOnly: true,
				Secure:   true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Path:     "/",
			})
		}
	}

	slog.Info("User logged in",
		slog.String("user_id", userID),
		slog.String("username", robloxUser.Username))

	return utils.SendOK(c, robloxUser)
}

// Logout clears the session cookie. The header-based identity has no
// server-side state to clear.
func (app *WebApp) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
	return utils.SendOK(c, fiber.Map{"message": "Logged out"})
}

// GetMe returns the stored profile behind the current identity.
func (app *WebApp) GetMe(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	user, err := app.Backends.Trades.GetUser(c.Context(), identity.IDString())
	if err != nil {
		if storage.IsNotFound(err) {
			if user, err = app.Backends.Trades.GetUserByUsername(c.Context(), identity.Username); err == nil {
				return utils.SendOK(c, user)
			}
			if storage.IsNotFound(err) {
				return utils.SendNotFound(c, "User not found")
			}
		}
		slog.Error("Failed to fetch user profile",
			slog.String("user_id", identity.IDString()),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch profile")
	}
	return utils.SendOK(c, user)
}
