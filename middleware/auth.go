package middleware

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gardenexchange/backend/models"
	"github.com/gardenexchange/backend/services"
	"github.com/gardenexchange/backend/utils"
)

// UserDataHeader carries the client-asserted identity as a JSON object
// with id and username fields.
const UserDataHeader = "x-user-data"

// identityKey is the c.Locals key the resolved identity is stored under.
const identityKey = "identity"

// IdentityRequired resolves the caller identity and rejects requests
// that carry none. A valid signed session cookie wins over the header;
// the header path keeps the legacy frontend contract: missing header
// is 401, unparseable header is 400.
func IdentityRequired(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, handled, err := resolveIdentity(c, sessions)
		if handled || err != nil {
			return err
		}
		if identity == nil {
			slog.Debug("Identity required: no credentials on request",
				slog.String("path", c.Path()))
			return utils.SendUnauthorized(c, "User not authenticated")
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// OptionalIdentity resolves the identity when present but lets
// anonymous requests through. A malformed header is still a 400;
// silently dropping it would hide client bugs.
func OptionalIdentity(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, handled, err := resolveIdentity(c, sessions)
		if handled || err != nil {
			return err
		}
		if identity != nil {
			c.Locals(identityKey, identity)
		}
		return c.Next()
	}
}

// GetIdentity fetches the identity stored by the auth middleware.
func GetIdentity(c *fiber.Ctx) *models.UserIdentity {
	identity, _ := c.Locals(identityKey).(*models.UserIdentity)
	return identity
}

// resolveIdentity returns the caller identity, or nil when the request
// is anonymous. handled is true when a 400 for a malformed header has
// already been written.
func resolveIdentity(c *fiber.Ctx, sessions *services.SessionService) (identity *models.UserIdentity, handled bool, err error) {
	if sessions != nil && sessions.Enabled() {
		if token := c.Cookies(services.SessionCookieName); token != "" {
			sess, verr := sessions.Verify(token)
			if verr == nil {
				return sess.Identity(), false, nil
			}
			slog.Debug("Session cookie rejected", slog.String("error", verr.Error()))
		}
	}

	raw := c.Get(UserDataHeader)
	if strings.TrimSpace(raw) == "" {
		return nil, false, nil
	}

	var claimed models.UserIdentity
	if uerr := json.Unmarshal([]byte(raw), &claimed); uerr != nil {
		slog.Debug("Malformed x-user-data header",
			slog.String("path", c.Path()),
			slog.String("error", uerr.Error()))
		return nil, true, utils.SendBadRequest(c, "Invalid user data")
	}
	if claimed.IDString() == "" && claimed.Username == "" {
		return nil, true, utils.SendBadRequest(c, "Invalid user data")
	}
	return &claimed, false, nil
}
