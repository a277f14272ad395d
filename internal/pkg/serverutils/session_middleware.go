// FILE: internal/pkg/serverutils/session_middleware.go
package serverutils

import (
	"marketmind-be/internal/pkg/apperr"
	"marketmind-be/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
)

// SessionMiddleware is the single authorization gate: it reads the session
// cookie, verifies it and attaches the subject as "user_id". Every chat
// route must sit behind it. The verified cache only skips re-running the
// HMAC for tokens seen recently; a miss always falls back to Verify.
func SessionMiddleware(codec *token.Codec, cookieName string, verified *cache.Cache) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		raw := ctx.Cookies(cookieName)
		if raw == "" {
			return apperr.New(apperr.KindUnauthenticated, "Unauthorized. No token provided.")
		}

		if cached, found := verified.Get(raw); found {
			ctx.Locals("user_id", cached.(string))
			return ctx.Next()
		}

		subject, err := codec.Verify(raw)
		if err != nil {
			return apperr.Wrap(apperr.KindUnauthenticated, "Invalid token.", err)
		}

		verified.Set(raw, subject, cache.DefaultExpiration)
		ctx.Locals("user_id", subject)
		return ctx.Next()
	}
}

// UserId reads the authenticated identity set by SessionMiddleware.
func UserId(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals("user_id").(string); ok {
		return v
	}
	return ""
}
