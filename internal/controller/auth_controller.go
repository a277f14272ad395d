// FILE: internal/controller/auth_controller.go
package controller

import (
	"time"

	"marketmind-be/internal/config"
	"marketmind-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	GenerateUserId(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	RefreshToken(ctx *fiber.Ctx) error
}

type authController struct {
	service    service.IAuthService
	authConfig config.AuthConfig
	secure     bool
}

func NewAuthController(service service.IAuthService, authConfig config.AuthConfig, secure bool) IAuthController {
	return &authController{
		service:    service,
		authConfig: authConfig,
		secure:     secure,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Get("/generate-user-id", c.GenerateUserId)
	h.Get("/status", c.Status)
	h.Get("/refresh-token", c.RefreshToken)
}

func (c *authController) GenerateUserId(ctx *fiber.Ctx) error {
	res, signedToken, err := c.service.GenerateUserId(ctx.Context())
	if err != nil {
		return err
	}

	c.setSessionCookie(ctx, signedToken)
	return ctx.JSON(res)
}

// Status is not behind the session middleware on purpose: an invalid or
// missing cookie is a normal answer here, not a rejection worth a generic
// error body.
func (c *authController) Status(ctx *fiber.Ctx) error {
	res := c.service.Status(ctx.Cookies(c.authConfig.CookieName))
	if !res.Authenticated {
		return ctx.Status(fiber.StatusUnauthorized).JSON(res)
	}
	return ctx.JSON(res)
}

func (c *authController) RefreshToken(ctx *fiber.Ctx) error {
	subject, signedToken, err := c.service.Refresh(ctx.Cookies(c.authConfig.CookieName))
	if err != nil {
		return err
	}

	c.setSessionCookie(ctx, signedToken)
	return ctx.JSON(fiber.Map{
		"authenticated": true,
		"userId":        subject,
	})
}

func (c *authController) setSessionCookie(ctx *fiber.Ctx, signedToken string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     c.authConfig.CookieName,
		Value:    signedToken,
		Expires:  time.Now().Add(c.authConfig.TokenTTL),
		HTTPOnly: true,
		Secure:   c.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}
