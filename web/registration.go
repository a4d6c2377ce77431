package web

import (
	"context"

	"github.com/gin-gonic/gin"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/errors"
)

// RegistrationAPI is what the handler needs from the registration client.
type RegistrationAPI interface {
	Register(context.Context, mcsc.Registration) (mcsc.Registration, error)
	Status(context.Context, string) (mcsc.Registration, error)
	Pending(context.Context) ([]mcsc.Registration, error)
	Approve(context.Context, string) error
	AdminLogin(context.Context, string, string) (mcsc.Admin, string, error)
}

// RegistrationHandler fronts the membership workflow: sign up, status checks
// and the admin approval queue.
type RegistrationHandler struct {
	API RegistrationAPI

	f Formatter
}

func (h *RegistrationHandler) Register(router gin.IRouter) {
	router.POST("/registrations", h.f.Wrap(h.Submit))
	router.GET("/registrations/:code", h.f.Wrap(h.Status))
	router.GET("/registrations", h.f.Wrap(h.Pending))
	router.POST("/registrations/:code/approve", h.f.Wrap(h.Approve))
	router.POST("/admin/login", h.f.Wrap(h.AdminLogin))
}

func (h *RegistrationHandler) Submit(c *gin.Context) (interface{}, error) {
	var r mcsc.Registration
	if err := c.BindJSON(&r); err != nil {
		return nil, errors.New("invalid registration", errors.BadRequest(), errors.WithCause(err))
	}

	registered, err := h.API.Register(c.Request.Context(), r)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"registration": registered}, nil
}

func (h *RegistrationHandler) Status(c *gin.Context) (interface{}, error) {
	r, err := h.API.Status(c.Request.Context(), c.Param("code"))
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"registration": r}, nil
}

func (h *RegistrationHandler) Pending(c *gin.Context) (interface{}, error) {
	pending, err := h.API.Pending(c.Request.Context())
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"registrations": pending}, nil
}

func (h *RegistrationHandler) Approve(c *gin.Context) (interface{}, error) {
	code := c.Param("code")
	if err := h.API.Approve(c.Request.Context(), code); err != nil {
		return nil, err
	}

	return map[string]interface{}{"approved": code}, nil
}

func (h *RegistrationHandler) AdminLogin(c *gin.Context) (interface{}, error) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		return nil, errors.New("invalid credentials payload", errors.BadRequest(), errors.WithCause(err))
	}

	admin, token, err := h.API.AdminLogin(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"admin":        admin,
		"access_token": token,
	}, nil
}
