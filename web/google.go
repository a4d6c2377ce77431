package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tashrifatdiu/mcsc-client/auth"
)

// GoogleHandler mounts the Google sign-in flow: a redirect to the consent
// page and the callback that completes the session.
type GoogleHandler struct {
	Service *auth.GoogleService

	f Formatter
}

func (h *GoogleHandler) Register(router gin.IRouter) {
	router.GET("/auth/google/login", h.Login)
	router.GET("/auth/google/callback", h.f.Wrap(h.Callback))
}

func (h *GoogleHandler) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, h.Service.LoginURL())
}

func (h *GoogleHandler) Callback(c *gin.Context) (interface{}, error) {
	session, err := h.Service.Login(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"access_token": session.AccessToken,
		"user":         session.User,
	}, nil
}
