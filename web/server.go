package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/auth"
	"github.com/tashrifatdiu/mcsc-client/editor"
	"github.com/tashrifatdiu/mcsc-client/jwt"
)

// Config wires the server against its collaborators.
type Config struct {
	Journals      JournalAPI
	Registrations RegistrationAPI
	Drafts        mcsc.DraftStore
	Index         mcsc.JournalIndex
	Renderer      editor.MathRenderer

	// Google, when set, mounts the Google sign-in flow.
	Google *auth.GoogleService

	// JWTKey verifies session tokens on the introspection endpoint.
	JWTKey []byte
}

// NewServer builds the HTTP front end: the journal and registration handlers
// under /api plus the session endpoint.
func NewServer(cfg Config) http.Handler {
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
		}
		c.Next()
	})

	api := router.Group("/api")

	jh := &JournalHandler{
		API:      cfg.Journals,
		Drafts:   cfg.Drafts,
		Index:    cfg.Index,
		Identity: bearerIdentity{},
		Renderer: cfg.Renderer,
	}
	jh.Register(api)

	if cfg.Registrations != nil {
		rh := &RegistrationHandler{API: cfg.Registrations}
		rh.Register(api)
	}

	if cfg.Google != nil {
		gh := &GoogleHandler{Service: cfg.Google}
		gh.Register(router)
	}

	RegisterSessionRoutes(router, cfg.JWTKey)

	return router
}

// bearerIdentity reads the caller identity off the bearer token without
// verifying the signature. The persistence API verifies it; this identity
// only drives advisory ownership checks and draft attribution.
type bearerIdentity struct{}

func (bearerIdentity) UserID(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	claims, err := jwt.DecodeUnverified(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return ""
	}
	return claims.UserID()
}
