package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	jwtgo "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gin-gonic/gin"

	"github.com/tashrifatdiu/mcsc-client/errors"
	"github.com/tashrifatdiu/mcsc-client/jwt"
)

// RegisterSessionRoutes mounts the session introspection endpoint. The front
// end calls it on load to decide between the signed-in and signed-out shells;
// the bearer token is the provider-issued JWT.
func RegisterSessionRoutes(router gin.IRouter, jwtKey []byte) {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerBefore(kitjwt.HTTPToContext()),
	}

	authenticationMiddleware := sessionMiddleware(jwtKey)

	meHandler := kithttp.NewServer(
		authenticationMiddleware(makeMeEndpoint()),
		decodeMeRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)
	router.GET("/session/me", gin.WrapH(meHandler))
}

func sessionMiddleware(key []byte) endpoint.Middleware {
	return kitjwt.NewParser(func(token *jwtgo.Token) (interface{}, error) {
		return key, nil
	}, jwtgo.SigningMethodHS256, func() jwtgo.Claims {
		return &jwt.Claims{}
	})
}

func makeMeEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		claims, ok := ctx.Value(kitjwt.JWTClaimsContextKey).(*jwt.Claims)
		if !ok {
			return nil, errors.New("no session", errors.Unauthorized())
		}
		if claims.Expired(time.Now()) {
			return nil, errors.New("session expired", errors.Unauthorized())
		}

		return map[string]interface{}{
			"user": map[string]string{
				"id":    claims.UserID(),
				"email": claims.Email,
				"role":  claims.Role,
			},
		}, nil
	}
}

func decodeMeRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()
	return nil, nil
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	status := statusCode(err)
	if err == kitjwt.ErrTokenContextMissing || err == kitjwt.ErrTokenInvalid || err == kitjwt.ErrTokenExpired {
		status = http.StatusUnauthorized
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
