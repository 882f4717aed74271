package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vee4group/order-tracker-api/config"
	"github.com/vee4group/order-tracker-api/models"
)

const (
	userIDKey      = "user_id"
	claimsKey      = "validated_claims"
	accessTokenKey = "access_token"
	currentUserKey = "current_user"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Scope string `json:"scope"`
	Role  string `json:"https://vee4group.com/role"`
}

// Validate accepts only roles the application knows about.
func (c CustomClaims) Validate(ctx context.Context) error {
	switch c.Role {
	case "", models.RoleCustomer, models.RoleAdmin:
		return nil
	}
	return errors.New("unknown role claim: " + c.Role)
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse the issuer url")
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up the jwt validator")
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Encountered error while validating JWT")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"message":"Failed to validate JWT.","error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			log.Error().Err(writeErr).Msg("Failed to write error response")
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set(userIDKey, token.RegisteredClaims.Subject)
			c.Set(claimsKey, token)
			if raw, ok := bearerToken(r.Header.Get("Authorization")); ok {
				c.Set(accessTokenKey, raw)
			}
			c.Request = r

			c.Next()
		}

		// Use the JWT middleware to check the token
		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if c.Writer.Written() && c.Writer.Status() == http.StatusUnauthorized {
			c.Abort()
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetAccessToken extracts the raw bearer token from the Gin context
func GetAccessToken(c *gin.Context) (string, error) {
	token, exists := c.Get(accessTokenKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Access token not found in context"}
	}

	tokenStr, ok := token.(string)
	if !ok || tokenStr == "" {
		return "", &AuthError{Code: "INVALID_TOKEN", Message: "Access token is not a string"}
	}

	return tokenStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetRoleClaim returns the role carried in the token, or "" when absent
func GetRoleClaim(c *gin.Context) string {
	claims, err := GetClaims(c)
	if err != nil {
		return ""
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom.Role
	}
	return ""
}

// LoadUser looks up the profile of the authenticated user and stores it in the
// context. Requests from users without a profile get 404.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth0ID, err := GetUserID(c)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
			return
		}

		var user models.User
		err = config.GetDB().WithContext(c.Request.Context()).Where("auth0_id = ?", auth0ID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortJSON(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found. Please create a profile first.")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to load user profile")
			abortJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load user profile")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the profile stored by LoadUser
func CurrentUser(c *gin.Context) (models.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}
	user, ok := value.(models.User)
	if !ok {
		return models.User{}, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}
	return user, nil
}

// RequireAdmin rejects requests from users whose stored role is not admin.
// It must run after LoadUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not retrieve user profile")
			return
		}

		if !user.IsAdmin() {
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "Not authorized as an admin")
			return
		}

		c.Next()
	}
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
