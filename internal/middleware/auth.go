package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"wfgpos/internal/access"
	"wfgpos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey    = "claims"
	PrincipalKey = "principal"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	AccountID  string   `json:"account_id"`
	EmployeeID string   `json:"employee_id"`
	BusinessID *string  `json:"business_id,omitempty"`
	BranchID   *string  `json:"branch_id,omitempty"`
	Username   string   `json:"username"`
	Caps       []string `json:"caps"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the service-layer identity. Unknown
// capability names and malformed ids are rejected.
func (c *JWTClaims) Principal() (access.Principal, error) {
	var p access.Principal
	var err error
	if p.AccountID, err = uuid.Parse(c.AccountID); err != nil {
		return p, errors.New("invalid account_id claim")
	}
	if p.EmployeeID, err = uuid.Parse(c.EmployeeID); err != nil {
		return p, errors.New("invalid employee_id claim")
	}
	if p.BusinessID, err = optUUID(c.BusinessID); err != nil {
		return p, errors.New("invalid business_id claim")
	}
	if p.BranchID, err = optUUID(c.BranchID); err != nil {
		return p, errors.New("invalid branch_id claim")
	}
	if p.Caps, err = access.Parse(c.Caps); err != nil {
		return p, err
	}
	p.Username = c.Username
	return p, nil
}

func optUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// NewToken signs an HS256 access token for p. Token issuance proper lives in
// the identity service; this is used by the seed command and tests.
func NewToken(secret string, p access.Principal, ttl time.Duration) (string, error) {
	claims := JWTClaims{
		AccountID:  p.AccountID.String(),
		EmployeeID: p.EmployeeID.String(),
		Username:   p.Username,
		Caps:       p.Caps.Names(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.AccountID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	if p.BusinessID != nil {
		s := p.BusinessID.String()
		claims.BusinessID = &s
	}
	if p.BranchID != nil {
		s := p.BranchID.String()
		claims.BranchID = &s
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid or expired token"))
			return
		}

		p, err := claims.Principal()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid token claims"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// RequireCapability rejects requests whose principal holds none of caps.
func RequireCapability(caps ...access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := c.Get(PrincipalKey)
		if !ok || !p.(access.Principal).Can(caps...) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// GetPrincipal returns the authenticated principal set by JWTAuth.
func GetPrincipal(c *gin.Context) access.Principal {
	p, _ := c.MustGet(PrincipalKey).(access.Principal)
	return p
}
