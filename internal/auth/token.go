package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dukerupert/csemotors/internal/model"
)

const (
	TokenCookieName = "jwt"
	TokenTTL        = time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrPasswordSet  = errors.New("account password must be stripped before issuing a token")
)

// Claims carries the account fields embedded in the auth token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64             `json:"account_id"`
	FirstName string            `json:"account_firstname"`
	LastName  string            `json:"account_lastname"`
	Email     string            `json:"account_email"`
	Type      model.AccountType `json:"account_type"`
}

// TokenIssuer signs and verifies HS256 tokens and manages the jwt cookie.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewTokenIssuer returns an issuer for secret. secure marks the cookie
// Secure and is off for local development.
func NewTokenIssuer(secret string, secure bool) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    TokenTTL,
		secure: secure,
		now:    time.Now,
	}
}

func (ti *TokenIssuer) Issue(p Principal) (string, error) {
	now := ti.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
		AccountID: p.AccountID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Type:      p.Type,
	})

	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the embedded identity.
func (ti *TokenIssuer) Parse(tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(ti.now))
	if err != nil {
		return Principal{}, err
	}
	if !token.Valid || claims.AccountID == 0 {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		AccountID: claims.AccountID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
		Type:      claims.Type,
	}, nil
}

// SetCookie issues a token for account and writes it as the jwt cookie. The
// caller must clear account.Password first.
func (ti *TokenIssuer) SetCookie(w http.ResponseWriter, account *model.Account) error {
	if account.Password != "" {
		return ErrPasswordSet
	}
	token, err := ti.Issue(PrincipalFor(account))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ti.ttl.Seconds()),
		HttpOnly: true,
		Secure:   ti.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (ti *TokenIssuer) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ti.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
