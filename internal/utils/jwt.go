package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel verification errors
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Verification failures.  Every failure other than expiry (malformed input,
// tampered payload, wrong secret, unexpected algorithm) is reported as
// ErrInvalidSignature.
var (
    ErrInvalidSignature = errors.New("invalid token signature")
    ErrExpired          = errors.New("token expired")
)

// DefaultTokenTTL is the access token lifetime AuthHandler.tokenTTL falls
// back to when TOKEN_TTL_MIN is not positive.  IssueToken itself uses the
// ttl it is given.
const DefaultTokenTTL = time.Hour

// Payload is the identity carried by an access token.
type Payload struct {
    ID       uint64 `json:"id"`
    Role     string `json:"role"`
    Username string `json:"username"`
}

// Claims embeds the payload next to the registered exp/iat claims.
type Claims struct {
    Payload
    jwt.RegisteredClaims
}

// AccessToken represents a signed JWT along with its expiry.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// IssueToken signs payload with HS256.  The token expires ttl after now;
// a zero ttl yields a token that is already expired once the clock moves.
func IssueToken(secret string, payload Payload, ttl time.Duration) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := Claims{
        Payload: payload,
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyToken parses raw, checks the HMAC signature against secret and the
// expiry, and returns the payload.
func VerifyToken(secret, raw string) (Payload, error) {
    var claims Claims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSignature
        }
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return Payload{}, ErrExpired
        }
        return Payload{}, ErrInvalidSignature
    }
    if !tok.Valid {
        return Payload{}, ErrInvalidSignature
    }
    return claims.Payload, nil
}
