package gatewayes

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/rpc"
)

var (
	defaultJWTSecret = "replacemereplacemereplacemereplacemereplace"
	defaultJWTEnvVar = "GRPC_GATEWAY_ES_JWT_SECRET"
	defaultJWTTTL    = 5 * time.Minute
)

// JWTConfig configures a JWTTokenSource.
type JWTConfig struct {
	// Secret is the HMAC key. When empty it is read from the
	// GRPC_GATEWAY_ES_JWT_SECRET environment variable.
	Secret   string
	Issuer   string
	Subject  string
	Audience []string
	// TTL is the lifetime of each token, 5 minutes by default.
	TTL time.Duration
	// Claims are added to every token next to the registered ones.
	Claims map[string]any
}

// JWTTokenSource mints a fresh HS256 token for every request.
type JWTTokenSource struct {
	cfg    JWTConfig
	secret []byte
	now    func() time.Time
}

var _ rpc.TokenSource = &JWTTokenSource{}

func NewJWTTokenSource(cfg JWTConfig) *JWTTokenSource {
	secret := cfg.Secret
	if secret == "" {
		secret = os.Getenv(defaultJWTEnvVar)
	}
	if secret == "" {
		secret = defaultJWTSecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultJWTTTL
	}
	return &JWTTokenSource{cfg: cfg, secret: []byte(secret), now: time.Now}
}

// Mint signs a new token.
func (s *JWTTokenSource) Mint() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{}
	for k, v := range s.cfg.Claims {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["nbf"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.cfg.TTL))
	if s.cfg.Issuer != "" {
		claims["iss"] = s.cfg.Issuer
	}
	if s.cfg.Subject != "" {
		claims["sub"] = s.cfg.Subject
	}
	if len(s.cfg.Audience) > 0 {
		claims["aud"] = jwt.ClaimStrings(s.cfg.Audience)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing jwt")
	}
	return signed, nil
}

// Token implements rpc.TokenSource. A signing failure is logged and yields
// no token, so the request goes out without an Authorization header.
func (s *JWTTokenSource) Token() string {
	token, err := s.Mint()
	if err != nil {
		log.Error().Err(err).Msg("minting bearer token")
		return ""
	}
	return token
}

// Verify parses an Authorization header value minted by this source.
func (s *JWTTokenSource) Verify(authorization string) (jwt.MapClaims, error) {
	return ParseBearer(authorization, s.secret)
}

var extractBearer = regexp.MustCompile("Bearer (.+)")

// ParseBearer verifies the token of an "Authorization: Bearer <jwt>"
// header value against secret and returns its claims.
func ParseBearer(authorization string, secret []byte) (jwt.MapClaims, error) {
	jwtParts := extractBearer.FindStringSubmatch(authorization)
	if len(jwtParts) != 2 {
		return nil, fmt.Errorf("unexpected number of parts in authorization header(%d)", len(jwtParts))
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(jwtParts[1], claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "jwt")
	}
	if !token.Valid {
		return nil, errors.New("jwt: invalid token")
	}
	return claims, nil
}

// ClaimStrings flattens claims into sorted "key=value" strings, joining
// list values with commas.
func ClaimStrings(claims jwt.MapClaims) []string {
	result := make([]string, 0, len(claims))
	for k, v := range claims {
		val := ""
		switch v := v.(type) {
		case []any:
			s := make([]string, 0, len(v))
			for _, item := range v {
				s = append(s, fmt.Sprint(item))
			}
			val = strings.Join(s, ",")
		default:
			val = fmt.Sprint(v)
		}
		result = append(result, k+"="+val)
	}
	sort.Strings(result)
	return result
}
