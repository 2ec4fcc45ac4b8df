package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/maheshrc27/bizhub-api/configs"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
	"github.com/redis/go-redis/v9"
)

const (
	StateTTL       = 15 * time.Minute
	stateKeyPrefix = "oauth_state:"
)

var ErrInvalidState = errors.New("invalid oauth state")

// StateCodec turns the correlation payload into the opaque `state` parameter
// and back. Decode never panics on hostile input.
type StateCodec interface {
	Encode(ctx context.Context, st transfer.OAuthState) (string, error)
	Decode(ctx context.Context, raw string) (*transfer.OAuthState, error)
}

func NewStateCodec(cfg *config.Config, rdb *redis.Client) (StateCodec, error) {
	switch cfg.StateMode {
	case config.StateModeSigned:
		return NewSignedStateCodec(cfg.StateSecret, StateTTL), nil
	case config.StateModeServer:
		if rdb == nil {
			return nil, errors.New("server-side oauth state needs redis")
		}
		return NewServerStateCodec(&redisNonceStore{client: rdb}, StateTTL), nil
	case config.StateModePlain:
		if cfg.IsProduction() {
			return nil, errors.New("plain oauth state is not allowed in production")
		}
		return PlainStateCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown oauth state mode %q", cfg.StateMode)
	}
}

type signedStateCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedStateCodec issues HS256 tokens that only the holder of secret can
// produce or read back.
func NewSignedStateCodec(secret string, ttl time.Duration) StateCodec {
	return &signedStateCodec{secret: []byte(secret), ttl: ttl}
}

func (c *signedStateCodec) Encode(ctx context.Context, st transfer.OAuthState) (string, error) {
	jti, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := transfer.StateClaims{
		BusinessID:  st.BusinessID,
		RedirectURI: st.RedirectURI,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return signed, nil
}

func (c *signedStateCodec) Decode(ctx context.Context, raw string) (*transfer.OAuthState, error) {
	if raw == "" {
		return nil, ErrInvalidState
	}

	token, err := jwt.ParseWithClaims(raw, &transfer.StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	claims, ok := token.Claims.(*transfer.StateClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidState
	}
	return &transfer.OAuthState{BusinessID: claims.BusinessID, RedirectURI: claims.RedirectURI}, nil
}

// nonceStore keeps server-side state payloads. GetDel must remove the entry.
type nonceStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
}

type redisNonceStore struct {
	client *redis.Client
}

func (s *redisNonceStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisNonceStore) GetDel(ctx context.Context, key string) (string, error) {
	value, err := s.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidState
	}
	return value, err
}

type serverStateCodec struct {
	nonces nonceStore
	ttl    time.Duration
}

// NewServerStateCodec hands out random nonces and keeps the payload server-side.
// A nonce can be decoded once.
func NewServerStateCodec(nonces nonceStore, ttl time.Duration) StateCodec {
	return &serverStateCodec{nonces: nonces, ttl: ttl}
}

func (c *serverStateCodec) Encode(ctx context.Context, st transfer.OAuthState) (string, error) {
	nonce, err := gonanoid.New(32)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	if err := c.nonces.Set(ctx, stateKeyPrefix+nonce, string(payload), c.ttl); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return nonce, nil
}

func (c *serverStateCodec) Decode(ctx context.Context, raw string) (*transfer.OAuthState, error) {
	if raw == "" {
		return nil, ErrInvalidState
	}

	payload, err := c.nonces.GetDel(ctx, stateKeyPrefix+raw)
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	var st transfer.OAuthState
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return &st, nil
}

// PlainStateCodec is base64(JSON) with no integrity protection. Development only.
type PlainStateCodec struct{}

func (PlainStateCodec) Encode(ctx context.Context, st transfer.OAuthState) (string, error) {
	payload, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

func (PlainStateCodec) Decode(ctx context.Context, raw string) (*transfer.OAuthState, error) {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	var st transfer.OAuthState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return &st, nil
}
