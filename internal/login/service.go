// Package login exchanges a user id and password for bearer tokens once the
// user's OTP session is verified.
package login

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/audit"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/credential"
	credentity "github.com/ovaphlow/pitchfork/service-auth-go/internal/credential/entity"
	identity "github.com/ovaphlow/pitchfork/service-auth-go/internal/identity/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/login/entity"
	otpentity "github.com/ovaphlow/pitchfork/service-auth-go/internal/otp/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/token"
)

// Config holds token lifetimes and cookie policy. Cookie max-ages are kept
// separate from the signed expiries and default to shorter values.
type Config struct {
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	SessionTTL       time.Duration
	AccessCookieAge  time.Duration
	RefreshCookieAge time.Duration
	CookieSecure     bool
}

func DefaultConfig() Config {
	return Config{
		AccessTTL:        time.Minute,
		RefreshTTL:       3 * time.Minute,
		SessionTTL:       24 * time.Hour,
		AccessCookieAge:  60 * time.Second,
		RefreshCookieAge: 180 * time.Second,
		CookieSecure:     true,
	}
}

// ConfigFromEnv starts from DefaultConfig and applies COOKIE_SECURE.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CookieSecure = b
		}
	}
	return cfg
}

type IdentityResolver interface {
	Resolve(ctx context.Context, id identity.Identifier) (identity.Identity, error)
}

type OTPSessions interface {
	Get(ctx context.Context, userID string) (*otpentity.Session, error)
}

type Passwords interface {
	Latest(ctx context.Context, userID string) (*credentity.PasswordRecord, error)
}

type Sessions interface {
	Upsert(ctx context.Context, s entity.Session) error
}

type TokenIssuer interface {
	Issue(userID string, ttl time.Duration) (string, time.Time, error)
	Verify(tokenString string) (*token.Claims, error)
}

// Input is a login attempt. PresentedRefresh is the refresh token cookie,
// if any.
type Input struct {
	UserID           string
	Password         string
	PresentedRefresh string
}

type Service struct {
	cfg        Config
	identities IdentityResolver
	otp        OTPSessions
	passwords  Passwords
	sessions   Sessions
	hasher     credential.PasswordHasher
	tokens     TokenIssuer
	now        func() time.Time
	logger     *zap.SugaredLogger
}

func NewService(cfg Config, identities IdentityResolver, otp OTPSessions, passwords Passwords, sessions Sessions,
	hasher credential.PasswordHasher, tokens TokenIssuer, now func() time.Time, logger *zap.SugaredLogger) *Service {
	if hasher == nil {
		hasher = credential.BcryptHasher{}
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		cfg:        cfg,
		identities: identities,
		otp:        otp,
		passwords:  passwords,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
		now:        now,
		logger:     logger,
	}
}

func (s *Service) Config() Config { return s.cfg }

// Login checks the OTP gate and the password, then issues an access and a
// refresh token for the resolved user id.
func (s *Service) Login(ctx context.Context, in Input, origin audit.Origin) (*entity.Tokens, error) {
	if strings.TrimSpace(in.UserID) == "" || in.Password == "" {
		return nil, apperr.Validation("User ID and Password are required")
	}
	id, err := identity.ParseIdentifier(in.UserID)
	if err != nil {
		return nil, err
	}
	who, err := s.identities.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	sess, err := s.otp.Get(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("load otp session: %w", err)
	}
	if sess == nil || sess.Status != otpentity.StatusVerified {
		return nil, apperr.Unauthorized("OTP not verified or invalid")
	}

	rec, err := s.passwords.Latest(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("load password: %w", err)
	}
	if rec == nil {
		return nil, apperr.NotFound("Password not found for the user")
	}
	if !s.hasher.Verify(rec.PasswordHash, in.Password) {
		return nil, apperr.Unauthorized("Invalid password")
	}

	out := &entity.Tokens{UserID: who.UserID}
	if out.AccessToken, out.AccessExpiry, err = s.tokens.Issue(who.UserID, s.cfg.AccessTTL); err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	if out.RefreshToken, out.RefreshExpiry, err = s.tokens.Issue(who.UserID, s.cfg.RefreshTTL); err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if in.PresentedRefresh != "" {
		if _, err := s.tokens.Verify(in.PresentedRefresh); err == nil {
			s.logger.Debugw("refresh token still valid, session kept", "user_id", who.UserID)
			return out, nil
		}
	}

	now := s.now()
	if err := s.sessions.Upsert(ctx, entity.Session{
		UserID:       who.UserID,
		LoginTime:    now,
		RefreshToken: out.RefreshToken,
		TokenExpiry:  now.Add(s.cfg.SessionTTL),
		HostName:     origin.HostName,
		IPAddress:    origin.IPAddress,
	}); err != nil {
		return nil, fmt.Errorf("store login session: %w", err)
	}
	out.SessionWritten = true
	s.logger.Infow("login succeeded", "user_id", who.UserID)
	return out, nil
}
