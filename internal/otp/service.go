// Package otp implements OTP issuance, status inquiry and verification.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/audit"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/credential"
	credentity "github.com/ovaphlow/pitchfork/service-auth-go/internal/credential/entity"
	identity "github.com/ovaphlow/pitchfork/service-auth-go/internal/identity/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/notify"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/otp/entity"
)

// SessionTokenTTL is the validity of the refresh token stored on an OTP
// session. It is independent of the one-month session expiry.
const SessionTokenTTL = 30 * 24 * time.Hour

// ErrReissue marks a status inquiry whose replacement code could not be
// issued. The underlying cause keeps its own kind.
var ErrReissue = errors.New("error sending new OTP")

type IdentityResolver interface {
	Exists(ctx context.Context, id identity.Identifier) (bool, error)
	Resolve(ctx context.Context, id identity.Identifier) (identity.Identity, error)
}

type SessionStore interface {
	Get(ctx context.Context, userID string) (*entity.Session, error)
	Upsert(ctx context.Context, s entity.Session) error
	MarkVerified(ctx context.Context, userID string) (int64, error)
}

type PasswordStore interface {
	Upsert(ctx context.Context, rec credentity.PasswordRecord) (bool, error)
}

type TokenSigner interface {
	Issue(userID string, ttl time.Duration) (string, time.Time, error)
}

// CodeGenerator returns a six digit numeric code.
type CodeGenerator func() (string, error)

// RandomCode draws uniformly from [100000, 999999].
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// Deps groups the collaborators of Service.
type Deps struct {
	Identities IdentityResolver
	Sessions   SessionStore
	Passwords  PasswordStore
	Hasher     credential.PasswordHasher
	Signer     TokenSigner
	SMS        notify.Sender
	// Message renders the SMS text for a code.
	Message func(code string) string
	Codes   CodeGenerator
	Now     func() time.Time
	Logger  *zap.SugaredLogger
}

type Service struct {
	identities IdentityResolver
	sessions   SessionStore
	passwords  PasswordStore
	hasher     credential.PasswordHasher
	signer     TokenSigner
	sms        notify.Sender
	message    func(code string) string
	codes      CodeGenerator
	now        func() time.Time
	logger     *zap.SugaredLogger
}

func NewService(d Deps) *Service {
	s := &Service{
		identities: d.Identities,
		sessions:   d.Sessions,
		passwords:  d.Passwords,
		hasher:     d.Hasher,
		signer:     d.Signer,
		sms:        d.SMS,
		message:    d.Message,
		codes:      d.Codes,
		now:        d.Now,
		logger:     d.Logger,
	}
	if s.hasher == nil {
		s.hasher = credential.BcryptHasher{Cost: 10}
	}
	if s.message == nil {
		s.message = notify.Config{}.OTPMessage
	}
	if s.codes == nil {
		s.codes = RandomCode
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	return s
}

// Issue writes a fresh PENDING session for the user and texts the code to
// mobile. The row is written before delivery and stays if delivery fails.
func (s *Service) Issue(ctx context.Context, userID, mobile string, origin audit.Origin) (*entity.Session, error) {
	if strings.TrimSpace(mobile) == "" {
		return nil, apperr.Validation("Mobile number not found for the provided identifier")
	}
	code, err := s.codes()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	refresh, _, err := s.signer.Issue(userID, SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	sess := entity.Session{
		UserID:       userID,
		OTP:          code,
		RefreshToken: refresh,
		TokenExpiry:  s.now().AddDate(0, 1, 0),
		Status:       entity.StatusPending,
		HostName:     origin.HostName,
		IPAddress:    origin.IPAddress,
	}
	if err := s.sessions.Upsert(ctx, sess); err != nil {
		return nil, fmt.Errorf("store otp session: %w", err)
	}

	if err := s.sms.Send(ctx, mobile, s.message(code)); err != nil {
		return &sess, fmt.Errorf("deliver otp: %w", err)
	}
	s.logger.Infow("otp issued", "user_id", userID, "expires", sess.TokenExpiry)
	s.logger.Debugw("otp code", "user_id", userID, "otp", code)
	return &sess, nil
}

// Status reports the OTP state for raw, issuing a new code when the user
// has no usable session.
func (s *Service) Status(ctx context.Context, raw string, origin audit.Origin) (entity.State, error) {
	id, err := identity.ParseIdentifier(raw)
	if err != nil {
		return "", err
	}
	ok, err := s.identities.Exists(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.NotFound("INVALID USER ID OR MOBILE NUMBER")
	}
	who, err := s.identities.Resolve(ctx, id)
	if err != nil {
		return "", err
	}

	sess, err := s.sessions.Get(ctx, who.UserID)
	if err != nil {
		return "", fmt.Errorf("load otp session: %w", err)
	}

	switch {
	case sess == nil || (sess.Status != entity.StatusPending && sess.Status != entity.StatusVerified):
		if _, err := s.Issue(ctx, who.UserID, who.MobileNumber, origin); err != nil {
			return "", fmt.Errorf("%w: %w", ErrReissue, err)
		}
		return entity.StateNoDataFound, nil
	case sess.Expired(s.now()):
		if _, err := s.Issue(ctx, who.UserID, who.MobileNumber, origin); err != nil {
			return "", fmt.Errorf("%w: %w", ErrReissue, err)
		}
		return entity.StateExpired, nil
	case sess.Status == entity.StatusPending:
		return entity.StatePending, nil
	default:
		return entity.StateVerified, nil
	}
}

// VerifyInput is a verification attempt. NewPassword is optional.
type VerifyInput struct {
	Identifier  string
	OTP         string
	NewPassword string
}

type VerifyResult struct {
	PasswordUpdated bool
	Message         string
}

// Verify checks the submitted code and marks the session VERIFIED. It never
// reissues: an expired session is reported as Expired.
func (s *Service) Verify(ctx context.Context, in VerifyInput, origin audit.Origin) (*VerifyResult, error) {
	submitted := strings.TrimSpace(in.OTP)
	if strings.TrimSpace(in.Identifier) == "" || submitted == "" {
		return nil, apperr.Validation("User ID or Mobile number and OTP are required")
	}
	id, err := identity.ParseIdentifier(in.Identifier)
	if err != nil {
		return nil, err
	}
	who, err := s.identities.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if who.MobileNumber == "" {
		return nil, apperr.NotFound("User not found")
	}

	sess, err := s.sessions.Get(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("load otp session: %w", err)
	}
	if sess == nil || strings.TrimSpace(sess.OTP) == "" {
		return nil, apperr.NotFound("OTP not found or expired")
	}
	if sess.Expired(s.now()) {
		return nil, apperr.Expired("OTP expired. Please request a new OTP to verify again.")
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(sess.OTP)), []byte(submitted)) != 1 {
		return nil, apperr.InvalidOtp("Invalid OTP")
	}

	n, err := s.sessions.MarkVerified(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("mark otp verified: %w", err)
	}
	if n == 0 {
		s.logger.Debugw("otp session already verified", "user_id", who.UserID)
	}

	if in.NewPassword == "" {
		return &VerifyResult{Message: "OTP verified successfully"}, nil
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	inserted, err := s.passwords.Upsert(ctx, credentity.PasswordRecord{
		UserID:       who.UserID,
		PasswordHash: hash,
		LastUpdate:   s.now(),
		HostName:     origin.HostName,
		IPAddress:    origin.IPAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("store password: %w", err)
	}
	msg := "OTP verified successfully. Password has been updated."
	if inserted {
		msg = "OTP verified successfully. New password has been updated."
	}
	return &VerifyResult{PasswordUpdated: true, Message: msg}, nil
}
