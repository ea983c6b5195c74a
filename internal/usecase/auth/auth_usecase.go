package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Matcher starts matchmaking for a new participant.
type Matcher interface {
	Enroll(ctx context.Context, p *domain.Participant) error
}

type AuthUseCase struct {
	store       repository.Store
	sessionRepo repository.SessionRepository
	matcher     Matcher
	jwtSecret   string
	tokenTTL    time.Duration
	adminEmails map[string]struct{}
	log         *slog.Logger
	now         func() time.Time
}

func NewAuthUseCase(
	store repository.Store,
	sessionRepo repository.SessionRepository,
	matcher Matcher,
	jwtSecret string,
	tokenTTL time.Duration,
	adminEmails []string,
	log *slog.Logger,
) *AuthUseCase {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = struct{}{}
	}
	return &AuthUseCase{
		store:       store,
		sessionRepo: sessionRepo,
		matcher:     matcher,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		adminEmails: admins,
		log:         log,
		now:         time.Now,
	}
}

// SignUpRequest represents a registration form
type SignUpRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=6"`
	Username      string  `json:"username" binding:"required,min=2,max=32"`
	TechStack     *string `json:"techStack" binding:"omitempty,techstack"`
	DelayMatching bool    `json:"delayMatching"`
}

// SignInRequest represents a sign-in form
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token       string              `json:"token"`
	ExpiresAt   time.Time           `json:"expiresAt"`
	Participant *domain.Participant `json:"participant"`
	IsAdmin     bool                `json:"isAdmin"`
}

// Identity is what a valid token resolves to.
type Identity struct {
	UserID string
	Email  string
}

// SignUp creates the participant, starts matchmaking and opens a session.
// A matchmaking failure is logged; the account stays usable.
func (uc *AuthUseCase) SignUp(ctx context.Context, req *SignUpRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	var techStack *string
	if req.TechStack != nil {
		if ts := strings.TrimSpace(*req.TechStack); ts != "" {
			if !domain.ValidTechStack(ts) {
				return nil, domain.ErrInvalidInput
			}
			techStack = &ts
		}
	}

	if _, err := uc.store.Participants().GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrParticipantNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	sameName, err := uc.store.Participants().Find(ctx, domain.ParticipantFilter{Username: username, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if len(sameName) > 0 {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := uc.now()
	status := domain.StatusWaiting
	if req.DelayMatching {
		status = domain.StatusDelayMatching
	}
	p := &domain.Participant{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		TechStack:    techStack,
		PasswordHash: string(hash),
		Status:       status,
		Hints:        []string{},
		RegisteredAt: now,
		LastActive:   now,
	}
	if err := uc.store.Participants().Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info("participant registered", "participant_id", p.ID, "status", p.Status)

	if err := uc.matcher.Enroll(ctx, p); err != nil {
		uc.log.Error("failed to start matchmaking", "participant_id", p.ID, "error", err)
	}
	if fresh, err := uc.store.Participants().GetByID(ctx, p.ID); err == nil {
		p = fresh
	}

	return uc.openSession(ctx, p)
}

func (uc *AuthUseCase) SignIn(ctx context.Context, req *SignInRequest) (*AuthResponse, error) {
	p, err := uc.store.Participants().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := uc.store.Participants().TouchLastActive(ctx, p.ID); err != nil {
		uc.log.Warn("failed to touch last active", "participant_id", p.ID, "error", err)
	}
	return uc.openSession(ctx, p)
}

func (uc *AuthUseCase) SignOut(ctx context.Context, tokenString string) error {
	return uc.sessionRepo.Delete(ctx, hashToken(tokenString))
}

// VerifyToken checks the signature and that the session was not revoked.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(uc.jwtSecret), nil
	}, jwt.WithTimeFunc(uc.now))
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return nil, domain.ErrInvalidToken
	}

	sessionUser, err := uc.sessionRepo.GetUserID(ctx, hashToken(tokenString))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sessionUser != userID {
		return nil, domain.ErrInvalidToken
	}

	return &Identity{UserID: userID, Email: email}, nil
}

// IsAdmin reports whether email is on the admin allowlist.
func (uc *AuthUseCase) IsAdmin(email string) bool {
	_, ok := uc.adminEmails[normalizeEmail(email)]
	return ok
}

// RevokeAll drops every session of the participant.
func (uc *AuthUseCase) RevokeAll(ctx context.Context, participantID string) error {
	return uc.sessionRepo.DeleteByUser(ctx, participantID)
}

func (uc *AuthUseCase) openSession(ctx context.Context, p *domain.Participant) (*AuthResponse, error) {
	now := uc.now()
	expiresAt := now.Add(uc.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": p.ID,
		"email":   p.Email,
		"jti":     uuid.NewString(),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := uc.sessionRepo.Create(ctx, hashToken(tokenString), p.ID, uc.tokenTTL); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		Token:       tokenString,
		ExpiresAt:   expiresAt,
		Participant: p,
		IsAdmin:     uc.IsAdmin(p.Email),
	}, nil
}

// hashToken keeps raw tokens out of Redis.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
