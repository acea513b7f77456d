// internal/api/auth/handlers.go
package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/muniplay/internal/api/apiutil"
	appdb "github.com/codr1/muniplay/internal/db"
	"github.com/codr1/muniplay/internal/models"
	"github.com/codr1/muniplay/internal/ratelimit"
)

const minPasswordLength = 8

// Config wires the auth handlers at startup.
type Config struct {
	Secret     []byte
	TokenTTL   time.Duration
	TrustProxy bool
	Limiter    *ratelimit.Limiter
}

var (
	store       *appdb.DB
	cfg         Config
	handlerOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, c Config) {
	if database == nil {
		return
	}
	handlerOnce.Do(func() {
		store = database
		cfg = c
		if cfg.Limiter == nil {
			cfg.Limiter = ratelimit.New(nil)
		}
	})
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      userResponse `json:"user"`
}

// POST /api/v1/auth/register
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if store == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid request body", Err: err})
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.FirstName == "" || req.LastName == "" {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "name", Reason: "first and last name are required"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "email", Reason: "must be a valid email address"})
		return
	}
	if len(req.Password) < minPasswordLength {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "password", Reason: "must be at least 8 characters"})
		return
	}

	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "phone", Reason: "must be a valid phone number"})
		return
	}

	exists, err := store.Queries.UserExistsByEmail(r.Context(), req.Email)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if exists {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusConflict, Message: "an account with this email already exists"})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	user, err := store.Queries.CreateUser(r.Context(), appdb.CreateUserParams{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        apiutil.ToNullString(phone),
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("user_id", user.ID).Msg("User registered")
	writeSession(w, r, user, http.StatusCreated)
}

// POST /api/v1/auth/login
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if store == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req credentialsRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid request body", Err: err})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "credentials", Reason: "email and password are required"})
		return
	}

	ip := ratelimit.GetClientIP(r, cfg.TrustProxy)
	if result := cfg.Limiter.CheckLogin(req.Email, ip); !result.Allowed {
		ratelimit.LogRateLimitExceeded(req.Email, ip, result.Reason)
		w.Header().Set("Retry-After", retryAfterSeconds(result.RetryAfter))
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusTooManyRequests, Message: "too many login attempts, try again later"})
		return
	}

	user, err := store.Queries.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Record the miss so unknown emails cannot be probed for free.
			cfg.Limiter.RecordLoginFailure(req.Email, ip)
			writeInvalidCredentials(w, r)
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}

	if !VerifyPassword(user.PasswordHash, req.Password) {
		if locked := cfg.Limiter.RecordLoginFailure(req.Email, ip); locked {
			logger.Warn().Str("identifier", ratelimit.SanitizeIdentifier(req.Email)).Msg("Account locked after repeated login failures")
		}
		writeInvalidCredentials(w, r)
		return
	}

	cfg.Limiter.ResetLoginAttempts(req.Email)
	if err := store.Queries.TouchUserLastAccess(r.Context(), user.ID); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to update last access")
	}

	logger.Info().Int64("user_id", user.ID).Msg("User logged in")
	writeSession(w, r, user, http.StatusOK)
}

func writeSession(w http.ResponseWriter, r *http.Request, user appdb.User, status int) {
	token, expiresAt, err := NewToken(cfg.Secret, user.ID, user.Email, user.Role, cfg.TokenTTL)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	_ = apiutil.WriteJSON(w, status, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User: userResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

func writeInvalidCredentials(w http.ResponseWriter, r *http.Request) {
	apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "invalid email or password"})
}

func retryAfterSeconds(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
