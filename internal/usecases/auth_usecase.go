package usecases

import (
	"context"
	"errors"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/domain/repositories"
	"ar-market.backend/pkg/crypto"
	"ar-market.backend/pkg/jwt"
	"ar-market.backend/pkg/redis"
	"ar-market.backend/pkg/utils"
	"github.com/google/uuid"
)

// AuthUsecase handles registration and authentication
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	ledger       *LedgerUsecase
	uow          repositories.UnitOfWork
	jwtService   *jwt.JWTService
	sessionStore *redis.SessionStore
	sessionTTL   time.Duration
}

// NewAuthUsecase creates a new auth usecase. sessionStore may be nil when
// session mode is not configured.
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	ledger *LedgerUsecase,
	uow repositories.UnitOfWork,
	jwtService *jwt.JWTService,
	sessionStore *redis.SessionStore,
	sessionTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		ledger:       ledger,
		uow:          uow,
		jwtService:   jwtService,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
	}
}

// Register creates the user and their wallet account in one transaction
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	if _, err := u.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domainerrors.Conflict("email is already registered")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	now := time.Now()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         entities.UserRoleUser,
		Tier:         entities.UserTierFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		return u.ledger.EnsureAccount(txCtx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role), string(user.Tier))
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return &entities.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

// Login authenticates the user. With UseSession the token pair is kept
// encrypted in Redis and only an opaque session id goes to the client.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.Unauthorized("invalid email or password")
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role), string(user.Tier))
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	if input.UseSession {
		if u.sessionStore == nil {
			return nil, domainerrors.BadRequest("session mode is not available")
		}
		sessionID, err := crypto.GenerateRandomToken(32)
		if err != nil {
			return nil, domainerrors.InternalError(err)
		}
		data := &redis.SessionData{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}
		if err := u.sessionStore.CreateSession(ctx, sessionID, data, u.sessionTTL); err != nil {
			return nil, domainerrors.InternalError(err)
		}
		return &entities.AuthResponse{SessionID: sessionID, User: user}, nil
	}

	return &entities.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired refresh token")
	}
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role), string(user.Tier))
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return &entities.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

// GetMe returns the authenticated user's profile
func (u *AuthUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting the new one
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(input.CurrentPassword, user.PasswordHash) {
		return domainerrors.Unauthorized("current password is incorrect")
	}
	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return domainerrors.InternalError(err)
	}
	return u.userRepo.UpdatePassword(ctx, userID, hash)
}

// SetTier is the administrative tier switch backing the Pro entitlement
func (u *AuthUsecase) SetTier(ctx context.Context, userID uuid.UUID, tier entities.UserTier) error {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return err
	}
	return u.userRepo.UpdateTier(ctx, userID, tier)
}
