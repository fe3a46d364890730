package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-crm-be/internal/config"
	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/pkg/mailer"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	RequestLoginLink(ctx context.Context, req *dto.RequestLoginLinkRequest) error
	VerifyLogin(ctx context.Context, req *dto.VerifyLoginRequest) (*dto.VerifyLoginResponse, error)
}

// authService implements passwordless sign-in. A login token is a uuid pair
// "id.secret": the id locates the row, the secret is bcrypt-checked against
// the stored hash. Tokens are single use and short lived.
type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	cfg          config.AuthConfig
	clientURL    string
	now          func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	cfg config.AuthConfig,
	clientURL string,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		cfg:          cfg,
		clientURL:    clientURL,
		now:          time.Now,
	}
}

func (s *authService) RequestLoginLink(ctx context.Context, req *dto.RequestLoginLinkRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "fetch user", err)
	}

	// First sign-in provisions the account. The workspace is invite-free.
	if user == nil {
		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
		user = &entity.User{
			Id:        uuid.New(),
			Email:     email,
			Name:      name,
			CreatedAt: s.now(),
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return apperror.Wrap(apperror.KindDataAccess, "create user", err)
		}
	}

	secret := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, "hash login token", err)
	}

	token := &entity.LoginToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: string(hash),
		ExpiresAt: s.now().Add(time.Duration(s.cfg.TokenTTLMinutes) * time.Minute),
		CreatedAt: s.now(),
	}
	if err := uow.UserRepository().CreateToken(ctx, token); err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "store login token", err)
	}

	// Login links ride in email. Plain-http links are only handed out when
	// explicitly allowed for local development.
	base := s.clientURL
	if !s.cfg.AllowInsecureLinks && strings.HasPrefix(base, "http://") {
		base = "https://" + strings.TrimPrefix(base, "http://")
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s.%s", base, token.Id, secret)
	if err := s.emailService.SendLoginLink(email, link); err != nil {
		return apperror.Wrap(apperror.KindInternal, "send login email", err)
	}

	return nil
}

func (s *authService) VerifyLogin(ctx context.Context, req *dto.VerifyLoginRequest) (*dto.VerifyLoginResponse, error) {
	invalidToken := apperror.New(apperror.KindUnauthorized, "invalid or expired login token")

	parts := strings.SplitN(req.Token, ".", 2)
	if len(parts) != 2 {
		return nil, invalidToken
	}
	tokenId, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, invalidToken
	}
	secret := parts[1]

	uow := s.uowFactory.NewUnitOfWork(ctx)

	tokens, err := uow.UserRepository().FindTokens(ctx, specification.ByID{ID: tokenId})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch login token", err)
	}
	if len(tokens) == 0 {
		return nil, invalidToken
	}
	token := tokens[0]

	now := s.now()
	if !token.Usable(now) {
		return nil, invalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(secret)); err != nil {
		return nil, invalidToken
	}

	if err := uow.UserRepository().MarkTokenUsed(ctx, token.Id, now); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "consume login token", err)
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: token.UserId})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch user", err)
	}
	if user == nil {
		return nil, invalidToken
	}

	user.LastLoginAt = &now
	user.UpdatedAt = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "update user", err)
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"email":   user.Email,
		"exp":     now.Add(time.Duration(s.cfg.SessionTTLHours) * time.Hour).Unix(),
	}
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := jwtToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "sign access token", err)
	}

	return &dto.VerifyLoginResponse{
		AccessToken: signed,
		User: &dto.UserResponse{
			Id:          user.Id,
			Email:       user.Email,
			Name:        user.Name,
			LastLoginAt: user.LastLoginAt,
			CreatedAt:   user.CreatedAt,
		},
	}, nil
}
