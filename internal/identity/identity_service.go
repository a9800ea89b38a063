package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/domain"
	identityerrors "go-payroll/internal/identity/errors"
	"go-payroll/internal/shared/connection"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Provider is the identity capability the rest of the system depends on.
//
//go:generate mockgen -source=identity_service.go -destination=mock/identity_service_mock.go -package=mock
type Provider interface {
	Authenticate(ctx context.Context, email, password string) (domain.Principal, error)
	VerifyToken(ctx context.Context, token string) (domain.Principal, error)
	IssueTokens(ctx context.Context, principal domain.Principal) (Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (Tokens, domain.Principal, error)
	GetPrincipal(ctx context.Context, uid string) (domain.Principal, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreatePrincipal(ctx context.Context, req NewPrincipal) (string, error)
	DeletePrincipal(ctx context.Context, uid string) error
}

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type service struct {
	repo   Repository
	tokens TokenConfig
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, tokens TokenConfig, logger ...*zap.Logger) Provider {
	l := zap.L().Named("identity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.service")
	}
	if tokens.AccessTTL <= 0 {
		tokens.AccessTTL = 15 * time.Minute
	}
	if tokens.RefreshTTL <= 0 {
		tokens.RefreshTTL = 7 * 24 * time.Hour
	}
	return &service{repo: repo, tokens: tokens, now: time.Now, logger: l}
}

func (s *service) Authenticate(ctx context.Context, email, password string) (domain.Principal, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("authenticate lookup failed", zap.Error(err))
		}
		return domain.Principal{}, identityerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.Principal{}, identityerrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return domain.Principal{}, identityerrors.ErrPrincipalInactive
	}

	return toPrincipal(user), nil
}

func (s *service) VerifyToken(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.Principal{}, err
	}
	if claims["token_type"] != tokenTypeAccess {
		return domain.Principal{}, identityerrors.ErrInvalidToken
	}
	return principalFromClaims(claims)
}

func (s *service) IssueTokens(ctx context.Context, principal domain.Principal) (Tokens, error) {
	access, err := s.sign(principal, tokenTypeAccess, s.tokens.AccessTTL)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return Tokens{}, identityerrors.ErrTokenGenerationFailed
	}
	refresh, err := s.sign(principal, tokenTypeRefresh, s.tokens.RefreshTTL)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return Tokens{}, identityerrors.ErrTokenGenerationFailed
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (Tokens, domain.Principal, error) {
	claims, err := s.parse(refreshToken)
	if err != nil || claims["token_type"] != tokenTypeRefresh {
		return Tokens{}, domain.Principal{}, identityerrors.ErrInvalidRefreshToken
	}

	uid, _ := claims["user_id"].(string)
	// Reload so role or activation changes take effect on refresh.
	principal, err := s.GetPrincipal(ctx, uid)
	if err != nil {
		return Tokens{}, domain.Principal{}, identityerrors.ErrInvalidRefreshToken
	}

	tokens, err := s.IssueTokens(ctx, principal)
	if err != nil {
		return Tokens{}, domain.Principal{}, err
	}
	return tokens, principal, nil
}

func (s *service) GetPrincipal(ctx context.Context, uid string) (domain.Principal, error) {
	id, err := uuid.Parse(uid)
	if err != nil {
		return domain.Principal{}, identityerrors.ErrPrincipalNotFound
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Principal{}, identityerrors.ErrPrincipalNotFound
	}
	if !user.IsActive {
		return domain.Principal{}, identityerrors.ErrPrincipalInactive
	}
	return toPrincipal(user), nil
}

func (s *service) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func (s *service) CreatePrincipal(ctx context.Context, req NewPrincipal) (string, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" || !req.Role.Valid() {
		return "", identityerrors.ErrInvalidPrincipal
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &User{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashed),
		Role:      string(req.Role),
		IsActive:  true,
	}
	if req.EmployeeID != "" {
		employeeID := req.EmployeeID
		user.EmployeeID = &employeeID
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if _, ok := connection.UniqueViolation(err); ok {
			return "", identityerrors.ErrEmailAlreadyRegistered
		}
		s.logger.Error("create principal failed", zap.String("email", user.Email), zap.Error(err))
		return "", err
	}

	s.logger.Info("principal created",
		zap.String("uid", user.ID.String()),
		zap.String("company_id", req.CompanyID),
	)
	return user.ID.String(), nil
}

func (s *service) DeletePrincipal(ctx context.Context, uid string) error {
	id, err := uuid.Parse(uid)
	if err != nil {
		return identityerrors.ErrPrincipalNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete principal failed", zap.String("uid", uid), zap.Error(err))
		return err
	}
	s.logger.Info("principal deleted", zap.String("uid", uid))
	return nil
}

func (s *service) sign(p domain.Principal, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     p.UID,
		"company_id":  p.CompanyID,
		"employee_id": p.EmployeeID,
		"email":       p.Email,
		"name":        p.Name,
		"role":        string(p.Role),
		"token_type":  tokenType,
		"iat":         s.now().Unix(),
		"exp":         s.now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.tokens.Secret))
}

func (s *service) parse(raw string) (jwt.MapClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, identityerrors.ErrInvalidToken
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, identityerrors.ErrInvalidToken
		}
		return []byte(s.tokens.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, identityerrors.ErrTokenExpired
		}
		return nil, identityerrors.ErrInvalidToken
	}
	if !token.Valid {
		return nil, identityerrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, identityerrors.ErrInvalidToken
	}
	return claims, nil
}

func principalFromClaims(claims jwt.MapClaims) (domain.Principal, error) {
	uid, _ := claims["user_id"].(string)
	companyID, _ := claims["company_id"].(string)
	if uid == "" || companyID == "" {
		return domain.Principal{}, identityerrors.ErrInvalidToken
	}

	role, ok := domain.ParseRole(stringClaim(claims, "role"))
	if !ok {
		return domain.Principal{}, identityerrors.ErrInvalidToken
	}

	return domain.Principal{
		UID:        uid,
		CompanyID:  companyID,
		EmployeeID: stringClaim(claims, "employee_id"),
		Email:      stringClaim(claims, "email"),
		Name:       stringClaim(claims, "name"),
		Role:       role,
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

func toPrincipal(u *User) domain.Principal {
	p := domain.Principal{
		UID:       u.ID.String(),
		CompanyID: u.CompanyID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      domain.Role(u.Role),
	}
	if u.EmployeeID != nil {
		p.EmployeeID = *u.EmployeeID
	}
	return p
}
