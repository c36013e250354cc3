package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	employeeRepo employeeStore
	tokenRepo    tokenStore
	jwtService   *auth.JWTService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	employeeRepo employeeStore,
	tokenRepo tokenStore,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// Login authenticates an employee
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	employee, err := s.employeeRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}

	if !auth.CheckPassword(employee.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !employee.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, err := s.generateTokenResponse(ctx, employee)
	if err != nil {
		return nil, err
	}

	// Last login is informational; a failure here should not block the login
	if err := s.employeeRepo.UpdateLastLogin(ctx, employee.ID); err != nil {
		s.logger.Warn().Err(err).Int64("employeeID", employee.ID).Msg("Failed to update last login time")
	}

	return &dto.AuthResponse{
		Token:    *token,
		Employee: dto.NewEmployeeResponse(employee),
	}, nil
}

// RefreshToken creates a new token pair using a refresh token. The old refresh token is revoked.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	employeeID, _, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTokenNotFound, apperrors.ErrTokenExpired, apperrors.ErrTokenRevoked) {
			return nil, err
		}
		return nil, fmt.Errorf("token validation error: %w", err)
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("employee not found: %w", err)
	}
	if !employee.IsActive {
		_ = s.tokenRepo.RevokeAllEmployeeTokens(ctx, employee.ID)
		return nil, apperrors.ErrAccountDisabled
	}

	// Revoke the old token so it cannot be replayed
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateTokenResponse(ctx, employee)
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apperrors.ErrTokenInvalid
	}
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// GetProfile retrieves the signed-in employee
func (s *AuthService) GetProfile(ctx context.Context, employeeID int64) (*dto.EmployeeResponse, error) {
	if employeeID <= 0 {
		return nil, apperrors.ErrEmployeeNotFound
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return dto.NewEmployeeResponse(employee), nil
}

// CreateEmployee opens a staff account
func (s *AuthService) CreateEmployee(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", req.Role))
	}

	exists, err := s.employeeRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		FullName: strings.TrimSpace(req.FullName),
		Role:     req.Role,
		Branch:   strings.TrimSpace(req.Branch),
		IsActive: true,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("employeeID", employee.ID).Str("role", string(employee.Role)).Msg("Employee created")
	return dto.NewEmployeeResponse(employee), nil
}

// ListEmployees returns all staff accounts
func (s *AuthService) ListEmployees(ctx context.Context) ([]*dto.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, dto.NewEmployeeResponse(&employees[i]))
	}
	return responses, nil
}

// generateTokenResponse creates a token pair and stores the refresh token
func (s *AuthService) generateTokenResponse(ctx context.Context, employee *models.Employee) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(employee)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, employee.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}
