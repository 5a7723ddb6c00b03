package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/internal/auth"
	"github.com/mmynk/tabie/internal/middleware"
	"github.com/mmynk/tabie/internal/models"
	"github.com/mmynk/tabie/internal/storage"
	"github.com/mmynk/tabie/pkg/api"
	"github.com/mmynk/tabie/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	rewards       storage.RewardStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, rewards storage.RewardStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		rewards:       rewards,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrEmailExists) {
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		}
		if errors.Is(err, auth.ErrWeakPassword) || errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{User: toUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{User: toUser(user), Token: token}), nil
}

// Logout revokes the token the request was made with.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	claims := middleware.GetClaims(ctx)
	if claims == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	if err := s.jwtManager.Revoke(ctx, claims); err != nil {
		s.logger.Error("Failed to revoke token", "user_id", claims.UserID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.logger.Info("User logged out", "user_id", claims.UserID)
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

func (s *AuthService) currentUser(ctx context.Context) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		s.logger.Error("Failed to load user", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return user, nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toUser(user)}), nil
}

// UpdatePaymentAccounts replaces the caller's payout handles. Tabs published
// earlier keep the handles they were published with.
func (s *AuthService) UpdatePaymentAccounts(ctx context.Context, req *connect.Request[api.UpdatePaymentAccountsRequest]) (*connect.Response[api.UpdatePaymentAccountsResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	accounts := models.PaymentAccounts{
		Venmo:   req.Msg.Venmo,
		CashApp: req.Msg.CashApp,
		PayPal:  req.Msg.PayPal,
	}
	if err := s.users.UpdatePaymentAccounts(ctx, user.ID, accounts); err != nil {
		s.logger.Error("Failed to update payment accounts", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	user.PaymentAccounts = accounts
	user.PaymentAccounts.AdminName = user.DisplayName

	s.logger.Info("Payment accounts updated", "user_id", user.ID)
	return connect.NewResponse(&api.UpdatePaymentAccountsResponse{User: toUser(user)}), nil
}

// GetRewards returns the caller's points balance and history.
func (s *AuthService) GetRewards(ctx context.Context, req *connect.Request[api.GetRewardsRequest]) (*connect.Response[api.GetRewardsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	rewards, err := s.rewards.GetRewards(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load rewards", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := &api.GetRewardsResponse{
		Balance:  rewards.Balance,
		Lifetime: rewards.Lifetime,
		History:  make([]api.RewardEntry, len(rewards.History)),
	}
	for i, entry := range rewards.History {
		resp.History[i] = api.RewardEntry{
			TabID:        entry.TabID,
			TabName:      entry.TabName,
			Subtotal:     entry.Subtotal,
			PointsEarned: entry.PointsEarned,
			EarnedAt:     entry.EarnedAt,
		}
	}
	return connect.NewResponse(resp), nil
}
