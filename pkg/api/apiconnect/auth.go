package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "tabie.v1.AuthService"

const (
	AuthServiceRegisterProcedure              = "/tabie.v1.AuthService/Register"
	AuthServiceLoginProcedure                 = "/tabie.v1.AuthService/Login"
	AuthServiceLogoutProcedure                = "/tabie.v1.AuthService/Logout"
	AuthServiceGetCurrentUserProcedure        = "/tabie.v1.AuthService/GetCurrentUser"
	AuthServiceUpdatePaymentAccountsProcedure = "/tabie.v1.AuthService/UpdatePaymentAccounts"
	AuthServiceGetRewardsProcedure            = "/tabie.v1.AuthService/GetRewards"
)

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	UpdatePaymentAccounts(context.Context, *connect.Request[api.UpdatePaymentAccountsRequest]) (*connect.Response[api.UpdatePaymentAccountsResponse], error)
	GetRewards(context.Context, *connect.Request[api.GetRewardsRequest]) (*connect.Response[api.GetRewardsResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(AuthServiceName, map[string]http.Handler{
		AuthServiceRegisterProcedure:              connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, o...),
		AuthServiceLoginProcedure:                 connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, o...),
		AuthServiceLogoutProcedure:                connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, o...),
		AuthServiceGetCurrentUserProcedure:        connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, o...),
		AuthServiceUpdatePaymentAccountsProcedure: connect.NewUnaryHandler(AuthServiceUpdatePaymentAccountsProcedure, svc.UpdatePaymentAccounts, o...),
		AuthServiceGetRewardsProcedure:            connect.NewUnaryHandler(AuthServiceGetRewardsProcedure, svc.GetRewards, o...),
	})
}

// AuthServiceClient is a client for the auth service.
type AuthServiceClient struct {
	register              *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login                 *connect.Client[api.LoginRequest, api.LoginResponse]
	logout                *connect.Client[api.LogoutRequest, api.LogoutResponse]
	getCurrentUser        *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	updatePaymentAccounts *connect.Client[api.UpdatePaymentAccountsRequest, api.UpdatePaymentAccountsResponse]
	getRewards            *connect.Client[api.GetRewardsRequest, api.GetRewardsResponse]
}

// NewAuthServiceClient constructs a client for the auth service at url.
func NewAuthServiceClient(httpClient connect.HTTPClient, url string, opts ...connect.ClientOption) *AuthServiceClient {
	url = baseURL(url)
	o := clientOptions(opts)
	return &AuthServiceClient{
		register:              connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, url+AuthServiceRegisterProcedure, o...),
		login:                 connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, url+AuthServiceLoginProcedure, o...),
		logout:                connect.NewClient[api.LogoutRequest, api.LogoutResponse](httpClient, url+AuthServiceLogoutProcedure, o...),
		getCurrentUser:        connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, url+AuthServiceGetCurrentUserProcedure, o...),
		updatePaymentAccounts: connect.NewClient[api.UpdatePaymentAccountsRequest, api.UpdatePaymentAccountsResponse](httpClient, url+AuthServiceUpdatePaymentAccountsProcedure, o...),
		getRewards:            connect.NewClient[api.GetRewardsRequest, api.GetRewardsResponse](httpClient, url+AuthServiceGetRewardsProcedure, o...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *AuthServiceClient) UpdatePaymentAccounts(ctx context.Context, req *connect.Request[api.UpdatePaymentAccountsRequest]) (*connect.Response[api.UpdatePaymentAccountsResponse], error) {
	return c.updatePaymentAccounts.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetRewards(ctx context.Context, req *connect.Request[api.GetRewardsRequest]) (*connect.Response[api.GetRewardsResponse], error) {
	return c.getRewards.CallUnary(ctx, req)
}
