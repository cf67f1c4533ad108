package auth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/raumania/storefront/client"
	"github.com/raumania/storefront/client/auth/mock"
	"github.com/raumania/storefront/client/auth/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *mock.Service) {
	t.Helper()
	api := mock.New()
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	rt, err := transport.New(transport.WithCookieJar(jar), transport.WithRefreshURL(server.URL+transport.DefaultRefreshPath))
	require.NoError(t, err)
	cli, err := client.New(server.URL, client.WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)
	return New(cli), api
}

func TestService_Login(t *testing.T) {
	var testCases = []struct {
		description string
		identifier  string
		password    string
		expectErr   error
	}{
		{description: "by username", identifier: mock.Username, password: mock.Password},
		{description: "by email", identifier: mock.Email, password: mock.Password},
		{description: "wrong password", identifier: mock.Username, password: "guess", expectErr: ErrInvalidCredentials},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			service, api := newTestService(t)
			user, err := service.Login(context.Background(), testCase.identifier, testCase.password)
			if testCase.expectErr != nil {
				require.ErrorIs(t, err, testCase.expectErr)
				assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
				assert.Equal(t, 0, api.Calls(transport.DefaultRefreshPath), "bad credentials never refresh")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, mock.Username, user.Username)
			assert.Equal(t, mock.Email, user.Email)
			assert.Equal(t, "ADMIN", user.Role)
		})
	}
}

func TestService_MyInfoAfterExpiry(t *testing.T) {
	service, api := newTestService(t)
	ctx := context.Background()
	_, err := service.Login(ctx, mock.Username, mock.Password)
	require.NoError(t, err)

	api.Expire()
	user, err := service.MyInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, mock.Username, user.Username)
	assert.Equal(t, 1, api.Calls(transport.DefaultRefreshPath))
}

func TestService_Logout(t *testing.T) {
	service, api := newTestService(t)
	ctx := context.Background()
	_, err := service.Login(ctx, mock.Username, mock.Password)
	require.NoError(t, err)

	api.Expire()
	require.NoError(t, service.Logout(ctx))
	_, err = service.MyInfo(ctx)
	assert.True(t, client.IsSessionExpired(err))
}

func TestService_RegisterAndResetPassword(t *testing.T) {
	service, api := newTestService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, &RegisterRequest{Username: "bob", Email: "bob@storefront.test", Password: "a", ConfirmPassword: "b"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	user, err := service.Register(ctx, &RegisterRequest{Username: "bob", Email: "bob@storefront.test", Password: "a", ConfirmPassword: "a"})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.NotEmpty(t, user.ID)

	_, err = service.Register(ctx, &RegisterRequest{Username: "bob", Email: "bob@storefront.test", Password: "a", ConfirmPassword: "a"})
	assert.True(t, client.IsStatus(err, http.StatusConflict))

	message, err := service.ForgotPassword(ctx, "bob@storefront.test")
	require.NoError(t, err)
	assert.Equal(t, "Reset password link sent to your email", message)
	token, ok := api.ResetToken("bob@storefront.test")
	require.True(t, ok)

	_, err = service.ResetPassword(ctx, &ResetPasswordRequest{Token: token, Password: "c", ConfirmPassword: "c"})
	assert.Error(t, err)
	message, err = service.ResetPassword(ctx, &ResetPasswordRequest{Token: token, Email: "bob@storefront.test", Password: "c", ConfirmPassword: "c"})
	require.NoError(t, err)
	assert.Equal(t, "Password reset successful", message)

	_, err = service.Login(ctx, "bob", "c")
	assert.NoError(t, err)
	assert.Equal(t, 0, api.Calls(transport.DefaultRefreshPath))
}
