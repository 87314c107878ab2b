package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/Mohd-umair/repmeup-frontend/internal/apiclient"
	"github.com/Mohd-umair/repmeup-frontend/internal/dto"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/logger"
	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/observable"
	"github.com/Mohd-umair/repmeup-frontend/internal/storage"
)

// Navigator receives navigation signals from the session layer. The CLI and
// any future UI provide their own implementation.
type Navigator interface {
	ToLogin()
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthData, error)
	Login(ctx context.Context, email, password string) (*dto.AuthData, error)
	Logout()
	GetCurrentUser(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	IsAuthenticated() bool
	Token() string
	CurrentUserValue() *model.User
	SubscribeUser() *observable.Subscription[*model.User]
	SubscribeAuthenticated() *observable.Subscription[bool]
	// HandleUnauthorized resets session state after a globally intercepted
	// 401. The interceptor has already cleared the persisted store.
	HandleUnauthorized()
}

type authService struct {
	api       *apiclient.Client
	store     storage.Store
	navigator Navigator
	log       logger.ILogger
	validate  *validator.Validate

	currentUser     *observable.State[*model.User]
	isAuthenticated *observable.State[bool]
}

func NewAuthService(api *apiclient.Client, store storage.Store, navigator Navigator, log logger.ILogger) IAuthService {
	s := &authService{
		api:             api,
		store:           store,
		navigator:       navigator,
		log:             log,
		validate:        validator.New(),
		currentUser:     observable.NewState[*model.User](nil),
		isAuthenticated: observable.NewState(false),
	}
	s.restoreSession()
	return s
}

// restoreSession seeds the observable session state from the persisted
// store at construction time. The cached user may be stale; validity is the
// backend's call on next use.
func (s *authService) restoreSession() {
	token := s.store.Token()
	user := s.store.User()
	if token != "" && user != nil {
		s.currentUser.Set(user)
		s.isAuthenticated.Set(true)
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthData, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.api.Post(ctx, "/auth/register", req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var data dto.AuthData
	if err := resp.Decode(&data); err != nil {
		return nil, err
	}
	if err := s.handleAuthSuccess(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*dto.AuthData, error) {
	req := &dto.LoginRequest{Email: email, Password: password}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.api.Post(ctx, "/auth/login", req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var data dto.AuthData
	if err := resp.Decode(&data); err != nil {
		return nil, err
	}
	if err := s.handleAuthSuccess(&data); err != nil {
		return nil, err
	}

	s.log.Info("Auth", "Login successful", map[string]interface{}{"user_id": data.User.Id})
	return &data, nil
}

// handleAuthSuccess persists the session atomically and only then publishes
// the new state, so subscribers never observe a session the store doesn't
// hold.
func (s *authService) handleAuthSuccess(data *dto.AuthData) error {
	if err := s.store.SaveSession(data.Token, data.RefreshToken, &data.User); err != nil {
		return err
	}
	user := data.User
	s.currentUser.Set(&user)
	s.isAuthenticated.Set(true)
	return nil
}

// Logout is always locally effective: no remote call is made or required.
func (s *authService) Logout() {
	if err := s.store.ClearAll(); err != nil {
		s.log.Warn("Auth", "Failed to clear session store", map[string]interface{}{"error": err.Error()})
	}
	s.currentUser.Set(nil)
	s.isAuthenticated.Set(false)
	if s.navigator != nil {
		s.navigator.ToLogin()
	}
}

func (s *authService) HandleUnauthorized() {
	s.currentUser.Set(nil)
	s.isAuthenticated.Set(false)
	if s.navigator != nil {
		s.navigator.ToLogin()
	}
}

func (s *authService) GetCurrentUser(ctx context.Context) (*model.User, error) {
	resp, err := s.api.Get(ctx, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var user model.User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	s.refreshUser(&user)
	return &user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*model.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.api.Put(ctx, "/auth/profile", req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var user model.User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	s.refreshUser(&user)
	return &user, nil
}

func (s *authService) refreshUser(user *model.User) {
	if err := s.store.SaveUser(user); err != nil {
		s.log.Warn("Auth", "Failed to persist user record", map[string]interface{}{"error": err.Error()})
	}
	s.currentUser.Set(user)
}

func (s *authService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	req := &dto.ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	resp, err := s.api.Put(ctx, "/auth/change-password", req)
	if err != nil {
		return err
	}
	return resp.Err()
}

// IsAuthenticated derives solely from presence of a persisted token. The
// token is not validated locally.
func (s *authService) IsAuthenticated() bool {
	return s.store.Token() != ""
}

func (s *authService) Token() string {
	return s.store.Token()
}

func (s *authService) CurrentUserValue() *model.User {
	return s.currentUser.Get()
}

func (s *authService) SubscribeUser() *observable.Subscription[*model.User] {
	return s.currentUser.Subscribe()
}

func (s *authService) SubscribeAuthenticated() *observable.Subscription[bool] {
	return s.isAuthenticated.Subscribe()
}
