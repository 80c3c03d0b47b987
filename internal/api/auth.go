package api

import (
	"context"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
)

type AuthAPI struct {
	c Doer
}

func NewAuthAPI(c Doer) *AuthAPI {
	return &AuthAPI{c: c}
}

type LoginResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	ExpiresIn    int         `json:"expiresIn,omitempty"`
	User         models.User `json:"user"`
}

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	University string `json:"university,omitempty"`
	Country    string `json:"country,omitempty"`
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateRequired("password", password); err != nil {
		return nil, err
	}

	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := a.c.Post(ctx, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	if err := validateRequired("name", req.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := validateRequired("role", req.Role); err != nil {
		return nil, err
	}

	var result LoginResult
	if err := a.c.Post(ctx, "/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.Post(ctx, "/auth/logout", nil, nil)
}

func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	return a.c.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (a *AuthAPI) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := validateRequired("token", resetToken); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	body := map[string]string{"token": resetToken, "password": newPassword}
	return a.c.Post(ctx, "/auth/reset-password", body, nil)
}

func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var result struct {
		User models.User `json:"user"`
	}
	if err := a.c.Get(ctx, "/auth/me", &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}
