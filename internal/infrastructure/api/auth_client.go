package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
)

var (
	_ repository.AuthRepository    = (*AuthClient)(nil)
	_ repository.ProfileRepository = (*AuthClient)(nil)
)

// AuthClient /token, /register, /users/me/, /profile/ y /users/upload-logo.
type AuthClient struct {
	c *Client
}

// NewAuthClient construye el cliente de autenticación y perfil.
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// Token envía username/password como formulario (OAuth2 password flow).
func (a *AuthClient) Token(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	var out dto.TokenResponse
	if err := a.c.PostForm(ctx, "/token", form, &out); err != nil {
		return "", fmt.Errorf("auth: token: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("auth: token: respuesta sin access_token: %w", domain.ErrServer)
	}
	return out.AccessToken, nil
}

// Register crea la cuenta.
func (a *AuthClient) Register(ctx context.Context, in dto.RegisterRequest) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := a.c.PostAnonymous(ctx, "/register", in, &out); err != nil {
		return nil, fmt.Errorf("auth: registro: %w", err)
	}
	return &out, nil
}

// Me perfil del dueño del token.
func (a *AuthClient) Me(ctx context.Context) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := a.c.Get(ctx, "/users/me/", &out); err != nil {
		return nil, fmt.Errorf("auth: perfil: %w", err)
	}
	return &out, nil
}

// Update PUT /profile/; devuelve el perfil completo actualizado.
func (a *AuthClient) Update(ctx context.Context, in dto.ProfileUpdate) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := a.c.Put(ctx, "/profile/", in, &out); err != nil {
		return nil, fmt.Errorf("perfil: actualizar: %w", err)
	}
	return &out, nil
}

// UploadLogo sube el logo como multipart (campo "file").
func (a *AuthClient) UploadLogo(ctx context.Context, filename string, content []byte) (string, error) {
	var out dto.LogoUploadResponse
	if err := a.c.PostMultipart(ctx, "/users/upload-logo", "file", filename, content, &out); err != nil {
		return "", fmt.Errorf("perfil: subir logo: %w", err)
	}
	return out.Filename, nil
}
