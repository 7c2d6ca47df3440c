package dto

import "github.com/jhoicas/facturapro/internal/domain/entity"

// Credentials usuario (email) y contraseña para POST /token.
type Credentials struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse respuesta de POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// RegisterRequest body para POST /register.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	BusinessName    string `json:"business_name,omitempty"`
	BusinessRUC     string `json:"business_ruc,omitempty" validate:"omitempty,ruc"`
	BusinessAddress string `json:"business_address,omitempty"`
	BusinessPhone   string `json:"business_phone,omitempty"`
}

// ProfileUpdate body para PUT /profile/ (campos opcionales).
type ProfileUpdate struct {
	BusinessName     *string              `json:"business_name,omitempty"`
	BusinessAddress  *string              `json:"business_address,omitempty"`
	BusinessRUC      *string              `json:"business_ruc,omitempty" validate:"omitempty,ruc"`
	BusinessPhone    *string              `json:"business_phone,omitempty"`
	PrimaryColor     *string              `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	PDFNote1         *string              `json:"pdf_note_1,omitempty"`
	PDFNote1Color    *string              `json:"pdf_note_1_color,omitempty" validate:"omitempty,hexcolor"`
	PDFNote2         *string              `json:"pdf_note_2,omitempty"`
	BankAccounts     []entity.BankAccount `json:"bank_accounts,omitempty" validate:"omitempty,max=3,dive"`
	ApisPeruUser     *string              `json:"apisperu_user,omitempty"`
	ApisPeruPassword *string              `json:"apisperu_password,omitempty"`
}

// LogoUploadResponse respuesta de POST /users/upload-logo.
type LogoUploadResponse struct {
	Filename string `json:"filename"`
}
