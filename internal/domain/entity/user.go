package entity

// BankAccount cuenta bancaria mostrada en los PDF del emisor.
type BankAccount struct {
	Banco      string `json:"banco"`
	TipoCuenta string `json:"tipo_cuenta,omitempty"`
	Moneda     string `json:"moneda,omitempty"`
	Cuenta     string `json:"cuenta"`
	CCI        string `json:"cci"`
}

// UserProfile datos de cuenta y de negocio del usuario autenticado (GET /users/me/).
// Se reemplaza completo en cada actualización de perfil.
type UserProfile struct {
	ID                 int64         `json:"id"`
	Email              string        `json:"email"`
	IsActive           bool          `json:"is_active"`
	IsAdmin            bool          `json:"is_admin"`
	CreationDate       string        `json:"creation_date,omitempty"`
	DeactivationReason string        `json:"deactivation_reason,omitempty"`
	BusinessName       string        `json:"business_name,omitempty"`
	BusinessAddress    string        `json:"business_address,omitempty"`
	BusinessRUC        string        `json:"business_ruc,omitempty"`
	BusinessPhone      string        `json:"business_phone,omitempty"`
	LogoFilename       string        `json:"logo_filename,omitempty"`
	PrimaryColor       string        `json:"primary_color,omitempty"`
	PDFNote1           string        `json:"pdf_note_1,omitempty"`
	PDFNote1Color      string        `json:"pdf_note_1_color,omitempty"`
	PDFNote2           string        `json:"pdf_note_2,omitempty"`
	BankAccounts       []BankAccount `json:"bank_accounts,omitempty"`
	ApisPeruUser       string        `json:"apisperu_user,omitempty"`
}

// DisplayName nombre a mostrar: razón social si existe, si no el email.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.BusinessName != "" {
		return u.BusinessName
	}
	return u.Email
}
