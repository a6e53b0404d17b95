package admin

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/paycollect/paycollect/core"
)

// Settings is the singleton admin configuration document. It is loaded at the
// boundary of each operation and committed back in full (last write wins).
type Settings struct {
	Username     string `json:"username"`
	PasswordHash []byte `json:"password"`

	PaymentAmount   int              `json:"payment_amount"`
	PaymentAccounts []PaymentAccount `json:"payment_accounts"`

	// ShortURLCode is the capability token gating the student portal.
	ShortURLCode string `json:"short_url_code"`
	BaseURL      string `json:"base_url"`

	FormPublished bool   `json:"form_published"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`

	TabVisibility          TabVisibility      `json:"tab_visibility"`
	ScreenshotSettings     ScreenshotSettings `json:"screenshot_settings"`
	AdditionalInstructions string             `json:"additional_instructions"`
}

type PaymentAccount struct {
	Bank    string `json:"bank" validate:"required"`
	Account string `json:"account" validate:"required"`
	Name    string `json:"name" validate:"required"`
}

// Label is the display form used as a Student's payment_account_used value.
func (a PaymentAccount) Label() string {
	return a.Bank + " - " + a.Account + " - " + a.Name
}

type TabVisibility struct {
	AccountDetails bool `json:"account_details"`
	SubmitPayment  bool `json:"submit_payment"`
	PaymentStatus  bool `json:"payment_status"`
	StudentList    bool `json:"student_list"`
	Instructions   bool `json:"instructions"`
}

type ScreenshotSettings struct {
	AllowDownload bool `json:"allow_download"`
	AllowDelete   bool `json:"allow_delete"`
	MaxFileSizeMB int  `json:"max_file_size_mb" validate:"min=1,max=50"`
}

func (s *Settings) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Settings) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// PortalURL is the full student-facing link carrying the capability token.
func (s *Settings) PortalURL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/?student=" + s.ShortURLCode
}

// NewShortCode generates a fresh 8-character portal code.
func NewShortCode() string {
	return uuid.New().String()[:8]
}

// DefaultSettings seeds the configuration on first run.
func DefaultSettings() Settings {
	s := Settings{
		Username:      "admin",
		PaymentAmount: 5000,
		PaymentAccounts: []PaymentAccount{
			{Bank: "Bank Name", Account: "1234567890", Name: "Account Holder"},
		},
		ShortURLCode:  NewShortCode(),
		BaseURL:       "http://localhost:8000",
		FormPublished: true,
		ContactEmail:  "admin@example.com",
		ContactPhone:  "+91 9876543210",
		TabVisibility: TabVisibility{
			AccountDetails: true,
			SubmitPayment:  true,
			PaymentStatus:  true,
			StudentList:    true,
			Instructions:   true,
		},
		ScreenshotSettings: ScreenshotSettings{
			AllowDownload: true,
			AllowDelete:   true,
			MaxFileSizeMB: 5,
		},
		AdditionalInstructions: "Please make payment to the given account and upload screenshot.",
	}
	_ = s.SetPassword("admin123")
	return s
}

// ChangeCredentials carries an admin username/password change request.
type ChangeCredentials struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	Username        string `json:"username" validate:"required,min=3,alphanum_"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (cc *ChangeCredentials) Validate(validate *validator.Validate) error {
	cc.Username = core.CleanString(cc.Username, true /* lower */)
	if err := validate.Struct(cc); err != nil {
		return err
	}
	return validatePassword(cc.Password, cc.Username)
}

// UpdateBasicSettings carries the payment amount / base URL form.
type UpdateBasicSettings struct {
	PaymentAmount int    `json:"payment_amount" validate:"required,min=1"`
	BaseURL       string `json:"base_url" validate:"required,url"`
	RotateCode    bool   `json:"rotate_code"`
}

func (ub *UpdateBasicSettings) Validate(validate *validator.Validate) error {
	ub.BaseURL = strings.TrimRight(core.CleanString(ub.BaseURL), "/")
	return validate.Struct(ub)
}

// UpdateContactInfo carries the admin contact details shown to students.
type UpdateContactInfo struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

func (uc *UpdateContactInfo) Validate(validate *validator.Validate) error {
	uc.Email = core.CleanString(uc.Email, true /* lower */)
	uc.Phone = core.CleanString(uc.Phone)
	return validate.Struct(uc)
}

// UpdateAccounts replaces the configured payment accounts.
type UpdateAccounts struct {
	Accounts []PaymentAccount `json:"accounts" validate:"required,min=1,dive"`
}

func (ua *UpdateAccounts) Validate(validate *validator.Validate) error {
	for i := range ua.Accounts {
		ua.Accounts[i].Bank = core.CleanString(ua.Accounts[i].Bank)
		ua.Accounts[i].Account = core.CleanString(ua.Accounts[i].Account)
		ua.Accounts[i].Name = core.CleanString(ua.Accounts[i].Name)
	}
	return validate.Struct(ua)
}
