package admin

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/paycollect/paycollect/core"
)

var (
	// errors
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrWrongPassword        = errors.New("current password is incorrect")
)

type (
	Repository interface {
		// LoadSettings returns the stored configuration, seeding defaults
		// when the backing store is absent or unreadable.
		LoadSettings() (Settings, error)
		SaveSettings(Settings) error

		LoadInstructions() (string, error)
		SaveInstructions(string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Settings() (Settings, error) {
	return svc.repo.LoadSettings()
}

// Authenticate checks the admin credentials against the stored hash.
func (svc *Service) Authenticate(username, password string) (Settings, error) {
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	if s.Username != core.CleanString(username, true /* lower */) {
		return Settings{}, ErrAuthenticationFailed
	}
	if err := s.CheckPassword(password); err != nil {
		return Settings{}, ErrAuthenticationFailed
	}
	return s, nil
}

func (svc *Service) ChangeCredentials(cc ChangeCredentials) error {
	if err := cc.Validate(svc.validate); err != nil {
		return err
	}
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return err
	}
	if err := s.CheckPassword(cc.CurrentPassword); err != nil {
		return core.NewValidationError(ErrWrongPassword,
			core.FieldError{Field: "current_password", Error: ErrWrongPassword.Error()})
	}
	s.Username = cc.Username
	if err := s.SetPassword(cc.Password); err != nil {
		return err
	}
	return svc.repo.SaveSettings(s)
}

func (svc *Service) UpdateBasicSettings(ub UpdateBasicSettings) (Settings, error) {
	if err := ub.Validate(svc.validate); err != nil {
		return Settings{}, err
	}
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	s.PaymentAmount = ub.PaymentAmount
	s.BaseURL = ub.BaseURL
	if ub.RotateCode {
		s.ShortURLCode = NewShortCode()
	}
	return s, svc.repo.SaveSettings(s)
}

func (svc *Service) UpdateAccounts(ua UpdateAccounts) (Settings, error) {
	if err := ua.Validate(svc.validate); err != nil {
		return Settings{}, err
	}
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	s.PaymentAccounts = ua.Accounts
	return s, svc.repo.SaveSettings(s)
}

func (svc *Service) SetFormPublished(published bool) (Settings, error) {
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	s.FormPublished = published
	return s, svc.repo.SaveSettings(s)
}

func (svc *Service) UpdateContactInfo(uc UpdateContactInfo) (Settings, error) {
	if err := uc.Validate(svc.validate); err != nil {
		return Settings{}, err
	}
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	s.ContactEmail = uc.Email
	s.ContactPhone = uc.Phone
	return s, svc.repo.SaveSettings(s)
}

func (svc *Service) UpdateTabVisibility(tv TabVisibility) (Settings, error) {
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	s.TabVisibility = tv
	return s, svc.repo.SaveSettings(s)
}

func (svc *Service) UpdateScreenshotSettings(ss ScreenshotSettings) (Settings, error) {
	if err := svc.validate.Struct(ss); err != nil {
		return Settings{}, err
	}
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	s.ScreenshotSettings = ss
	return s, svc.repo.SaveSettings(s)
}

func (svc *Service) UpdateAdditionalInstructions(text string) (Settings, error) {
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	s.AdditionalInstructions = text
	return s, svc.repo.SaveSettings(s)
}

func (svc *Service) Instructions() (string, error) {
	return svc.repo.LoadInstructions()
}

func (svc *Service) SetInstructions(text string) error {
	return svc.repo.SaveInstructions(text)
}

// ScreenshotPolicy reads the live policy; callers must not cache it.
func (svc *Service) ScreenshotPolicy() (ScreenshotSettings, error) {
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return ScreenshotSettings{}, err
	}
	return s.ScreenshotSettings, nil
}

// ResetPassword sets a new admin password directly (CLI use).
func (svc *Service) ResetPassword(pwd string) error {
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return err
	}
	if err := validatePassword(pwd, s.Username); err != nil {
		return err
	}
	if err := s.SetPassword(pwd); err != nil {
		return err
	}
	return svc.repo.SaveSettings(s)
}

// RotateCode replaces the portal capability token (CLI use).
func (svc *Service) RotateCode() (string, error) {
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return "", err
	}
	s.ShortURLCode = NewShortCode()
	if err := svc.repo.SaveSettings(s); err != nil {
		return "", err
	}
	return s.ShortURLCode, nil
}
