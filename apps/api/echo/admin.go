package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/admin"
)

type adminApi struct {
	svc      *admin.Service
	conf     *core.Config
	validate *validator.Validate
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := adminApi{
		svc:      deps.AdminSvc,
		conf:     deps.Conf,
		validate: deps.Validate,
	}

	ag := g.Group("/admin")

	// un-authed endpoints
	ag.POST("/login", api.login)

	// authed endpoints
	sg := ag.Group("/settings", jwt, adminMiddleware())
	sg.GET("", api.retrieveSettings)
	sg.PUT("/credentials", api.changeCredentials)
	sg.PUT("/basic", api.updateBasicSettings)
	sg.PUT("/accounts", api.updateAccounts)
	sg.PUT("/publish", api.setFormPublished)
	sg.PUT("/contact", api.updateContactInfo)
	sg.PUT("/tabs", api.updateTabVisibility)
	sg.PUT("/screenshots", api.updateScreenshotSettings)
	sg.PUT("/additional-instructions", api.updateAdditionalInstructions)

	ig := ag.Group("/instructions", jwt, adminMiddleware())
	ig.GET("", api.retrieveInstructions)
	ig.PUT("", api.updateInstructions)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(data.Username, data.Password, api.svc, api.conf)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *adminApi) retrieveSettings(ctx echo.Context) error {
	s, err := api.svc.Settings()
	if err != nil {
		return errors.Wrap(err, "loading settings")
	}
	return ctx.JSON(http.StatusOK, newSettingsResponse(s))
}

func (api *adminApi) changeCredentials(ctx echo.Context) error {
	var data admin.ChangeCredentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeCredentials")
	}
	if err := api.svc.ChangeCredentials(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Credentials updated. Please log in again."})
}

func (api *adminApi) updateBasicSettings(ctx echo.Context) error {
	var data admin.UpdateBasicSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBasicSettings")
	}
	s, err := api.svc.UpdateBasicSettings(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newSettingsResponse(s))
}

func (api *adminApi) updateAccounts(ctx echo.Context) error {
	var data admin.UpdateAccounts
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAccounts")
	}
	s, err := api.svc.UpdateAccounts(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newSettingsResponse(s))
}

func (api *adminApi) setFormPublished(ctx echo.Context) error {
	var data PublishRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PublishRequest")
	}
	s, err := api.svc.SetFormPublished(data.Published)
	if err != nil {
		return errors.Wrap(err, "setting form published")
	}
	return ctx.JSON(http.StatusOK, newSettingsResponse(s))
}

func (api *adminApi) updateContactInfo(ctx echo.Context) error {
	var data admin.UpdateContactInfo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateContactInfo")
	}
	s, err := api.svc.UpdateContactInfo(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newSettingsResponse(s))
}

func (api *adminApi) updateTabVisibility(ctx echo.Context) error {
	var data admin.TabVisibility
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TabVisibility")
	}
	s, err := api.svc.UpdateTabVisibility(data)
	if err != nil {
		return errors.Wrap(err, "updating tab visibility")
	}
	return ctx.JSON(http.StatusOK, newSettingsResponse(s))
}

func (api *adminApi) updateScreenshotSettings(ctx echo.Context) error {
	var data admin.ScreenshotSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScreenshotSettings")
	}
	s, err := api.svc.UpdateScreenshotSettings(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newSettingsResponse(s))
}

func (api *adminApi) updateAdditionalInstructions(ctx echo.Context) error {
	var data InstructionsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to InstructionsRequest")
	}
	s, err := api.svc.UpdateAdditionalInstructions(data.Text)
	if err != nil {
		return errors.Wrap(err, "updating additional instructions")
	}
	return ctx.JSON(http.StatusOK, newSettingsResponse(s))
}

func (api *adminApi) retrieveInstructions(ctx echo.Context) error {
	text, err := api.svc.Instructions()
	if err != nil {
		return errors.Wrap(err, "loading instructions")
	}
	return ctx.JSON(http.StatusOK, InstructionsResponse{Instructions: text})
}

func (api *adminApi) updateInstructions(ctx echo.Context) error {
	var data InstructionsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to InstructionsRequest")
	}
	if err := api.svc.SetInstructions(data.Text); err != nil {
		return errors.Wrap(err, "saving instructions")
	}
	return ctx.JSON(http.StatusOK, InstructionsResponse{Instructions: data.Text})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	PublishRequest struct {
		Published bool `json:"published"`
	}

	InstructionsRequest struct {
		Text string `json:"text"`
	}

	InstructionsResponse struct {
		Instructions string `json:"instructions"`
	}

	// SettingsResponse mirrors admin.Settings without the password hash.
	SettingsResponse struct {
		Username               string                   `json:"username"`
		PaymentAmount          int                      `json:"payment_amount"`
		PaymentAccounts        []admin.PaymentAccount   `json:"payment_accounts"`
		ShortURLCode           string                   `json:"short_url_code"`
		BaseURL                string                   `json:"base_url"`
		PortalURL              string                   `json:"portal_url"`
		FormPublished          bool                     `json:"form_published"`
		ContactEmail           string                   `json:"contact_email"`
		ContactPhone           string                   `json:"contact_phone"`
		TabVisibility          admin.TabVisibility      `json:"tab_visibility"`
		ScreenshotSettings     admin.ScreenshotSettings `json:"screenshot_settings"`
		AdditionalInstructions string                   `json:"additional_instructions"`
	}
)

func newSettingsResponse(s admin.Settings) SettingsResponse {
	return SettingsResponse{
		Username:               s.Username,
		PaymentAmount:          s.PaymentAmount,
		PaymentAccounts:        s.PaymentAccounts,
		ShortURLCode:           s.ShortURLCode,
		BaseURL:                s.BaseURL,
		PortalURL:              s.PortalURL(),
		FormPublished:          s.FormPublished,
		ContactEmail:           s.ContactEmail,
		ContactPhone:           s.ContactPhone,
		TabVisibility:          s.TabVisibility,
		ScreenshotSettings:     s.ScreenshotSettings,
		AdditionalInstructions: s.AdditionalInstructions,
	}
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}
