package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/screenshot"
	"github.com/paycollect/paycollect/core/student"
)

type studentApi struct {
	svc      *student.Service
	payments *payment.Service
	adminSvc *admin.Service
	shots    *screenshot.Manager
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:      deps.StudentSvc,
		payments: deps.PaymentSvc,
		adminSvc: deps.AdminSvc,
		shots:    deps.Shots,
		validate: deps.Validate,
	}

	sg := g.Group("/admin/students", jwt, adminMiddleware())
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.DELETE("", api.destroyMultiple)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.PUT("/:id/status", api.updateStatus)
	sg.DELETE("/:id", api.destroy)

	pg := g.Group("/admin/payments", jwt, adminMiddleware())
	pg.GET("", api.queryPayments)
	pg.GET("/:id", api.retrievePayment)
	pg.GET("/:id/screenshot", api.downloadScreenshot)
	pg.DELETE("/:id/screenshot", api.deleteScreenshot)

	g.DELETE("/admin/screenshots", api.deleteScreenshotsBulk, jwt, adminMiddleware())
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}

	students, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.AdminNewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminNewStudent")
	}

	st, err := api.svc.CreateByAdmin(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}

	st, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) updateStatus(ctx echo.Context) error {
	var data StatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}
	status, err := core.ParseStatus(data.Status)
	if err != nil {
		return err
	}

	st, err := api.svc.UpdateStatus(ctx.Param("id"), status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	succeeded, failed := api.svc.DeleteBulk(query.IDs)
	return ctx.JSON(http.StatusOK, BulkResultResponse{Succeeded: succeeded, Failed: failed})
}

func (api *studentApi) queryPayments(ctx echo.Context) error {
	payments, err := api.payments.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *studentApi) retrievePayment(ctx echo.Context) error {
	pmt, err := api.payments.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *studentApi) downloadScreenshot(ctx echo.Context) error {
	policy, err := api.adminSvc.ScreenshotPolicy()
	if err != nil {
		return errors.Wrap(err, "loading screenshot policy")
	}
	if !policy.AllowDownload {
		return errHttpForbidden
	}

	pmt, err := api.payments.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if pmt.Screenshot == "" {
		return errHttpNotFound
	}

	data, err := api.shots.Retrieve(pmt.Screenshot)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", pmt.Screenshot))
	return ctx.Blob(http.StatusOK, http.DetectContentType(data), data)
}

func (api *studentApi) deleteScreenshot(ctx echo.Context) error {
	policy, err := api.adminSvc.ScreenshotPolicy()
	if err != nil {
		return errors.Wrap(err, "loading screenshot policy")
	}
	if !policy.AllowDelete {
		return errHttpForbidden
	}

	if err := api.svc.DeleteScreenshot(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) deleteScreenshotsBulk(ctx echo.Context) error {
	policy, err := api.adminSvc.ScreenshotPolicy()
	if err != nil {
		return errors.Wrap(err, "loading screenshot policy")
	}
	if !policy.AllowDelete {
		return errHttpForbidden
	}

	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	deleted, err := api.svc.DeleteScreenshotsBulk(*filter)
	if err != nil {
		return errors.Wrap(err, "bulk deleting screenshots")
	}
	return ctx.JSON(http.StatusOK, BulkResultResponse{Succeeded: deleted})
}

type (
	StatusRequest struct {
		Status string `json:"status" validate:"required"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}

	BulkResultResponse struct {
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
)
