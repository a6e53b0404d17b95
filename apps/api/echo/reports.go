package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/paycollect/paycollect/core/report"
	"github.com/paycollect/paycollect/core/student"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeZip  = "application/zip"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := reportApi{svc: deps.ReportSvc}

	rg := g.Group("/admin/reports", jwt, adminMiddleware())
	rg.GET("/students", api.studentRows)
	rg.GET("/payments", api.paymentRows)
	rg.GET("/summary", api.summary)
	rg.GET("/students/export", api.exportStudents)
	rg.GET("/payments/export", api.exportPayments)
	rg.GET("/screenshots/archive", api.screenshotArchive)
	rg.GET("/backup", api.backup)
}

// Handlers

func (api *reportApi) studentRows(ctx echo.Context) error {
	qf, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	rows, err := api.svc.StudentRows(qf)
	if err != nil {
		return errors.Wrap(err, "building student rows")
	}
	if rows == nil {
		rows = []report.StudentRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *reportApi) paymentRows(ctx echo.Context) error {
	qf, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	rows, err := api.svc.PaymentRows(qf)
	if err != nil {
		return errors.Wrap(err, "building payment rows")
	}
	if rows == nil {
		rows = []report.PaymentRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *reportApi) summary(ctx echo.Context) error {
	summary, err := api.svc.Summary()
	if err != nil {
		return errors.Wrap(err, "building summary")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *reportApi) exportStudents(ctx echo.Context) error {
	qf, err := bindFilter(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format := ctx.QueryParam("format"); format {
	case "", "csv":
		if err := api.svc.StudentsCSV(&buf, qf); err != nil {
			return errors.Wrap(err, "exporting students csv")
		}
		return sendAttachment(ctx, contentTypeCSV, exportFilename("students_data", "csv"), buf.Bytes())
	case "xlsx":
		if err := api.svc.StudentsXLSX(&buf, qf); err != nil {
			return errors.Wrap(err, "exporting students xlsx")
		}
		return sendAttachment(ctx, contentTypeXLSX, exportFilename("students_data", "xlsx"), buf.Bytes())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
	}
}

func (api *reportApi) exportPayments(ctx echo.Context) error {
	qf, err := bindFilter(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format := ctx.QueryParam("format"); format {
	case "", "csv":
		if err := api.svc.PaymentsCSV(&buf, qf); err != nil {
			return errors.Wrap(err, "exporting payments csv")
		}
		return sendAttachment(ctx, contentTypeCSV, exportFilename("payments_data", "csv"), buf.Bytes())
	case "xlsx":
		if err := api.svc.PaymentsXLSX(&buf, qf); err != nil {
			return errors.Wrap(err, "exporting payments xlsx")
		}
		return sendAttachment(ctx, contentTypeXLSX, exportFilename("payments_data", "xlsx"), buf.Bytes())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
	}
}

func (api *reportApi) screenshotArchive(ctx echo.Context) error {
	qf, err := bindFilter(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	count, err := api.svc.ScreenshotBundle(&buf, qf)
	if err != nil {
		return errors.Wrap(err, "bundling screenshots")
	}
	if count == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no screenshots available for the selected filters")
	}
	return sendAttachment(ctx, contentTypeZip, exportFilename("payment_screenshots", "zip"), buf.Bytes())
}

func (api *reportApi) backup(ctx echo.Context) error {
	backup, err := api.svc.Backup()
	if err != nil {
		return errors.Wrap(err, "building backup")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", exportFilename("backup", "json")))
	return ctx.JSON(http.StatusOK, backup)
}

func bindFilter(ctx echo.Context) (student.QueryFilter, error) {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return student.QueryFilter{}, errors.Wrap(err, "binding to QueryFilter")
	}
	return *filter, nil
}

func exportFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
}

func sendAttachment(ctx echo.Context, contentType, filename string, data []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, contentType, data)
}
