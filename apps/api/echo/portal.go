package echoapi

import (
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/core/student"
)

type portalApi struct {
	adminSvc   *admin.Service
	studentSvc *student.Service
	emailSvc   core.EmailService
	conf       *core.Config
	validate   *validator.Validate
}

func registerPortalAPI(g *echo.Group, deps ServerDeps) {
	api := portalApi{
		adminSvc:   deps.AdminSvc,
		studentSvc: deps.StudentSvc,
		emailSvc:   deps.EmailSvc,
		conf:       deps.Conf,
		validate:   deps.Validate,
	}

	pg := g.Group("/portal", portalAccessMiddleware(deps.AdminSvc))
	pg.GET("/details", api.accountDetails)
	pg.GET("/instructions", api.instructions)
	pg.GET("/students", api.studentList)
	pg.GET("/status", api.paymentStatus)
	pg.POST("/submissions", api.submit)
}

// Handlers

func (api *portalApi) accountDetails(ctx echo.Context) error {
	s, err := getContextSettings(ctx)
	if err != nil {
		return err
	}
	if !s.TabVisibility.AccountDetails {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, AccountDetailsResponse{
		PaymentAccounts:        s.PaymentAccounts,
		PaymentAmount:          s.PaymentAmount,
		AdditionalInstructions: s.AdditionalInstructions,
	})
}

func (api *portalApi) instructions(ctx echo.Context) error {
	s, err := getContextSettings(ctx)
	if err != nil {
		return err
	}
	if !s.TabVisibility.Instructions {
		return errHttpNotFound
	}

	text, err := api.adminSvc.Instructions()
	if err != nil {
		return errors.Wrap(err, "loading instructions")
	}
	return ctx.JSON(http.StatusOK, InstructionsResponse{Instructions: text})
}

// studentList exposes only name, roll number and status; never remarks,
// transaction ids or screenshots.
func (api *portalApi) studentList(ctx echo.Context) error {
	s, err := getContextSettings(ctx)
	if err != nil {
		return err
	}
	if !s.TabVisibility.StudentList {
		return errHttpNotFound
	}

	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []PortalStudentEntry{})
	}
	filter.Provenance = ""
	filter.DateBucket = ""

	students, err := api.studentSvc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	entries := make([]PortalStudentEntry, 0, len(students))
	for _, st := range students {
		entries = append(entries, PortalStudentEntry{
			Name:          st.Name,
			RollNumber:    st.RollNumber,
			PaymentStatus: st.PaymentStatus,
		})
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *portalApi) paymentStatus(ctx echo.Context) error {
	s, err := getContextSettings(ctx)
	if err != nil {
		return err
	}
	if !s.TabVisibility.PaymentStatus {
		return errHttpNotFound
	}

	roll := ctx.QueryParam("roll_number")
	if roll == "" {
		return core.NewValidationError(nil,
			core.FieldError{Field: "roll_number", Error: "this field is required"})
	}

	st, err := api.studentSvc.GetByRoll(roll)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, PortalStatusResponse{
		Name:            st.Name,
		RollNumber:      st.RollNumber,
		PaymentStatus:   st.PaymentStatus,
		PaymentDatetime: st.PaymentDatetime,
		StudentRemarks:  st.StudentRemarks,
	})
}

func (api *portalApi) submit(ctx echo.Context) error {
	s, err := getContextSettings(ctx)
	if err != nil {
		return err
	}
	if !s.TabVisibility.SubmitPayment {
		return errHttpNotFound
	}

	ns := student.NewStudent{
		Name:           ctx.FormValue("name"),
		RollNumber:     ctx.FormValue("roll_number"),
		TransactionID:  ctx.FormValue("transaction_id"),
		PaymentAccount: ctx.FormValue("payment_account"),
		StudentRemarks: ctx.FormValue("student_remarks"),
	}

	hdr, err := ctx.FormFile("screenshot")
	if err != nil {
		return core.NewValidationError(nil,
			core.FieldError{Field: "screenshot", Error: "a payment screenshot is required"})
	}
	f, err := hdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded screenshot")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "reading uploaded screenshot")
	}

	st, pmt, err := api.studentSvc.Submit(ns, data, hdr.Filename, s.PaymentAmount)
	if err != nil {
		return err
	}

	api.notifyAdmin(s, st)

	return ctx.JSON(http.StatusCreated, SubmissionResponse{
		Student:       st,
		TransactionID: pmt.TransactionID,
		Amount:        pmt.Amount,
	})
}

func (api *portalApi) notifyAdmin(s admin.Settings, st student.Student) {
	if s.ContactEmail == "" {
		return
	}
	api.emailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: s.ContactEmail}},
		Subject: fmt.Sprintf("New payment submission from %s (%s)", st.Name, st.RollNumber),
		BodyStr: fmt.Sprintf(
			"%s (roll number %s) submitted a payment of %d via %q.\nReview it in the admin dashboard.",
			st.Name, st.RollNumber, s.PaymentAmount, st.PaymentAccountUsed,
		),
	})
}

type (
	AccountDetailsResponse struct {
		PaymentAccounts        []admin.PaymentAccount `json:"payment_accounts"`
		PaymentAmount          int                    `json:"payment_amount"`
		AdditionalInstructions string                 `json:"additional_instructions"`
	}

	PortalStudentEntry struct {
		Name          string             `json:"name"`
		RollNumber    string             `json:"roll_number"`
		PaymentStatus core.PaymentStatus `json:"payment_status"`
	}

	PortalStatusResponse struct {
		Name            string             `json:"name"`
		RollNumber      string             `json:"roll_number"`
		PaymentStatus   core.PaymentStatus `json:"payment_status"`
		PaymentDatetime time.Time          `json:"payment_datetime"`
		StudentRemarks  string             `json:"student_remarks,omitempty"`
	}

	SubmissionResponse struct {
		Student       student.Student `json:"student"`
		TransactionID string          `json:"transaction_id"`
		Amount        int             `json:"amount"`
	}
)
