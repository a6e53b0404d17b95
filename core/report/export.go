package report

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/student"
)

// AssetReader resolves a stored screenshot filename to its bytes.
type AssetReader interface {
	Read(name string) ([]byte, error)
}

// WriteStudentsCSV streams the student rows as CSV.
func WriteStudentsCSV(w io.Writer, rows []StudentRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(studentHeader); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, row := range rows {
		if err := cw.Write(row.values()); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}

// WritePaymentsCSV streams the payment rows as CSV.
func WritePaymentsCSV(w io.Writer, rows []PaymentRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(paymentHeader); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, row := range rows {
		rec := []string{
			row.StudentName, row.RollNumber, row.TransactionID, strconv.Itoa(row.Amount),
			row.Status, row.PaymentDate, row.TimestampType, row.ScreenshotStatus,
			row.SubmissionDate, row.PaymentAccount, row.SubmittedBy,
			row.AdminRemarks, row.StudentRemarks,
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}

// WriteStudentsXLSX streams the student rows as a spreadsheet.
func WriteStudentsXLSX(w io.Writer, rows []StudentRow) error {
	cells := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		vals := row.values()
		cell := make([]interface{}, len(vals))
		for i, v := range vals {
			cell[i] = v
		}
		cells = append(cells, cell)
	}
	return writeSheet(w, "Students", studentHeader, cells)
}

// WritePaymentsXLSX streams the payment rows as a spreadsheet.
func WritePaymentsXLSX(w io.Writer, rows []PaymentRow) error {
	cells := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []interface{}{
			row.StudentName, row.RollNumber, row.TransactionID, row.Amount,
			row.Status, row.PaymentDate, row.TimestampType, row.ScreenshotStatus,
			row.SubmissionDate, row.PaymentAccount, row.SubmittedBy,
			row.AdminRemarks, row.StudentRemarks,
		})
	}
	return writeSheet(w, "Payments", paymentHeader, cells)
}

func writeSheet(w io.Writer, sheet string, header []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrap(err, "writing sheet header")
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.Wrap(err, "writing sheet cell")
			}
		}
	}
	return errors.Wrap(f.Write(w), "writing spreadsheet")
}

// WriteScreenshotBundle zips every non-tombstoned screenshot in the filtered
// payment set under a descriptive name; entries whose asset is missing are
// skipped. It reports how many assets were bundled.
func WriteScreenshotBundle(w io.Writer, payments []payment.Payment, students []student.Student, assets AssetReader, qf student.QueryFilter, now time.Time) (int, error) {
	filtered := FilterPayments(payments, students, qf, now)
	byID := studentIndex(students)

	zw := zip.NewWriter(w)
	var bundled int
	for _, pmt := range filtered {
		if pmt.Screenshot == "" || pmt.ScreenshotDeleted {
			continue
		}
		data, err := assets.Read(pmt.Screenshot)
		if err != nil {
			continue
		}
		owner, ok := byID[pmt.StudentID]
		if !ok {
			continue
		}
		name := fmt.Sprintf("%s_%s_%s_%s", owner.RollNumber, owner.Name, pmt.TransactionID, pmt.Screenshot)
		fw, err := zw.Create(name)
		if err != nil {
			return bundled, errors.Wrap(err, "creating zip entry")
		}
		if _, err := fw.Write(data); err != nil {
			return bundled, errors.Wrap(err, "writing zip entry")
		}
		bundled++
	}
	return bundled, errors.Wrap(zw.Close(), "closing zip")
}
