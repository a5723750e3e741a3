package service

import (
	"context"
	"fmt"

	"github.com/Sachinsen7/grin/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService builds downloadable register workbooks from intake records.
type ReportService interface {
	GsnRegister(ctx context.Context) (*excelize.File, error)
	GrinRegister(ctx context.Context) (*excelize.File, error)
}

type reportService struct {
	gsn  repository.GsnRepository
	grin repository.GrinRepository
}

// NewReportService returns a new instance of ReportService.
func NewReportService(gsn repository.GsnRepository, grin repository.GrinRepository) ReportService {
	return &reportService{gsn: gsn, grin: grin}
}

var gsnRegisterHeaders = []string{
	"GRIN No", "GRIN Date", "GSN No", "GSN Date", "PO No", "Party Name",
	"Invoice No", "LR No", "Transporter", "Vehicle No", "GST No",
	"Material Total", "CGST", "SGST", "IGST", "Total Amount",
	"Store", "Purchase", "General", "Account", "Auditor",
}

func (s *reportService) GsnRegister(ctx context.Context) (*excelize.File, error) {
	entries, err := s.gsn.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, header := range gsnRegisterHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, e := range entries {
		row := []interface{}{
			e.GrinNo, e.GrinDate, e.GsnNo, e.GsnDate, e.PoNo, e.PartyName,
			e.InvoiceNo, e.LrNo, e.Transporter, e.VehicleNo, e.GstNo,
			cellDecimal(e.MaterialTotal), cellDecimal(e.Cgst), cellDecimal(e.Sgst),
			cellDecimal(e.Igst), cellDecimal(e.TotalAmount),
			signMark(e.StoreManagerSigned), signMark(e.PurchaseManagerSigned),
			signMark(e.GeneralManagerSigned), signMark(e.AccountManagerSigned),
			signMark(e.AuditorSigned),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

var grinRegisterHeaders = []string{
	"GRIN No", "GRIN Date", "GSN No", "GSN Date", "PO No", "Party Name",
	"Received From", "Invoice No", "Transporter", "Vehicle No",
	"Material Total", "Discount", "Total Amount",
	"Store", "Purchase", "General", "Account", "Auditor",
}

func (s *reportService) GrinRegister(ctx context.Context) (*excelize.File, error) {
	entries, err := s.grin.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, header := range grinRegisterHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, e := range entries {
		row := []interface{}{
			e.GrinNo, e.GrinDate, e.GsnNo, e.GsnDate, e.PoNo, e.PartyName,
			e.ReceivedFrom, e.InvoiceNo, e.Transporter, e.VehicleNo,
			cellDecimal(e.MaterialTotal), cellDecimal(e.Discount), cellDecimal(e.TotalAmount),
			signMark(e.StoreManagerSigned), signMark(e.PurchaseManagerSigned),
			signMark(e.GeneralManagerSigned), signMark(e.AccountManagerSigned),
			signMark(e.AuditorSigned),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func cellDecimal(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func signMark(signed bool) string {
	if signed {
		return "Yes"
	}
	return "No"
}
