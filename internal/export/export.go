// Package export writes order listings as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	SheetName = "Orders"
)

var Columns = []string{
	"id", "receipt_number", "customer_name", "mobile_number", "order_date",
	"regular_clothes_kg", "blankets_kg", "white_clothes_pieces", "total_amount", "created_at",
}

// ContentType returns the MIME type for format, or "" when the format is unknown.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return ""
}

func Write(w io.Writer, format string, orders []models.Order) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, orders)
	case FormatXLSX:
		return WriteXLSX(w, orders)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func receipt(o models.Order) string {
	if o.ReceiptNumber == nil {
		return ""
	}
	return *o.ReceiptNumber
}

func WriteCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, o := range orders {
		err := cw.Write([]string{
			strconv.FormatInt(o.ID, 10),
			receipt(o),
			o.CustomerName,
			o.MobileNumber,
			o.OrderDate.Format(models.DateLayout),
			o.RegularKg.StringFixed(2),
			o.BlanketsKg.StringFixed(2),
			strconv.FormatInt(o.WhitePieces, 10),
			o.TotalAmount.StringFixed(2),
			o.CreatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, orders []models.Order) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	// two decimal places, built-in format 2
	twoPlaces, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, o := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			o.ID,
			receipt(o),
			o.CustomerName,
			o.MobileNumber,
			o.OrderDate.Format(models.DateLayout),
			excelize.Cell{StyleID: twoPlaces, Value: o.RegularKg.InexactFloat64()},
			excelize.Cell{StyleID: twoPlaces, Value: o.BlanketsKg.InexactFloat64()},
			o.WhitePieces,
			excelize.Cell{StyleID: twoPlaces, Value: o.TotalAmount.InexactFloat64()},
			o.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
