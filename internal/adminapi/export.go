package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/bjo163/expiryexpert/internal/classify"
	"github.com/bjo163/expiryexpert/internal/domain"
)

type exportRow struct {
	ID         int64  `csv:"id"`
	Name       string `csv:"name"`
	Category   string `csv:"category"`
	ExpiryDate string `csv:"expiry_date"`
	Status     string `csv:"status"`
}

func buildExportRows(set []domain.Product, ref domain.Date) []exportRow {
	rows := make([]exportRow, 0, len(set))
	for _, p := range set {
		rows = append(rows, exportRow{
			ID:         p.ID,
			Name:       p.Name,
			Category:   p.Category,
			ExpiryDate: p.ExpiryDate.String(),
			Status:     string(classify.StatusOf(p, ref)),
		})
	}
	return rows
}

// exportProducts streams the product set as CSV (default) or XLSX.
func exportProducts(c echo.Context) error {
	ref := domain.DateOf(time.Now())
	rows := buildExportRows(GetStore(c).Load(), ref)

	switch c.QueryParam("format") {
	case "xlsx":
		return exportXlsx(c, rows)
	case "", "csv":
		return exportCsv(c, rows)
	default:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unsupported export format", nil)
	}
}

func exportCsv(c echo.Context, rows []exportRow) error {
	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export products", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func exportXlsx(c echo.Context, rows []exportRow) error {
	xlsx := excelize.NewFile()
	headers := []string{"ID", "Name", "Category", "Expiry Date", "Status"}
	for i, h := range headers {
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("%c1", 'A'+i), h)
	}
	for i, row := range rows {
		line := i + 2
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("A%d", line), row.ID)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("B%d", line), row.Name)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("C%d", line), row.Category)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("D%d", line), row.ExpiryDate)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("E%d", line), row.Status)
	}

	var buf bytes.Buffer
	if err := xlsx.Write(&buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export products", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
