package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/importer"
	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/service"
)

// SheetsOpener builds a Google Sheets source for a spreadsheet and range.
type SheetsOpener func(ctx context.Context, spreadsheetID, readRange string) (importer.Source, error)

type ImportHTTP struct {
	Svc *service.ImportService
	// OpenSheets is nil when Google Sheets import is not configured.
	OpenSheets    SheetsOpener
	SpreadsheetID string
	Range         string
}

type sheetsImportRequest struct {
	SpreadsheetID string `json:"spreadsheetId"`
	Range         string `json:"range"`
}

// UploadFile imports a CSV or XLSX file sent as the multipart field "file".
func (h *ImportHTTP) UploadFile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "import.file")

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(l, "import_failed", "multipart field file required", err)
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(l, "import_failed", "cannot read upload", err)
	}
	defer f.Close()

	var src importer.Source
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".csv", ".txt":
		src = importer.CSVSource{Reader: f}
	case ".xlsx":
		src = importer.XLSXSource{ReaderAt: f, Size: fh.Size}
	default:
		return badRequest(l, "import_failed", "only .csv and .xlsx files are supported", errors.New(fh.Filename))
	}

	return h.run(c, l, src)
}

// ImportSheets imports a spreadsheet named in the body, falling back to the
// configured one.
func (h *ImportHTTP) ImportSheets(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "import.sheets")

	var req sheetsImportRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(l, "import_failed", "invalid body", err)
		}
	}
	return h.sheets(c, strings.TrimSpace(req.SpreadsheetID), strings.TrimSpace(req.Range))
}

// SyncSheets re-runs the import of the configured spreadsheet.
func (h *ImportHTTP) SyncSheets(c echo.Context) error {
	return h.sheets(c, "", "")
}

func (h *ImportHTTP) sheets(c echo.Context, id, rng string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "import.sheets")

	if id == "" {
		id = h.SpreadsheetID
	}
	if rng == "" {
		rng = h.Range
	}
	if h.OpenSheets == nil || id == "" {
		l.Warn("import_failed", "status", 503, "reason", "google sheets not configured")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "google sheets import is not configured")
	}

	src, err := h.OpenSheets(ctx, id, rng)
	if err != nil {
		l.Error("import_failed", "status", 502, "reason", "cannot open spreadsheet", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "cannot open spreadsheet")
	}
	return h.run(c, l.With("spreadsheet_id", id), src)
}

func (h *ImportHTTP) run(c echo.Context, l *slog.Logger, src importer.Source) error {
	sum, err := h.Svc.Run(c.Request().Context(), src)
	if err != nil {
		return fail(l, "import_failed", "import failed", err)
	}
	l.Info("import_success", "total", sum.Total, "errors", len(sum.Errors))
	return c.JSON(http.StatusOK, sum)
}
