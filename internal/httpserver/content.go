package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/service"
	"github.com/Skotchmaster/sucrestore/internal/transport"
)

type ContentHTTP struct {
	Svc *service.ContentService
}

func (h *ContentHTTP) PublicSliders(c echo.Context) error {
	return h.sliders(c, true)
}

func (h *ContentHTTP) AdminSliders(c echo.Context) error {
	return h.sliders(c, false)
}

func (h *ContentHTTP) sliders(c echo.Context, onlyActive bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slider.list")

	items, err := h.Svc.ListSliders(ctx, onlyActive)
	if err != nil {
		return fail(l, "get_sliders_failed", "cannot list sliders", err)
	}
	return c.JSON(http.StatusOK, items)
}

// CreateSlider accepts JSON with an imageUrl, or a multipart form whose
// "image" file is stored first.
func (h *ContentHTTP) CreateSlider(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slider.create")

	var req transport.SliderRequest
	if isMultipart(c) {
		r, err := h.sliderForm(c, l)
		if err != nil {
			return err
		}
		req = r
	} else if err := c.Bind(&req); err != nil {
		return badRequest(l, "slider_create_failed", "invalid body", err)
	}

	img, err := h.Svc.CreateSlider(ctx, req)
	if err != nil {
		return fail(l, "slider_create_failed", "cannot create slider", err)
	}
	l.Info("slider_create_success", "slider_id", img.ID)
	return c.JSON(http.StatusCreated, img)
}

func (h *ContentHTTP) sliderForm(c echo.Context, l *slog.Logger) (transport.SliderRequest, error) {
	req := transport.SliderRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		ImageURL:    c.FormValue("imageUrl"),
	}
	if v := c.FormValue("displayOrder"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, badRequest(l, "slider_create_failed", "displayOrder is not an integer", err)
		}
		req.DisplayOrder = n
	}
	if v := c.FormValue("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, badRequest(l, "slider_create_failed", "active is not a boolean", err)
		}
		req.Active = &b
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return req, badRequest(l, "slider_create_failed", "cannot read image", err)
	}
	f, err := fh.Open()
	if err != nil {
		return req, badRequest(l, "slider_create_failed", "cannot read image", err)
	}
	defer f.Close()

	url, err := h.Svc.Upload(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return req, fail(l, "slider_create_failed", "cannot store image", err)
	}
	req.ImageURL = url
	return req, nil
}

func (h *ContentHTTP) UpdateSlider(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slider.update")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "slider_update_failed", "invalid id", err)
	}
	var req transport.PatchSliderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "slider_update_failed", "invalid body", err)
	}
	img, err := h.Svc.UpdateSlider(ctx, id, req)
	if err != nil {
		return fail(l, "slider_update_failed", "cannot update slider", err)
	}
	return c.JSON(http.StatusOK, img)
}

func (h *ContentHTTP) ToggleSlider(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slider.toggle")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "slider_toggle_failed", "invalid id", err)
	}
	img, err := h.Svc.ToggleSlider(ctx, id)
	if err != nil {
		return fail(l, "slider_toggle_failed", "cannot toggle slider", err)
	}
	return c.JSON(http.StatusOK, img)
}

func (h *ContentHTTP) DeleteSlider(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slider.delete")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "slider_delete_failed", "invalid id", err)
	}
	if err := h.Svc.DeleteSlider(ctx, id); err != nil {
		return fail(l, "slider_delete_failed", "cannot delete slider", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Upload stores the multipart field "file" and returns its public URL.
func (h *ContentHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.create")

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(l, "upload_failed", "multipart field file required", err)
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(l, "upload_failed", "cannot read upload", err)
	}
	defer f.Close()

	url, err := h.Svc.Upload(ctx, fh.Filename, f)
	if err != nil {
		return fail(l, "upload_failed", "cannot store file", err)
	}
	l.Info("upload_success", "url", url, "size", fh.Size)
	return c.JSON(http.StatusCreated, transport.UploadResponse{URL: url})
}

func (h *ContentHTTP) PublicSettings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.public")

	values, err := h.Svc.PublicSettings(ctx)
	if err != nil {
		return fail(l, "get_settings_failed", "cannot read settings", err)
	}
	return c.JSON(http.StatusOK, values)
}

func (h *ContentHTTP) GetSettings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.get")

	values, err := h.Svc.Settings(ctx)
	if err != nil {
		return fail(l, "get_settings_failed", "cannot read settings", err)
	}
	return c.JSON(http.StatusOK, values)
}

func (h *ContentHTTP) UpdateSettings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.update")

	var values map[string]string
	if err := c.Bind(&values); err != nil {
		return badRequest(l, "update_settings_failed", "body must be an object of strings", err)
	}
	all, err := h.Svc.UpdateSettings(ctx, values)
	if err != nil {
		return fail(l, "update_settings_failed", "cannot save settings", err)
	}
	l.Info("update_settings_success", "keys", len(values))
	return c.JSON(http.StatusOK, all)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
