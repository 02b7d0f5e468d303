package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/service"
	"github.com/Skotchmaster/sucrestore/internal/transport"
	"github.com/Skotchmaster/sucrestore/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	return h.listProducts(c, "product.get_products", false)
}

// AdminProducts lists inactive products too.
func (h *CatalogHTTP) AdminProducts(c echo.Context) error {
	return h.listProducts(c, "product.admin_list", true)
}

func (h *CatalogHTTP) listProducts(c echo.Context, name string, all bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	q := service.ProductQuery{
		Search: c.QueryParam("search"),
		Page:   util.ParseIntDefault(c.QueryParam("page"), 1),
		Size:   util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
		All:    all,
	}
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(l, "get_products_failed", "categoryId is not an integer", err)
		}
		cid := uint(id)
		q.CategoryID = &cid
	}

	meta, items, err := h.Svc.ListProducts(ctx, q)
	if err != nil {
		return fail(l, "get_products_failed", "cannot list products", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": transport.NewProductResponses(items),
		"meta": meta,
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	p, err := h.Svc.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		return fail(l, "get_product_failed", "cannot get product", err)
	}
	return c.JSON(http.StatusOK, transport.NewProductResponse(*p))
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_create_failed", "invalid body", err)
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "product_create_failed", "cannot add product to db", err)
	}

	l.Info("product_create_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, transport.NewProductResponse(*p))
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "product_update_failed", "invalid id", err)
	}
	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_update_failed", "invalid body", err)
	}

	p, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		return fail(l, "product_update_failed", "cannot update product", err)
	}

	l.Info("product_update_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, transport.NewProductResponse(*p))
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "product_delete_failed", "invalid id", err)
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "product_delete_failed", "cannot delete product", err)
	}

	l.Info("product_delete_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "get_categories_failed", "cannot list categories", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "category_create_failed", "invalid body", err)
	}
	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return fail(l, "category_create_failed", "cannot create category", err)
	}

	l.Info("category_create_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "category_update_failed", "invalid id", err)
	}
	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "category_update_failed", "invalid body", err)
	}
	cat, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return fail(l, "category_update_failed", "cannot update category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "category_delete_failed", "invalid id", err)
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "category_delete_failed", "cannot delete category", err)
	}

	l.Info("category_delete_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}
