package controllers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/wardrobe/app/services"
	"github.com/shashiranjanraj/wardrobe/pkg/ctx"
	"github.com/shashiranjanraj/wardrobe/pkg/orm"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// createProductForm is the multipart body of POST /products. Variants is a
// JSON array of {color, size, quantity}.
type createProductForm struct {
	SerialNumber string `form:"serial_number" validate:"required,max=100"`
	Price        string `form:"price" validate:"required,numeric,gte=0"`
	Composition  string `form:"composition"`
	Variants     string `form:"variants" validate:"required"`
}

// updateProductForm leaves omitted fields nil.
type updateProductForm struct {
	SerialNumber *string `form:"serial_number" validate:"nullable,max=100"`
	Price        *string `form:"price" validate:"nullable,numeric,gte=0"`
	Composition  *string `form:"composition"`
	Variants     *string `form:"variants"`
}

type generateRequest struct {
	Colors   []string                `json:"colors"`
	Sizes    []string                `json:"sizes"`
	Variants []services.VariantInput `json:"variants"`
}

func productQuery(c *ctx.Context) services.ProductQuery {
	return services.ProductQuery{
		Search: c.Query("search"),
		Color:  c.Query("color"),
		Size:   c.Query("size"),
		Page:   c.QueryInt("page", orm.DefaultPage),
		Limit:  c.QueryInt("limit", orm.DefaultLimit),
	}
}

func (pc *ProductController) Index(c *ctx.Context) {
	page, err := pc.catalog.List(c.Context(), productQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Paginated(page.Items, page.Pagination)
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}

	p, err := pc.catalog.Get(c.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"product": p})
}

func (pc *ProductController) Store(c *ctx.Context) {
	var form createProductForm
	if !c.BindForm(&form) {
		return
	}

	variants, err := services.DecodeVariants(form.Variants)
	if err != nil {
		writeError(c, err)
		return
	}
	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		c.ValidationError(map[string]string{"price": "The price field must be a number."})
		return
	}

	image, closeImage, err := openUpload(c.FormFile("image"))
	if err != nil {
		c.Error(http.StatusBadRequest, "Unreadable image upload")
		return
	}
	defer closeImage()

	p, _ := c.Principal()
	product, err := pc.catalog.Create(c.Context(), p, services.ProductInput{
		SerialNumber: form.SerialNumber,
		Price:        price,
		Composition:  form.Composition,
		Variants:     variants,
		Image:        image,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, map[string]any{
		"message": "Product created successfully",
		"product": product,
	})
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}

	var form updateProductForm
	if !c.BindForm(&form) {
		return
	}

	patch := services.ProductPatch{
		SerialNumber: form.SerialNumber,
		Composition:  form.Composition,
	}
	if form.Price != nil {
		price, err := decimal.NewFromString(*form.Price)
		if err != nil {
			c.ValidationError(map[string]string{"price": "The price field must be a number."})
			return
		}
		patch.Price = &price
	}
	if form.Variants != nil {
		variants, err := services.DecodeVariants(*form.Variants)
		if err != nil {
			writeError(c, err)
			return
		}
		patch.Variants = variants
	}

	image, closeImage, err := openUpload(c.FormFile("image"))
	if err != nil {
		c.Error(http.StatusBadRequest, "Unreadable image upload")
		return
	}
	defer closeImage()
	patch.Image = image

	product, err := pc.catalog.Update(c.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}

	if err := pc.catalog.Delete(c.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"message": "Product deleted successfully"})
}

func (pc *ProductController) Stats(c *ctx.Context) {
	stats, err := pc.catalog.Stats(c.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Export streams the filtered catalog as an xlsx download.
func (pc *ProductController) Export(c *ctx.Context) {
	var buf bytes.Buffer
	if err := pc.catalog.Export(c.Context(), productQuery(c), &buf); err != nil {
		writeError(c, err)
		return
	}

	c.SetHeader("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.SetHeader("Content-Disposition", `attachment; filename="products.xlsx"`)
	c.SetHeader("Content-Length", strconv.Itoa(buf.Len()))
	c.W.WriteHeader(http.StatusOK)
	buf.WriteTo(c.W) //nolint:errcheck
}

// GenerateVariants previews the color x size grid for a product form.
func (pc *ProductController) GenerateVariants(c *ctx.Context) {
	var req generateRequest
	if !c.BindJSON(&req) {
		return
	}

	variants, err := services.PlanVariants(req.Variants, req.Colors, req.Sizes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"variants": variants})
}
