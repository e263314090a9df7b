package controllers

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/wardrobe/app/services"
	"github.com/shashiranjanraj/wardrobe/pkg/ctx"
)

type InventoryController struct {
	inventory *services.InventoryService
}

func NewInventoryController(inventory *services.InventoryService) *InventoryController {
	return &InventoryController{inventory: inventory}
}

type createItemForm struct {
	SerialNumber string `form:"serial_number" validate:"required,max=100"`
	Size         string `form:"size" validate:"required,max=20"`
	Color        string `form:"color" validate:"required,max=50"`
	Quantity     string `form:"quantity" validate:"required,integer,gte=0"`
	Price        string `form:"price" validate:"required,numeric,gte=0"`
	Composition  string `form:"composition"`
}

type updateItemForm struct {
	SerialNumber *string `form:"serial_number" validate:"nullable,max=100"`
	Size         *string `form:"size" validate:"nullable,max=20"`
	Color        *string `form:"color" validate:"nullable,max=50"`
	Quantity     *string `form:"quantity" validate:"nullable,integer,gte=0"`
	Price        *string `form:"price" validate:"nullable,numeric,gte=0"`
	Composition  *string `form:"composition"`
}

func (ic *InventoryController) Index(c *ctx.Context) {
	page, err := ic.inventory.List(c.Context(), productQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Paginated(page.Items, page.Pagination)
}

func (ic *InventoryController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Item not found")
		return
	}

	item, err := ic.inventory.Get(c.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"item": item})
}

func (ic *InventoryController) Store(c *ctx.Context) {
	var form createItemForm
	if !c.BindForm(&form) {
		return
	}

	// Both values passed validation above.
	qty, _ := strconv.ParseInt(form.Quantity, 10, 64)
	price, _ := decimal.NewFromString(form.Price)

	image, closeImage, err := openUpload(c.FormFile("image"))
	if err != nil {
		c.Error(http.StatusBadRequest, "Unreadable image upload")
		return
	}
	defer closeImage()

	p, _ := c.Principal()
	item, err := ic.inventory.Create(c.Context(), p, services.ItemInput{
		SerialNumber: form.SerialNumber,
		Size:         form.Size,
		Color:        form.Color,
		Quantity:     qty,
		Price:        price,
		Composition:  form.Composition,
		Image:        image,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, map[string]any{
		"message": "Item created successfully",
		"item":    item,
	})
}

func (ic *InventoryController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Item not found")
		return
	}

	var form updateItemForm
	if !c.BindForm(&form) {
		return
	}

	patch := services.ItemPatch{
		SerialNumber: form.SerialNumber,
		Size:         form.Size,
		Color:        form.Color,
		Composition:  form.Composition,
	}
	if form.Quantity != nil {
		qty, err := strconv.ParseInt(*form.Quantity, 10, 64)
		if err != nil {
			c.ValidationError(map[string]string{"quantity": "The quantity field must be an integer."})
			return
		}
		patch.Quantity = &qty
	}
	if form.Price != nil {
		price, err := decimal.NewFromString(*form.Price)
		if err != nil {
			c.ValidationError(map[string]string{"price": "The price field must be a number."})
			return
		}
		patch.Price = &price
	}

	image, closeImage, err := openUpload(c.FormFile("image"))
	if err != nil {
		c.Error(http.StatusBadRequest, "Unreadable image upload")
		return
	}
	defer closeImage()
	patch.Image = image

	item, err := ic.inventory.Update(c.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"message": "Item updated successfully",
		"item":    item,
	})
}

func (ic *InventoryController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Item not found")
		return
	}

	if err := ic.inventory.Delete(c.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"message": "Item deleted successfully"})
}
