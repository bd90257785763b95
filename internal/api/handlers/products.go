package handlers

import (
	"net/http"

	"github.com/screenforge/screenforge/internal/validator"
)

type ProductsHandler struct{}

func NewProductsHandler() *ProductsHandler {
	return &ProductsHandler{}
}

// List returns the supported products and their output slots so callers
// can discover what a generation response will contain.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	type slotInfo struct {
		Name     string `json:"name"`
		Marker   string `json:"marker"`
		Kind     string `json:"kind"`
		Required bool   `json:"required"`
	}
	type productInfo struct {
		Product string     `json:"product"`
		Slots   []slotInfo `json:"slots"`
	}

	var out []productInfo
	for _, p := range validator.Products() {
		c, err := validator.ContractFor(p)
		if err != nil {
			continue
		}
		info := productInfo{Product: p}
		for _, s := range c.Slots {
			info.Slots = append(info.Slots, slotInfo{
				Name:     s.Name,
				Marker:   s.Marker,
				Kind:     s.Kind.String(),
				Required: s.Required,
			})
		}
		out = append(out, info)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": out})
}
