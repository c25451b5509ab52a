package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/missamma/missamma-golang/internal/models"
)

//
// --- Public Catalog Handlers ---
//

// ListProducts is the handler for GET /v1/store/products
// Only active products are listed.
func (h *Handlers) ListProducts(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, category_id, name, slug, description, price, stock, image_url, is_active
		FROM products
		WHERE is_active = 1
		ORDER BY name`)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
			&p.Price, &p.Stock, &p.ImageURL, &p.IsActive); err != nil {
			respondError(c, err)
			return
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ListCategories is the handler for GET /v1/store/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, name, slug FROM product_categories ORDER BY name")
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	categories := []models.ProductCategory{}
	for rows.Next() {
		var cat models.ProductCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug); err != nil {
			respondError(c, err)
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
