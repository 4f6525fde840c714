package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/dto"
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// ProductResponse is a product schema with its fully expanded field list.
type ProductResponse struct {
	*domain.ProductSchema

	AllFields []domain.FieldSpec `json:"allFields"`
}

func newProductResponse(p *domain.ProductSchema) ProductResponse {
	return ProductResponse{ProductSchema: p, AllFields: p.AllFields()}
}

// ListProducts handles GET /api/v1/products.
func ListProducts(c *gin.Context) {
	products := domain.Products()

	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, newProductResponse(&products[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetProduct handles GET /api/v1/products/:slug.
func GetProduct(c *gin.Context) {
	schema, err := domain.ProductBySlug(c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProductResponse(schema))
}

// RegisterProductRoutes registers the catalog routes.
func RegisterProductRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", ListProducts)
	rg.GET("/products/:slug", GetProduct)
}
