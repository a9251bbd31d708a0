package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hourbook/backend/internal/httputil"
	"github.com/hourbook/backend/internal/registry"
)

// RegistryClient is the client used for company data lookups. Tests
// replace it with a client against a local server.
var RegistryClient = registry.New()

// RegisterCompanyDataRoutes registers the routes for company data
// lookups with the RouterGroup that is passed.
func RegisterCompanyDataRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:taxId", OptionsCompanyData)
	r.GET("/:taxId", GetCompanyData)
}

type URITaxID struct {
	TaxID string `uri:"taxId" binding:"required"` // Tax ID to look up
}

// CompanyData is the data passed through from the company registry.
type CompanyData struct {
	Name    string `json:"name" example:"ACME Corporation sp. z o.o."`           // Registered name of the company
	Address string `json:"address" example:"ul. Przykladowa 1, 00-001 Warszawa"` // Registered address of the company
}

type CompanyDataResponse struct {
	Data  *CompanyData `json:"data"`                                                                  // The company data
	Error *string      `json:"error" example:"no company with this tax ID was found in the registry"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			CompanyData
// @Success		204
// @Router			/v1/company-data/{taxId} [options]
func OptionsCompanyData(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Look up company data
// @Description	Looks up name and address for a tax ID in the national company registry. The data is passed through and never stored.
// @Tags			CompanyData
// @Produce		json
// @Success		200	{object}	CompanyDataResponse
// @Failure		400	{object}	CompanyDataResponse
// @Failure		404	{object}	CompanyDataResponse
// @Failure		502	{object}	CompanyDataResponse
// @Router			/v1/company-data/{taxId} [get]
func GetCompanyData(c *gin.Context) {
	var uri URITaxID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyDataResponse{
			Error: &s,
		})
		return
	}

	company, err := RegistryClient.Lookup(c.Request.Context(), uri.TaxID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyDataResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CompanyDataResponse{
		Data: &CompanyData{
			Name:    company.Name,
			Address: company.Address,
		},
	})
}
