package validation

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindAndValidate binds the JSON body into `out` and runs validation.
// If either fails, it writes a 400 response and returns an error for the
// handler to short-circuit. The response body never echoes payload details;
// webhooks come from a third party and the caller cannot fix them anyway.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		log.Printf("[validation] bad webhook body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return err
	}

	if err := v.Struct(out); err != nil {
		log.Printf("[validation] webhook rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return err
	}
	return nil
}
