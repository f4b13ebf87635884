package validator

import (
	"log"

	"dukaan_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers all custom validation functions on the
// given validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-plan-type", validatePlanType)
	mustRegister("is-plan-duration", validatePlanDuration)
	mustRegister("is-payment-status", validatePaymentStatus)
	mustRegister("is-product-unit", validateProductUnit)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty values are handled by 'required'
	}
	switch models.UserRole(value) {
	case models.UserRoleSiteAdmin, models.UserRoleShopOwner, models.UserRoleShopkeeper:
		return true
	default:
		return false
	}
}

func validatePlanType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PlanType(value) {
	case models.PlanTypeFree, models.PlanTypeBasic, models.PlanTypePro, models.PlanTypePremium:
		return true
	default:
		return false
	}
}

func validatePlanDuration(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PlanDuration(value) {
	case models.PlanDurationMonthly, models.PlanDurationYearly:
		return true
	default:
		return false
	}
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PaymentStatus(value) {
	case models.PaymentStatusCreated, models.PaymentStatusPending, models.PaymentStatusSuccess, models.PaymentStatusFailed:
		return true
	default:
		return false
	}
}

func validateProductUnit(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ProductUnit(value) {
	case models.ProductUnitPiece, models.ProductUnitKilogram:
		return true
	default:
		return false
	}
}
