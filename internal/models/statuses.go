package models

type UserRole string
type PlanType string
type PlanDuration string
type PaymentStatus string
type ProductUnit string

const (
	UserRoleSiteAdmin  UserRole = "SITE_ADMIN"
	UserRoleShopOwner  UserRole = "SHOP_OWNER"
	UserRoleShopkeeper UserRole = "SHOPKEEPER"

	PlanTypeFree    PlanType = "FREE"
	PlanTypeBasic   PlanType = "BASIC"
	PlanTypePro     PlanType = "PRO"
	PlanTypePremium PlanType = "PREMIUM"

	PlanDurationMonthly PlanDuration = "MONTHLY"
	PlanDurationYearly  PlanDuration = "YEARLY"

	PaymentStatusCreated PaymentStatus = "CREATED"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"

	ProductUnitPiece    ProductUnit = "pcs"
	ProductUnitKilogram ProductUnit = "kg"
)
