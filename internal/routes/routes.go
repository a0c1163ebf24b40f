package routes

const (
	// Health
	Health = "/health"

	// Property endpoints (landlord)
	PropertiesBase = "/api/properties"
	PropertyByID   = "/api/properties/{id}"

	// Tenant endpoints
	TenantsBase     = "/api/tenants"
	TenantByID      = "/api/tenants/{id}"
	TenantMoveOut   = "/api/tenants/{id}/move-out"
	TenantsByProp   = "/api/properties/{id}/tenants"
	PaymentsByProp  = "/api/properties/{id}/payments"
	PaymentsExport  = "/api/properties/{id}/payments/export"

	// Payment endpoints
	PaymentsManual   = "/api/payments/manual"
	PaymentsPreview  = "/api/payments/preview"
	PaymentsByTenant = "/api/tenants/{id}/payments"

	// M-Pesa endpoints; the callback is public, Safaricom posts to it
	MpesaStkPush  = "/api/mpesa/stkpush"
	MpesaCallback = "/api/mpesa/callback"

	// Maintenance endpoints
	MaintenanceBase   = "/api/maintenance"
	MaintenanceByID   = "/api/maintenance/{id}"
	MaintenanceByProp = "/api/properties/{id}/maintenance"
)
