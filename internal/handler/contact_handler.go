package handler

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"contact-service/internal/model"
	"contact-service/internal/validation"
	"contact-service/pkg/database"
	"contact-service/pkg/logger"
	"contact-service/prometheus"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// contactValidator holds the validation rules shared with the client tier
var contactValidator = validation.New()

// storeError maps a database failure to an HTTP status and a client-safe
// message. The underlying error is logged by the caller, never exposed.
func storeError(err error, fallback string) (int, string) {
	var connErr *pgconn.ConnectError
	var opErr *net.OpError
	if errors.As(err, &connErr) || errors.As(err, &opErr) {
		return http.StatusServiceUnavailable, "Database unreachable"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" { // undefined_table
		return http.StatusServiceUnavailable, "Table 'contacts' missing - run database migrations"
	}

	return http.StatusInternalServerError, fallback
}

// parsePositiveID parses a path parameter as an integer >= 1. Any well-formed
// positive number is accepted; ids with no matching row surface as not-found
// from the store, not as a malformed request.
func parsePositiveID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("not a positive integer")
	}
	return uint(id), nil
}

// ListContacts returns every contact belonging to the tenant, ordered by name
func ListContacts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordContactOperation("list")

	tenantID, err := parsePositiveID(c.Param("tenantId"))
	if err != nil {
		log.Warn("Invalid tenant ID", zap.String("tenant_id", c.Param("tenantId")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Invalid tenant ID",
		})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	contacts := []model.Contact{}
	result := database.GetDB().
		Where("tenant_id = ?", tenantID).
		Order("name").
		Find(&contacts)
	if result.Error != nil {
		log.Error("Failed to fetch contacts",
			zap.Uint("tenant_id", tenantID),
			zap.Error(result.Error))
		status, msg := storeError(result.Error, "Failed to fetch contacts")
		return c.JSON(status, echo.Map{"message": msg})
	}

	log.Info("Contacts retrieved",
		zap.Uint("tenant_id", tenantID),
		zap.Int("count", len(contacts)))
	return c.JSON(http.StatusOK, contacts)
}

// CreateContact inserts a new contact for the tenant in the path. The tenant
// identifier is taken from the path as-is; tenants are not stored entities.
func CreateContact(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordContactOperation("create")

	tenantID, err := parsePositiveID(c.Param("tenantId"))
	if err != nil {
		log.Warn("Invalid tenant ID", zap.String("tenant_id", c.Param("tenantId")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Invalid tenant ID",
		})
	}

	var req validation.ContactInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Invalid request data",
		})
	}

	// Validation short-circuits before any store access
	if err := contactValidator.ValidateContact(&req); err != nil {
		log.Warn("Contact validation failed",
			zap.Uint("tenant_id", tenantID),
			zap.String("reason", err.Error()))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	contact := model.Contact{
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	result := database.GetDB().Create(&contact)
	if result.Error != nil {
		log.Error("Failed to create contact",
			zap.Uint("tenant_id", tenantID),
			zap.Error(result.Error))
		status, msg := storeError(result.Error, "Failed to create contact")
		return c.JSON(status, echo.Map{"message": msg})
	}

	// Update contact count metric. The handle is captured here so the
	// goroutine never races a later swap of the package-level connection.
	go updateContactCount(database.GetDB(), tenantID)

	log.Info("Contact created",
		zap.Uint("id", contact.ID),
		zap.Uint("tenant_id", contact.TenantID))
	return c.JSON(http.StatusCreated, contact)
}

// UpdateContact replaces the name and email of an existing contact. Lookup is
// by contact id alone; the tenant id is immutable and never touched. The
// update is a single statement, so a contact removed by a concurrent delete
// reports not-found instead of being written back.
func UpdateContact(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordContactOperation("update")

	id, err := parsePositiveID(c.Param("id"))
	if err != nil {
		log.Warn("Invalid contact ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Invalid contact ID",
		})
	}

	var req validation.ContactInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Invalid request data",
		})
	}

	if err := contactValidator.ValidateContact(&req); err != nil {
		log.Warn("Contact validation failed",
			zap.Uint("contact_id", id),
			zap.String("reason", err.Error()))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	// Tenant id is never part of the SET list - contacts cannot move between
	// tenants. RETURNING hands back the full row for the response.
	var contact model.Contact
	result := database.GetDB().Model(&contact).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": req.Name, "email": req.Email})
	if result.Error != nil {
		log.Error("Failed to update contact",
			zap.Uint("contact_id", id),
			zap.Error(result.Error))
		status, msg := storeError(result.Error, "Failed to update contact")
		return c.JSON(status, echo.Map{"message": msg})
	}
	if result.RowsAffected == 0 {
		log.Warn("Contact not found for update", zap.Uint("contact_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"message": "Contact not found",
		})
	}

	log.Info("Contact updated",
		zap.Uint("contact_id", contact.ID),
		zap.Uint("tenant_id", contact.TenantID))
	return c.JSON(http.StatusOK, contact)
}

// DeleteContact removes a contact by id. The delete is a single statement and
// a hard delete; repeated deletes of the same id report not-found.
func DeleteContact(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordContactOperation("delete")

	id, err := parsePositiveID(c.Param("id"))
	if err != nil {
		log.Warn("Invalid contact ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Invalid contact ID",
		})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := database.GetDB().Delete(&model.Contact{}, id)
	if result.Error != nil {
		log.Error("Failed to delete contact",
			zap.Uint("contact_id", id),
			zap.Error(result.Error))
		status, msg := storeError(result.Error, "Failed to delete contact")
		return c.JSON(status, echo.Map{"message": msg})
	}
	if result.RowsAffected == 0 {
		log.Warn("Contact not found for delete", zap.Uint("contact_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"message": "Contact not found",
		})
	}

	// Update tenant gauges in the background
	go updateActiveTenantCount(database.GetDB())

	log.Info("Contact deleted", zap.Uint("contact_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Deleted successfully",
	})
}

// updateContactCount refreshes the per-tenant contact gauge. It runs in the
// background after a write, on the handle that served the write; the handle
// may already be gone on shutdown.
func updateContactCount(db *gorm.DB, tenantID uint) {
	if db == nil {
		return
	}
	var count int64
	if err := db.Model(&model.Contact{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return
	}
	prometheus.UpdateContactsPerTenant(tenantID, int(count))

	updateActiveTenantCount(db)
}

// updateActiveTenantCount refreshes the active tenant gauge
func updateActiveTenantCount(db *gorm.DB) {
	if db == nil {
		return
	}
	var activeTenants int64
	if err := db.Model(&model.Contact{}).
		Distinct("tenant_id").
		Count(&activeTenants).Error; err != nil {
		return
	}
	prometheus.UpdateActiveTenants(int(activeTenants))
}
