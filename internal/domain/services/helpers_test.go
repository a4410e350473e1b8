package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
)

// newTestDB opens a migrated in-memory database on a single connection
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// testResources builds the services the import/export tests need
func testResources(db *gorm.DB) map[string]InterfaceResourceService {
	return map[string]InterfaceResourceService{
		"residents":  NewResourceService[models.Resident](db, "residents", "resident", nil),
		"vendors":    NewResourceService[models.Vendor](db, "vendors", "vendor", nil),
		"associates": NewResourceService[models.Associate](db, "associates", "associate", nil),
		"payments":   NewResourceService[models.Payment](db, "payments", "payment", nil, "Resident"),
		"invoices":   NewResourceService[models.Invoice](db, "invoices", "invoice", nil, "Vendor"),
		"bills":      NewResourceService[models.Bill](db, "bills", "bill", nil),
		"violations": NewResourceService[models.Violation](db, "violations", "violation", nil, "Resident"),
	}
}

func locator(resources map[string]InterfaceResourceService) ResourceLocator {
	return func(name string) (InterfaceResourceService, bool) {
		svc, ok := resources[name]
		return svc, ok
	}
}
