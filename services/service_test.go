package services

import (
	"parkinglot/database"
	"parkinglot/models"
	"parkinglot/utils"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 每個測試用獨立的 in-memory SQLite，並掛到全域 database.DB
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// in-memory SQLite 每條連線是獨立資料庫，限制連線池只開一條
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.ParkingLot{},
		&models.ParkingSpot{},
		&models.Booking{},
	))

	database.DB = db
}

func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()

	user := &models.User{Name: "測試會員", Email: email, Password: "password123"}
	require.NoError(t, RegisterUser(user))
	return user
}

func createTestLot(t *testing.T, name string, price float64, maxSpots int) *models.ParkingLot {
	t.Helper()

	lot := &models.ParkingLot{
		PrimeLocationName:    name,
		Address:              "No. 1, Test Road",
		Pincode:              "100001",
		Price:                price,
		MaximumNumberOfSpots: maxSpots,
	}
	require.NoError(t, CreateLot(lot))
	return lot
}

func createTestAdmin(t *testing.T, username, password string) *models.Admin {
	t.Helper()

	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)
	admin := &models.Admin{Username: username, Password: hashed}
	require.NoError(t, database.DB.Create(admin).Error)
	return admin
}
