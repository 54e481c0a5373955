package services

import (
	"parkinglot/database"
	"parkinglot/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLotCreatesExactlyMaxSpots(t *testing.T) {
	setupTestDB(t)
	lot := createTestLot(t, "站前停車場", 40, 5)

	var spots []models.ParkingSpot
	require.NoError(t, database.DB.Where("lot_id = ?", lot.ParkingLotID).Order("spot_id").Find(&spots).Error)
	require.Len(t, spots, 5)
	for _, spot := range spots {
		assert.Equal(t, models.SpotStatusAvailable, spot.Status)
		assert.Equal(t, lot.ParkingLotID, spot.LotID)
		assert.Nil(t, spot.CurrentBookingID)
	}
}

func TestCreateLotRejectsNonPositiveCapacity(t *testing.T) {
	setupTestDB(t)

	for _, maxSpots := range []int{0, -3} {
		lot := &models.ParkingLot{
			PrimeLocationName:    "壞掉的停車場",
			Price:                10,
			MaximumNumberOfSpots: maxSpots,
		}
		err := CreateLot(lot)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	}

	var count int64
	require.NoError(t, database.DB.Model(&models.ParkingLot{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateLotGrowAppendsSpots(t *testing.T) {
	setupTestDB(t)
	lot := createTestLot(t, "站前停車場", 40, 2)

	var before []models.ParkingSpot
	require.NoError(t, database.DB.Where("lot_id = ?", lot.ParkingLotID).Order("spot_id").Find(&before).Error)

	newMax := 5
	_, err := UpdateLot(lot.ParkingLotID, &models.UpdateParkingLotRequest{MaximumNumberOfSpots: &newMax})
	require.NoError(t, err)

	var after []models.ParkingSpot
	require.NoError(t, database.DB.Where("lot_id = ?", lot.ParkingLotID).Order("spot_id").Find(&after).Error)
	require.Len(t, after, 5)

	// 既有車位的編號與狀態不動，新車位補在後面
	for i, spot := range before {
		assert.Equal(t, spot.SpotID, after[i].SpotID)
		assert.Equal(t, spot.Status, after[i].Status)
	}
	for _, spot := range after[len(before):] {
		assert.Equal(t, models.SpotStatusAvailable, spot.Status)
	}

	var updated models.ParkingLot
	require.NoError(t, database.DB.First(&updated, lot.ParkingLotID).Error)
	assert.Equal(t, 5, updated.MaximumNumberOfSpots)
}

func TestUpdateLotShrinkRejected(t *testing.T) {
	setupTestDB(t)
	lot := createTestLot(t, "站前停車場", 40, 3)

	newMax := 2
	_, err := UpdateLot(lot.ParkingLotID, &models.UpdateParkingLotRequest{MaximumNumberOfSpots: &newMax})
	assert.ErrorIs(t, err, ErrCannotShrink)

	// 拒絕之後什麼都不變
	var count int64
	require.NoError(t, database.DB.Model(&models.ParkingSpot{}).
		Where("lot_id = ?", lot.ParkingLotID).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	var unchanged models.ParkingLot
	require.NoError(t, database.DB.First(&unchanged, lot.ParkingLotID).Error)
	assert.Equal(t, 3, unchanged.MaximumNumberOfSpots)
}

func TestUpdateLotFields(t *testing.T) {
	setupTestDB(t)
	lot := createTestLot(t, "站前停車場", 40, 2)

	name := "改名停車場"
	price := 55.5
	_, err := UpdateLot(lot.ParkingLotID, &models.UpdateParkingLotRequest{
		PrimeLocationName: &name,
		Price:             &price,
	})
	require.NoError(t, err)

	var updated models.ParkingLot
	require.NoError(t, database.DB.First(&updated, lot.ParkingLotID).Error)
	assert.Equal(t, name, updated.PrimeLocationName)
	assert.Equal(t, price, updated.Price)
	assert.Equal(t, 2, updated.MaximumNumberOfSpots)
}

func TestUpdateLotNotFound(t *testing.T) {
	setupTestDB(t)

	name := "不存在"
	_, err := UpdateLot(999, &models.UpdateParkingLotRequest{PrimeLocationName: &name})
	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestDeleteLotBlockedByActiveBooking(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "booker@example.com")
	lot := createTestLot(t, "站前停車場", 40, 1)

	_, err := OpenBooking(user.UserID, lot.ParkingLotID)
	require.NoError(t, err)

	err = DeleteLot(lot.ParkingLotID)
	assert.ErrorIs(t, err, ErrLotHasActiveBookings)

	// 停車場還在
	var count int64
	require.NoError(t, database.DB.Model(&models.ParkingLot{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteLotCascadesSpotsAndBookings(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "booker@example.com")
	lot := createTestLot(t, "站前停車場", 40, 2)

	// 留下一筆已結束的歷史紀錄
	_, err := OpenBooking(user.UserID, lot.ParkingLotID)
	require.NoError(t, err)
	_, err = CloseBooking(user.UserID)
	require.NoError(t, err)

	require.NoError(t, DeleteLot(lot.ParkingLotID))

	var lots, spots, bookings int64
	require.NoError(t, database.DB.Model(&models.ParkingLot{}).Count(&lots).Error)
	require.NoError(t, database.DB.Model(&models.ParkingSpot{}).Count(&spots).Error)
	require.NoError(t, database.DB.Model(&models.Booking{}).Count(&bookings).Error)
	assert.EqualValues(t, 0, lots)
	assert.EqualValues(t, 0, spots)
	assert.EqualValues(t, 0, bookings)
}

func TestDeleteLotNotFound(t *testing.T) {
	setupTestDB(t)
	assert.ErrorIs(t, DeleteLot(999), ErrLotNotFound)
}

func TestGetAllLotsRemainingSpots(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "booker@example.com")
	lotA := createTestLot(t, "A 停車場", 40, 3)
	createTestLot(t, "B 停車場", 20, 2)

	_, err := OpenBooking(user.UserID, lotA.ParkingLotID)
	require.NoError(t, err)

	lots, err := GetAllLots()
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.Equal(t, 2, lots[0].RemainingSpots)
	assert.Equal(t, 2, lots[1].RemainingSpots)
}

func TestGetLotByIDWithSpots(t *testing.T) {
	setupTestDB(t)
	lot := createTestLot(t, "站前停車場", 40, 4)

	got, err := GetLotByID(lot.ParkingLotID)
	require.NoError(t, err)
	assert.Len(t, got.ParkingSpots, 4)
	assert.Equal(t, 4, got.RemainingSpots)

	_, err = GetLotByID(999)
	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestLotOccupancySumsToMaximum(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "booker@example.com")
	lot := createTestLot(t, "站前停車場", 40, 3)

	_, err := OpenBooking(user.UserID, lot.ParkingLotID)
	require.NoError(t, err)

	stats, err := GetLotOccupancy()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.EqualValues(t, 2, stats[0].Available)
	assert.EqualValues(t, 1, stats[0].Occupied)
	// 結算之後空位+佔用恆等於車位上限
	assert.EqualValues(t, lot.MaximumNumberOfSpots, stats[0].Available+stats[0].Occupied)

	// 離場後統計歸位
	_, err = CloseBooking(user.UserID)
	require.NoError(t, err)

	stats, err = GetLotOccupancy()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats[0].Available)
	assert.EqualValues(t, 0, stats[0].Occupied)
}
