package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"parkinglot/database"
	"parkinglot/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAlreadyBooked 同一會員同時只能持有一筆未結束的訂位
	ErrAlreadyBooked = errors.New("user already has an active booking")
	// ErrLotFull 停車場沒有空位
	ErrLotFull = errors.New("no parking spots available in this lot")
	// ErrNoActiveBooking 會員目前沒有進行中的訂位
	ErrNoActiveBooking = errors.New("no active booking found")
	// ErrLotNotFound 停車場不存在
	ErrLotNotFound = errors.New("parking lot not found")
	// ErrBookingNotFound 訂位紀錄不存在
	ErrBookingNotFound = errors.New("booking not found")
)

// CalculateBookingCost 依進出場時間與每小時費率快照計算費用。
// 經過時數取秒數除以 3600，不取整也沒有最低消費；
// 金額四捨五入（round half away from zero）到小數點後兩位。
func CalculateBookingCost(startTime, endTime time.Time, hourlyRate float64) (float64, error) {
	if endTime.Before(startTime) {
		log.Printf("leaving_timestamp %v is before parking_timestamp %v", endTime, startTime)
		return 0, fmt.Errorf("leaving_timestamp %v cannot be earlier than parking_timestamp %v", endTime, startTime)
	}

	hours := endTime.Sub(startTime).Seconds() / 3600.0
	totalCost := math.Round(hours*hourlyRate*100) / 100
	return totalCost, nil
}

// allocateSpot 在交易內用 SELECT ... FOR UPDATE 鎖住停車場裡編號最小的空位再佔用。
// 搶同一個車位的交易會在列鎖上排隊；排到時鎖定讀看到的是已提交的資料，
// 被搶走的車位不再是 available，自然換下一個空位。
// 沒有空位可挑時回傳 ErrLotFull。
func allocateSpot(tx *gorm.DB, lotID int) (*models.ParkingSpot, error) {
	var spot models.ParkingSpot
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lot_id = ? AND status = ?", lotID, models.SpotStatusAvailable).
		Order("spot_id").
		First(&spot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLotFull
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find available spot in lot %d: %w", lotID, err)
	}

	// 車位已上鎖，直接標記佔用
	if err := tx.Model(&spot).Update("status", models.SpotStatusOccupied).Error; err != nil {
		return nil, fmt.Errorf("failed to claim spot %d: %w", spot.SpotID, err)
	}
	return &spot, nil
}

// OpenBooking 會員訂位：挑一個空位、建立訂位紀錄並把車位標記為佔用
func OpenBooking(userID, lotID int) (*models.Booking, error) {
	var lot models.ParkingLot
	if err := database.DB.First(&lot, lotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLotNotFound
		}
		return nil, fmt.Errorf("failed to find parking lot %d: %w", lotID, err)
	}

	// 開始事務
	tx := database.DB.Begin()

	// 鎖住會員那一列，讓同一會員的併發訂位在這裡排隊，
	// 排到之後的檢查才看得到前一筆剛提交的訂位
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to lock user %d: %w", userID, err)
	}

	// 檢查會員是否已有進行中的訂位
	var existing models.Booking
	err := tx.Where("user_id = ? AND leaving_timestamp IS NULL", userID).First(&existing).Error
	if err == nil {
		tx.Rollback()
		log.Printf("User %d already has active booking %d", userID, existing.BookingID)
		return nil, ErrAlreadyBooked
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return nil, fmt.Errorf("failed to check active booking for user %d: %w", userID, err)
	}

	spot, err := allocateSpot(tx, lotID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	booking := &models.Booking{
		UserID:           userID,
		SpotID:           spot.SpotID,
		LotID:            lotID,
		ParkingTimestamp: time.Now(),
		ParkingCost:      lot.Price, // 費率快照，之後漲價不影響這筆訂位
	}
	if err := tx.Create(booking).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to create booking for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// 車位記住目前佔用它的訂位
	if err := tx.Model(&models.ParkingSpot{}).
		Where("spot_id = ?", spot.SpotID).
		Update("current_booking_id", booking.BookingID).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to link booking %d to spot %d: %v", booking.BookingID, spot.SpotID, err)
		return nil, fmt.Errorf("failed to link booking to spot: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	booking.ParkingLot = lot
	log.Printf("User %d booked spot %d in lot %d (booking %d)", userID, spot.SpotID, lotID, booking.BookingID)
	return booking, nil
}

// CloseBooking 會員離場：結算費用、釋放車位
func CloseBooking(userID int) (*models.Booking, error) {
	var booking models.Booking
	if err := database.DB.
		Preload("ParkingLot").
		Where("user_id = ? AND leaving_timestamp IS NULL", userID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveBooking
		}
		return nil, fmt.Errorf("failed to find active booking for user %d: %w", userID, err)
	}

	now := time.Now()
	totalCost, err := CalculateBookingCost(booking.ParkingTimestamp, now, booking.ParkingCost)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate booking cost: %w", err)
	}

	tx := database.DB.Begin()

	if err := tx.Model(&booking).Updates(map[string]interface{}{
		"leaving_timestamp": now,
		"total_cost":        totalCost,
	}).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to close booking %d: %v", booking.BookingID, err)
		return nil, fmt.Errorf("failed to close booking %d: %w", booking.BookingID, err)
	}

	// 釋放車位
	if err := tx.Model(&models.ParkingSpot{}).
		Where("spot_id = ?", booking.SpotID).
		Updates(map[string]interface{}{
			"status":             models.SpotStatusAvailable,
			"current_booking_id": nil,
		}).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to release spot %d: %v", booking.SpotID, err)
		return nil, fmt.Errorf("failed to release spot %d: %w", booking.SpotID, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit release transaction: %w", err)
	}

	booking.LeavingTimestamp = &now
	booking.TotalCost = &totalCost
	log.Printf("User %d released spot %d, parked %.2f hours, cost %.2f",
		userID, booking.SpotID, now.Sub(booking.ParkingTimestamp).Hours(), totalCost)
	return &booking, nil
}

// GetActiveBooking 查詢會員進行中的訂位，沒有時回傳 nil
func GetActiveBooking(userID int) (*models.Booking, error) {
	var booking models.Booking
	if err := database.DB.
		Preload("ParkingLot").
		Where("user_id = ? AND leaving_timestamp IS NULL", userID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active booking for user %d: %w", userID, err)
	}
	return &booking, nil
}

// GetUserBookings 查詢會員的所有訂位紀錄，依建立順序排列
func GetUserBookings(userID int) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := database.DB.
		Preload("ParkingLot").
		Where("user_id = ?", userID).
		Order("booking_id").
		Find(&bookings).Error; err != nil {
		log.Printf("Failed to query bookings for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to query bookings for user %d: %w", userID, err)
	}
	log.Printf("Successfully fetched %d bookings for user %d", len(bookings), userID)
	return bookings, nil
}

// GetBookingByID 管理員查詢單筆訂位，附帶會員與停車場
func GetBookingByID(id int) (*models.Booking, error) {
	var booking models.Booking
	if err := database.DB.
		Preload("User").
		Preload("ParkingLot").
		First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking %d: %w", id, err)
	}
	return &booking, nil
}
