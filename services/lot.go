package services

import (
	"errors"
	"fmt"
	"log"
	"parkinglot/database"
	"parkinglot/models"

	"gorm.io/gorm"
)

var (
	// ErrInvalidCapacity 車位數必須是正整數
	ErrInvalidCapacity = errors.New("maximum_number_of_spots must be a positive integer")
	// ErrCannotShrink 不支援縮減既有車位
	ErrCannotShrink = errors.New("cannot shrink lot below current spot count")
	// ErrLotHasActiveBookings 停車場內還有進行中的訂位
	ErrLotHasActiveBookings = errors.New("cannot delete lot with active bookings")
)

// LotOccupancy 每個停車場的空位/佔用統計，給報表用
type LotOccupancy struct {
	ParkingLotID      int    `json:"parking_lot_id"`
	PrimeLocationName string `json:"prime_location_name"`
	Available         int64  `json:"available"`
	Occupied          int64  `json:"occupied"`
}

// CreateLot 建立停車場並一次生成 maximum_number_of_spots 個空車位
func CreateLot(lot *models.ParkingLot) error {
	if lot.MaximumNumberOfSpots <= 0 {
		return ErrInvalidCapacity
	}

	// 開始事務
	tx := database.DB.Begin()

	if err := tx.Create(lot).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to create parking lot: %v", err)
		return fmt.Errorf("failed to create parking lot: %w", err)
	}

	spots := make([]models.ParkingSpot, lot.MaximumNumberOfSpots)
	for i := range spots {
		spots[i] = models.ParkingSpot{
			LotID:  lot.ParkingLotID,
			Status: models.SpotStatusAvailable,
		}
	}
	if err := tx.Create(&spots).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to create spots for lot %d: %v", lot.ParkingLotID, err)
		return fmt.Errorf("failed to create spots for lot %d: %w", lot.ParkingLotID, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit lot creation: %w", err)
	}

	log.Printf("Successfully created parking lot %d with %d spots", lot.ParkingLotID, lot.MaximumNumberOfSpots)
	return nil
}

// UpdateLot 更新停車場欄位並調整車位數。
// 擴增時在既有車位之後補上新的空位，既有車位的編號與狀態不動；
// 縮減到低於現有車位數一律拒絕。
func UpdateLot(id int, req *models.UpdateParkingLotRequest) (*models.ParkingLot, error) {
	var lot models.ParkingLot
	if err := database.DB.First(&lot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLotNotFound
		}
		return nil, fmt.Errorf("failed to find parking lot %d: %w", id, err)
	}

	updates := make(map[string]interface{})
	if req.PrimeLocationName != nil {
		updates["prime_location_name"] = *req.PrimeLocationName
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Pincode != nil {
		updates["pincode"] = *req.Pincode
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	tx := database.DB.Begin()

	if req.MaximumNumberOfSpots != nil {
		newMax := *req.MaximumNumberOfSpots
		if newMax <= 0 {
			tx.Rollback()
			return nil, ErrInvalidCapacity
		}

		var currentCount int64
		if err := tx.Model(&models.ParkingSpot{}).
			Where("lot_id = ?", id).
			Count(&currentCount).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to count spots for lot %d: %w", id, err)
		}

		if newMax < int(currentCount) {
			tx.Rollback()
			log.Printf("Rejected shrink of lot %d from %d to %d spots", id, currentCount, newMax)
			return nil, ErrCannotShrink
		}

		if newMax > int(currentCount) {
			extra := make([]models.ParkingSpot, newMax-int(currentCount))
			for i := range extra {
				extra[i] = models.ParkingSpot{
					LotID:  id,
					Status: models.SpotStatusAvailable,
				}
			}
			if err := tx.Create(&extra).Error; err != nil {
				tx.Rollback()
				log.Printf("Failed to add spots to lot %d: %v", id, err)
				return nil, fmt.Errorf("failed to add spots to lot %d: %w", id, err)
			}
		}
		updates["maximum_number_of_spots"] = newMax
	}

	if len(updates) > 0 {
		if err := tx.Model(&lot).Updates(updates).Error; err != nil {
			tx.Rollback()
			log.Printf("Failed to update parking lot %d: %v", id, err)
			return nil, fmt.Errorf("failed to update parking lot %d: %w", id, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit lot update: %w", err)
	}

	log.Printf("Successfully updated parking lot %d", id)
	return &lot, nil
}

// DeleteLot 刪除停車場。場內任何車位還有未結束的訂位就拒絕；
// 否則連同所有車位與歷史訂位紀錄一併刪除
func DeleteLot(id int) error {
	var lot models.ParkingLot
	if err := database.DB.First(&lot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLotNotFound
		}
		return fmt.Errorf("failed to find parking lot %d: %w", id, err)
	}

	var activeCount int64
	if err := database.DB.Model(&models.Booking{}).
		Where("lot_id = ? AND leaving_timestamp IS NULL", id).
		Count(&activeCount).Error; err != nil {
		return fmt.Errorf("failed to count active bookings for lot %d: %w", id, err)
	}
	if activeCount > 0 {
		log.Printf("Rejected deletion of lot %d: %d active bookings", id, activeCount)
		return ErrLotHasActiveBookings
	}

	tx := database.DB.Begin()

	// 歷史訂位紀錄跟著一併刪除
	if err := tx.Where("lot_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to delete bookings for lot %d: %v", id, err)
		return fmt.Errorf("failed to delete bookings for lot %d: %w", id, err)
	}

	if err := tx.Where("lot_id = ?", id).Delete(&models.ParkingSpot{}).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to delete spots for lot %d: %v", id, err)
		return fmt.Errorf("failed to delete spots for lot %d: %w", id, err)
	}

	if err := tx.Delete(&lot).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to delete parking lot %d: %v", id, err)
		return fmt.Errorf("failed to delete parking lot %d: %w", id, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit lot deletion: %w", err)
	}

	log.Printf("Successfully deleted parking lot %d", id)
	return nil
}

// GetAllLots 查詢所有停車場並附上剩餘空位數
func GetAllLots() ([]models.ParkingLot, error) {
	var lots []models.ParkingLot
	if err := database.DB.Order("parking_lot_id").Find(&lots).Error; err != nil {
		log.Printf("Failed to query all parking lots: %v", err)
		return nil, fmt.Errorf("failed to query all parking lots: %w", err)
	}

	for i := range lots {
		var available int64
		if err := database.DB.Model(&models.ParkingSpot{}).
			Where("lot_id = ? AND status = ?", lots[i].ParkingLotID, models.SpotStatusAvailable).
			Count(&available).Error; err != nil {
			return nil, fmt.Errorf("failed to count available spots for lot %d: %w", lots[i].ParkingLotID, err)
		}
		lots[i].RemainingSpots = int(available)
	}

	return lots, nil
}

// GetLotByID 查詢停車場與它的所有車位
func GetLotByID(id int) (*models.ParkingLot, error) {
	var lot models.ParkingLot
	if err := database.DB.
		Preload("ParkingSpots", func(db *gorm.DB) *gorm.DB {
			return db.Order("spot_id")
		}).
		First(&lot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLotNotFound
		}
		return nil, fmt.Errorf("failed to get parking lot %d: %w", id, err)
	}

	for _, spot := range lot.ParkingSpots {
		if spot.Status == models.SpotStatusAvailable {
			lot.RemainingSpots++
		}
	}
	return &lot, nil
}

// GetLotOccupancy 統計每個停車場的空位與佔用數
func GetLotOccupancy() ([]LotOccupancy, error) {
	var lots []models.ParkingLot
	if err := database.DB.Order("parking_lot_id").Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("failed to query parking lots: %w", err)
	}

	stats := make([]LotOccupancy, 0, len(lots))
	for _, lot := range lots {
		var available, occupied int64
		if err := database.DB.Model(&models.ParkingSpot{}).
			Where("lot_id = ? AND status = ?", lot.ParkingLotID, models.SpotStatusAvailable).
			Count(&available).Error; err != nil {
			return nil, fmt.Errorf("failed to count available spots for lot %d: %w", lot.ParkingLotID, err)
		}
		if err := database.DB.Model(&models.ParkingSpot{}).
			Where("lot_id = ? AND status = ?", lot.ParkingLotID, models.SpotStatusOccupied).
			Count(&occupied).Error; err != nil {
			return nil, fmt.Errorf("failed to count occupied spots for lot %d: %w", lot.ParkingLotID, err)
		}
		stats = append(stats, LotOccupancy{
			ParkingLotID:      lot.ParkingLotID,
			PrimeLocationName: lot.PrimeLocationName,
			Available:         available,
			Occupied:          occupied,
		})
	}

	return stats, nil
}
