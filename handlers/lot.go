package handlers

import (
	"errors"
	"log"
	"net/http"
	"parkinglot/models"
	"parkinglot/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

// LotInput 建立停車場輸入
type LotInput struct {
	PrimeLocationName    string  `json:"prime_location_name" binding:"required,max=100"`
	Address              string  `json:"address" binding:"omitempty,max=200"`
	Pincode              string  `json:"pincode" binding:"omitempty,max=10"`
	Price                float64 `json:"price" binding:"gte=0"`
	MaximumNumberOfSpots int     `json:"maximum_number_of_spots"` // 由 service 統一驗證，0 與負數都回 ErrInvalidCapacity
}

// CreateLot 建立停車場資料檢查
func CreateLot(c *gin.Context) {
	var input LotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "prime_location_name is required", "ERR_INVALID_INPUT")
		return
	}

	lot := &models.ParkingLot{
		PrimeLocationName:    input.PrimeLocationName,
		Address:              input.Address,
		Pincode:              input.Pincode,
		Price:                input.Price,
		MaximumNumberOfSpots: input.MaximumNumberOfSpots,
	}

	if err := services.CreateLot(lot); err != nil {
		if errors.Is(err, services.ErrInvalidCapacity) {
			ErrorResponse(c, http.StatusBadRequest, "車位數必須是正整數", err.Error(), "ERR_INVALID_CAPACITY")
			return
		}
		log.Printf("Failed to create parking lot: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "建立停車場失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	lot.RemainingSpots = lot.MaximumNumberOfSpots
	SuccessResponse(c, http.StatusCreated, "停車場建立成功", lot.ToResponse())
}

// GetAllLots 查詢所有停車場與剩餘空位
func GetAllLots(c *gin.Context) {
	lots, err := services.GetAllLots()
	if err != nil {
		log.Printf("Failed to get all parking lots: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢停車場失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	lotResponses := make([]models.ParkingLotResponse, len(lots))
	for i, lot := range lots {
		lotResponses[i] = lot.ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", lotResponses)
}

// GetLot 查詢停車場與它的所有車位（管理員）
func GetLot(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Printf("Invalid lot ID: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的停車場ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	lot, err := services.GetLotByID(id)
	if err != nil {
		if errors.Is(err, services.ErrLotNotFound) {
			ErrorResponse(c, http.StatusNotFound, "停車場不存在", err.Error(), "ERR_NOT_FOUND")
			return
		}
		log.Printf("Failed to get parking lot %d: %v", id, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢停車場失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	spotResponses := make([]models.ParkingSpotResponse, len(lot.ParkingSpots))
	for i, spot := range lot.ParkingSpots {
		spotResponses[i] = spot.ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", gin.H{
		"lot":   lot.ToResponse(),
		"spots": spotResponses,
	})
}

// UpdateLot 更新停車場欄位並調整車位數（管理員）
func UpdateLot(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Printf("Invalid lot ID: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的停車場ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	var req models.UpdateParkingLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), "ERR_INVALID_INPUT")
		return
	}

	if _, err := services.UpdateLot(id, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrLotNotFound):
			ErrorResponse(c, http.StatusNotFound, "停車場不存在", err.Error(), "ERR_NOT_FOUND")
		case errors.Is(err, services.ErrInvalidCapacity):
			ErrorResponse(c, http.StatusBadRequest, "車位數必須是正整數", err.Error(), "ERR_INVALID_CAPACITY")
		case errors.Is(err, services.ErrCannotShrink):
			ErrorResponse(c, http.StatusBadRequest, "不支援縮減既有車位", err.Error(), "ERR_CANNOT_SHRINK")
		default:
			log.Printf("Failed to update parking lot %d: %v", id, err)
			ErrorResponse(c, http.StatusInternalServerError, "更新停車場失敗", err.Error(), "ERR_INTERNAL")
		}
		return
	}

	// 重新查詢以回傳更新後的狀態
	updated, err := services.GetLotByID(id)
	if err != nil {
		log.Printf("Failed to fetch updated parking lot %d: %v", id, err)
		ErrorResponse(c, http.StatusInternalServerError, "獲取更新後的停車場失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	SuccessResponse(c, http.StatusOK, "更新成功", updated.ToResponse())
}

// DeleteLot 刪除停車場（管理員）
func DeleteLot(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Printf("Invalid lot ID: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的停車場ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	if err := services.DeleteLot(id); err != nil {
		switch {
		case errors.Is(err, services.ErrLotNotFound):
			ErrorResponse(c, http.StatusNotFound, "停車場不存在", err.Error(), "ERR_NOT_FOUND")
		case errors.Is(err, services.ErrLotHasActiveBookings):
			ErrorResponse(c, http.StatusConflict, "場內還有進行中的訂位，無法刪除", err.Error(), "ERR_LOT_HAS_ACTIVE_BOOKINGS")
		default:
			log.Printf("Failed to delete parking lot %d: %v", id, err)
			ErrorResponse(c, http.StatusInternalServerError, "刪除停車場失敗", err.Error(), "ERR_INTERNAL")
		}
		return
	}

	SuccessResponse(c, http.StatusOK, "刪除成功", nil)
}

// GetLotOccupancy 每個停車場的空位/佔用統計（管理員報表）
func GetLotOccupancy(c *gin.Context) {
	stats, err := services.GetLotOccupancy()
	if err != nil {
		log.Printf("Failed to get lot occupancy: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢統計失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", stats)
}
