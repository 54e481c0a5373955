package main

import (
	"log"
	"os"
	"parkinglot/database"
	"parkinglot/models"
	"parkinglot/routes"
	"parkinglot/services"
	"parkinglot/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// 載入 .env 檔案
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using default environment variables: %v", err)
	}

	// 初始化 JWTSecret
	utils.InitJWTSecret()

	// 初始化資料庫
	database.InitDB()

	// 執行資料庫遷移
	database.DB.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.ParkingLot{},
		&models.ParkingSpot{},
		&models.Booking{},
	)
	log.Println("Database migration completed")

	// 確保預設管理員存在
	ensureAdminExists()

	// 設置 Gin 模式
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	log.Printf("Gin mode set to %s", ginMode)

	// 初始化 Gin 路由器
	r := gin.Default()

	// 創建一個 API 路由組
	api := r.Group("/api")
	{
		routes.Path(api)
	}

	// 啟動定時任務
	c := cron.New()

	// 每小時記錄各停車場的佔用狀況
	_, err := c.AddFunc("@hourly", func() {
		stats, err := services.GetLotOccupancy()
		if err != nil {
			log.Printf("Failed to collect lot occupancy: %v", err)
			return
		}
		for _, stat := range stats {
			log.Printf("Lot %d (%s): %d available, %d occupied",
				stat.ParkingLotID, stat.PrimeLocationName, stat.Available, stat.Occupied)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule occupancy summary cron job: %v", err)
	}

	c.Start()
	log.Println("Cron jobs started")

	// 啟動伺服器
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists 檢查並創建預設管理員
func ensureAdminExists() {
	var admin models.Admin
	if err := database.DB.First(&admin).Error; err == nil {
		log.Printf("Admin already exists: username=%s", admin.Username)
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
	}

	// 哈希密碼
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin = models.Admin{
		Username: username,
		Password: hashedPassword,
	}

	// 插入資料庫
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create default admin: %v", err)
	}

	log.Printf("Default admin created: username=%s", admin.Username)
}
