package routes

import (
	"fmt"
	"os"
	"testing"

	"stayhub-server/models"
	"stayhub-server/storage"
	"stayhub-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildTestApp creates a minimal iris app with the availability and booking
// routes wired the same way as main.go, plus the JWT verifier.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	property := app.Party("/api/property")
	{
		property.Get("/{id:uint}/availability", GetPropertyAvailability)
		property.Get("/{id:uint}/availability/conflicts", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, CheckPropertyConflicts)
		property.Get("/{id:uint}/room-types", GetPropertyRoomTypes)
		property.Post("/{id:uint}/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CreateBooking)
		property.Get("/{id:uint}/blocks", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, ListBlocks)
		property.Post("/{id:uint}/blocks", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, CreateBlock)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/verify-code", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, VerifyBookingAccessCode)
		booking.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CancelBooking)
	}

	app.Build()
	return app
}

// signTestToken returns a signed JWT with the given user id and role.
func signTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:routes_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	storage.PerformMigrations(db)

	storage.DB = db
	t.Cleanup(func() {
		storage.DB = nil
		sqlDB.Close()
	})
	return db
}

func seedProperty(t *testing.T, db *gorm.DB, ownerID uint, roomSpec string) *models.Property {
	t.Helper()

	property := models.Property{
		OwnerID:      ownerID,
		Title:        "Seaside Guesthouse",
		City:         "Nouadhibou",
		Country:      "Mauritania",
		Capacity:     6,
		NightlyPrice: 80,
		Currency:     "MRO",
		Status:       models.PropertyStatusApproved,
	}
	if roomSpec != "" {
		property.RoomSpec = datatypes.JSON(roomSpec)
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return &property
}
