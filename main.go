package main

import (
	"log"
	"os"

	"stayhub-server/routes"
	"stayhub-server/storage"
	"stayhub-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the owner dashboard
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	property := app.Party("/api/property")
	{
		property.Get("/{id:uint}", routes.GetProperty)
		property.Get("/{id:uint}/availability", routes.GetPropertyAvailability)
		property.Get("/{id:uint}/availability/conflicts", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.CheckPropertyConflicts)
		property.Get("/{id:uint}/room-types", routes.GetPropertyRoomTypes)

		property.Post("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.CreateProperty)
		property.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdatePropertyStatus)

		property.Post("/{id:uint}/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateBooking)

		property.Get("/{id:uint}/blocks", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.ListBlocks)
		property.Post("/{id:uint}/blocks", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.CreateBlock)
	}

	blocks := app.Party("/api/blocks", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware)
	{
		blocks.Patch("/{id:uint}", routes.UpdateBlock)
		blocks.Delete("/{id:uint}", routes.DeleteBlock)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/verify-code", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.VerifyBookingAccessCode)
		booking.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CancelBooking)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("Listening on port " + port)
	app.Listen(":" + port)
}
