package router

import (
	"chatterbox_service/internal/api/handlers"
	"chatterbox_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes register all chat service routes
// @title Chatterbox Service API
// @version 1.0
// @description API documentation for Chatterbox Service
// @host localhost:8080
// @BasePath /
func RegisterRoutes(app *fiber.App, userHandler *handlers.UserHandler, chatHandler *handlers.ChatHandler) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", userHandler.Register)
	authRoutes.Post("/login", userHandler.Login)

	authRoutes.Use(middlewares.JWTMiddleware())
	authRoutes.Post("/logout", userHandler.Logout)

	userRoutes := app.Group("/users", middlewares.JWTMiddleware())
	userRoutes.Get("/search", userHandler.Search)

	convRoutes := app.Group("/conversations", middlewares.JWTMiddleware())
	convRoutes.Get("/", chatHandler.ListConversations)
	convRoutes.Post("/:conversationId/read", chatHandler.MarkConversationRead)

	msgRoutes := app.Group("/messages", middlewares.JWTMiddleware())
	msgRoutes.Post("/send", chatHandler.SendMessage)
	msgRoutes.Get("/conversation", chatHandler.GetConversationMessages)

	mediaRoutes := app.Group("/media", middlewares.JWTMiddleware())
	mediaRoutes.Post("/upload", chatHandler.UploadMedia)
}
