package main

import (
	"log"
	"net/http"

	"snapgram_server/config"
	"snapgram_server/controllers"
	"snapgram_server/db"
	"snapgram_server/repositories"
	"snapgram_server/routes"
	"snapgram_server/services"
	"snapgram_server/socket"
	"snapgram_server/utils"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	v, err := config.LoadConfig("config")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}
	clerk.SetKey(cfg.Clerk.SecretKey)

	// Initialize AWS clients
	log.Println("Initializing DynamoDB client...")
	dynamoClient := db.InitializeDynamoDBClient(cfg.AWS.Region)
	dynamoService := &db.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	s3Client := services.InitializeS3Client(cfg.AWS.Region)
	mediaService := &services.S3MediaService{
		Client:  s3Client,
		Bucket:  cfg.AWS.Bucket,
		BaseURL: cfg.AWS.MediaBaseURL,
	}

	// Initialize repositories
	userRepo := repositories.NewDynamoUserRepository(dynamoService)
	postRepo := repositories.NewDynamoPostRepository(dynamoService)
	commentRepo := repositories.NewDynamoCommentRepository(dynamoService)
	conversationRepo := repositories.NewDynamoConversationRepository(dynamoService)
	messageRepo := repositories.NewDynamoMessageRepository(dynamoService)

	// Initialize the socket server for real-time message delivery
	socketServer := socket.NewServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Initialize services
	conversationService := services.NewConversationService(conversationRepo, messageRepo, userRepo)
	messageService := services.NewMessageService(conversationService, messageRepo, userRepo, socketServer)
	userService := &services.UserService{
		Users:         userRepo,
		Posts:         postRepo,
		Comments:      commentRepo,
		Conversations: conversationRepo,
		Messages:      messageRepo,
		Media:         mediaService,
	}
	postService := services.NewPostService(postRepo, commentRepo, userRepo, mediaService)
	commentService := services.NewCommentService(commentRepo, postRepo, userRepo)

	webhookController, err := controllers.NewWebhookController(userService, cfg.Clerk.WebhookSecret)
	if err != nil {
		log.Fatalf("Failed to initialize webhook verifier: %v", err)
	}

	// Initialize the router
	r := mux.NewRouter()
	r.Handle("/socket.io/", socketServer)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "Route not found",
		})
	})

	routes.RegisterHealthcheck(r)
	routes.RegisterWebhookRoutes(r, webhookController)
	routes.RegisterUserRoutes(r, userService)
	routes.RegisterPostRoutes(r, postService, userService)
	routes.RegisterCommentRoutes(r, commentService, userService)
	routes.RegisterConversationRoutes(r, conversationService, userService)
	routes.RegisterMessageRoutes(r, messageService, userService)
	routes.RegisterSearchRoutes(r, userService)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	log.Printf("Starting server on port %s...\n", cfg.Server.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, corsHandler))
}
