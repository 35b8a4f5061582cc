package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"spacely/internal/api"
	"spacely/internal/auth"
	"spacely/internal/engine"
	"spacely/internal/otp"
	"spacely/internal/repository"
	"spacely/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	listingRepo := repository.NewListingRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	userRepo := repository.NewUserRepository(database)
	draftRepo := repository.NewDraftRepository(database)
	otpRepo := repository.NewOTPRepository(database)
	jobRepo := repository.NewJobRepository(database)
	hostAuthRepo := repository.NewHostAuthRepository(database)

	eng := engine.New()
	senderService := service.NewSenderService()
	stripeService := service.NewStripeService()
	otpService := otp.NewService(otpRepo, senderService)
	bookingService := service.NewBookingService(eng, listingRepo, bookingRepo, userRepo, draftRepo, stripeService, senderService)
	listingService := service.NewListingService(listingRepo, bookingRepo)
	draftService := service.NewDraftService(draftRepo, listingRepo, bookingRepo)
	jobService := service.NewJobService(jobRepo)
	hostAuthService := service.NewHostAuthService(hostAuthRepo)
	userAuthService := service.NewUserAuthService(userRepo)
	checkInService := service.NewCheckInService(bookingRepo, listingRepo, userRepo, otpService)

	bookingHandler := api.NewBookingHandler(bookingService, draftService)
	hostHandler := api.NewHostHandler(listingService, bookingService, checkInService)
	userHandler := api.NewUserHandler(userRepo, listingService)
	verifyHandler := api.NewVerifyHandler(otpService, userRepo)
	authHandler := api.NewAuthHandler(hostAuthService, userAuthService)
	stripeWebhookHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), bookingService, stripeService)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/user/register", authHandler.UserRegister).Methods("POST")
	r.HandleFunc("/api/auth/user/login", authHandler.UserLogin).Methods("POST")
	r.HandleFunc("/api/auth/host/register", authHandler.HostRegister).Methods("POST")
	r.HandleFunc("/api/auth/host/login", authHandler.HostLogin).Methods("POST")
	r.HandleFunc("/api/stripe/webhook", stripeWebhookHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/api/listings/{id}", userHandler.GetListing).Methods("GET")

	// Guest endpoints (protected)
	user := r.PathPrefix("/api").Subrouter()
	user.Use(auth.UserAuthMiddleware)
	user.HandleFunc("/listings/{id}/availability", bookingHandler.CheckAvailability).Methods("POST")
	user.HandleFunc("/listings/{id}/quote", bookingHandler.Quote).Methods("POST")
	user.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	user.HandleFunc("/bookings", bookingHandler.ListBookings).Methods("GET")
	user.HandleFunc("/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	user.HandleFunc("/bookings/{code}", bookingHandler.CancelBooking).Methods("DELETE")
	user.HandleFunc("/drafts", bookingHandler.SaveDraft).Methods("PUT")
	user.HandleFunc("/drafts/{id}", bookingHandler.GetDraft).Methods("GET")
	user.HandleFunc("/drafts/{id}", bookingHandler.DeleteDraft).Methods("DELETE")
	user.HandleFunc("/verify/send", verifyHandler.SendCode).Methods("POST")
	user.HandleFunc("/verify/check", verifyHandler.CheckCode).Methods("POST")
	user.HandleFunc("/favorites", userHandler.ListFavorites).Methods("GET")
	user.HandleFunc("/favorites/{id}", userHandler.AddFavorite).Methods("POST")
	user.HandleFunc("/favorites/{id}", userHandler.RemoveFavorite).Methods("DELETE")

	// Host endpoints (protected)
	host := r.PathPrefix("/api/host").Subrouter()
	host.Use(auth.HostAuthMiddleware)
	host.HandleFunc("/listings", hostHandler.ListListings).Methods("GET")
	host.HandleFunc("/listings", hostHandler.CreateListing).Methods("POST")
	host.HandleFunc("/listings/{id}", hostHandler.UpdateListing).Methods("PUT")
	host.HandleFunc("/listings/{id}/availability", hostHandler.SetAvailability).Methods("PUT")
	host.HandleFunc("/listings/{id}/block/{date}", hostHandler.BlockDate).Methods("PUT")
	host.HandleFunc("/listings/{id}/bookings", hostHandler.ListBookings).Methods("GET")
	host.HandleFunc("/bookings/{code}", hostHandler.CancelBooking).Methods("DELETE")
	host.HandleFunc("/bookings/{code}/checkin", hostHandler.SendCheckInCode).Methods("POST")
	host.HandleFunc("/bookings/{code}/checkin/verify", hostHandler.VerifyCheckIn).Methods("POST")

	startCronJobs(jobService)

	corsOrigin := os.Getenv("FRONTEND_BASE_URL")
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{corsOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Stripe-Signature"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}

func startCronJobs(jobService *service.JobService) {
	c := cron.New()

	c.AddFunc("@every 10m", func() {
		if err := jobService.CompleteFinishedBookings(); err != nil {
			log.Printf("Cron Job: error completing finished bookings: %v", err)
		}
	})

	c.AddFunc("@every 10m", func() {
		n, err := jobService.PurgeExpiredHolds(time.Now().Add(-30 * time.Minute))
		if err != nil {
			log.Printf("Cron Job: error purging expired holds: %v", err)
		} else if n > 0 {
			log.Printf("Cron Job: purged %d expired reservation holds", n)
		}
	})

	c.AddFunc("@daily", func() {
		n, err := jobService.PurgeStaleDrafts(time.Now().AddDate(0, 0, -30))
		if err != nil {
			log.Printf("Cron Job: error purging stale drafts: %v", err)
		} else if n > 0 {
			log.Printf("Cron Job: purged %d stale booking drafts", n)
		}
	})

	c.AddFunc("@hourly", func() {
		n, err := jobService.PurgeExpiredOTPCodes()
		if err != nil {
			log.Printf("Cron Job: error purging expired verification codes: %v", err)
		} else if n > 0 {
			log.Printf("Cron Job: purged %d expired verification codes", n)
		}
	})

	c.Start()
	log.Println("Cron jobs started")
}
