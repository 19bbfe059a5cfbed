package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"pipsplit-backend/config"

	"github.com/golang-jwt/jwt/v5"
)

// Generates a development bearer token for exercising the API by hand.
// Pass a user ID as the first argument to mint a token for someone other
// than the default seed user.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET not found in .env")
	}

	userID := "d5a2089c-e39a-4b62-a973-778f6729323d"
	if len(os.Args) > 1 {
		userID = os.Args[1]
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println("Generated token:")
	fmt.Println("-----------------------------------------------")
	fmt.Println(tokenString)
	fmt.Println("-----------------------------------------------")
	fmt.Printf("\nuser_id: %s\n", userID)
}
