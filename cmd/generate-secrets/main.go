package main

import (
	"fmt"
	"log"

	"github.com/thedirecttree/directory-gateway/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Session Secret Generator for The Direct Tree")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateSessionSecret()
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Secret generated successfully!")
	fmt.Println()
	fmt.Println("Add this to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("SESSION_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("IMPORTANT: rotating this secret signs every user out of the gateway.")
	fmt.Println("Keep it safe and never commit it to version control!")
	fmt.Println("===========================================")
}
