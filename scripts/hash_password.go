package main

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// Generates the bcrypt hash expected in ADMIN_PASSWORD_HASH.
//
// Usage: go run scripts/hash_password.go
func main() {
	fmt.Println("========================================")
	fmt.Println("   Admin Password Hash Generator")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Print("Enter password: ")

	var password string
	fmt.Scanln(&password)

	if len(password) < 8 {
		log.Fatal("Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Println()
	fmt.Println("Set this in your environment:")
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
}
