package main

import (
	"fmt"
	"os"

	"pantree/internal/security"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/hash_password.go <password>")
		fmt.Println("Example: go run scripts/hash_password.go mySecurePassword123")
		os.Exit(1)
	}

	password := os.Args[1]
	hash, err := security.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Password hash generated successfully!")
	fmt.Println()
	fmt.Println("Insert it directly when seeding a user row:")
	fmt.Printf("UPDATE users SET password_hash = '%s' WHERE username = '<username>';\n", hash)
}
