package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"prepwise-backend/internal/repository"
	"prepwise-backend/internal/service"
)

// seedAdmin creates the first account interactively. Run with:
//
//	prepwise seed-admin
func seedAdmin() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Admin full name: ")
	fullName, _ := reader.ReadString('\n')
	fmt.Print("Admin email: ")
	email, _ := reader.ReadString('\n')

	fmt.Print("Admin password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}

	authService := service.NewAuthService(repository.NewUserRepository())
	user, err := authService.Register(service.RegisterInput{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.TrimSpace(email),
		Password: string(password),
	})
	if err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}
	fmt.Printf("created user %d (%s)\n", user.ID, user.Email)
}
