// Command archifyctl drives the Archify session subsystem from a terminal:
// it logs in, inspects and re-verifies the stored session, and logs out.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
	"github.com/med-hamady/Archify-Project-sub001/internal/core/ports"
	"github.com/med-hamady/Archify-Project-sub001/internal/core/service"
	"github.com/med-hamady/Archify-Project-sub001/internal/infrastructure/api"
	"github.com/med-hamady/Archify-Project-sub001/internal/infrastructure/config"
	"github.com/med-hamady/Archify-Project-sub001/internal/infrastructure/storage"
	"github.com/med-hamady/Archify-Project-sub001/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "archifyctl:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	stateDir := cfg.StateDir
	if stateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve state dir: %w", err)
		}
		stateDir = filepath.Join(base, "archify")
	}

	store, err := storage.NewFileStore(stateDir, log)
	if err != nil {
		return err
	}
	client := api.NewClient(cfg.APIBaseURL, cfg.Timeout, log)
	sessions := service.NewSessionService(store, client, log)
	policy := service.NewPolicyEvaluator(store)
	subscriptions := service.NewSubscriptionService(client, store, log)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(os.Args[2:])

		user, err := sessions.Login(ctx, ports.LoginInput{Email: *email, Password: *password})
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", user.Email, user.NormalizedRole())
		return nil

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		name := fs.String("name", "", "display name")
		semester := fs.String("semester", "", "current semester")
		_ = fs.Parse(os.Args[2:])

		user, err := sessions.Register(ctx, ports.RegisterInput{
			Email: *email, Password: *password, Name: *name, Semester: *semester,
		})
		if err != nil {
			return err
		}
		fmt.Printf("registered %s\n", user.Email)
		return nil

	case "status":
		user, err := sessions.Bootstrap(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("anonymous")
			return nil
		}
		fmt.Printf("user:    %s\nrole:    %s\nadmin:   %v\npremium: %v\n",
			user.Email, user.NormalizedRole(), policy.IsAdmin(), policy.IsPremium())
		return nil

	case "verify":
		if _, err := store.Restore(); err != nil {
			return err
		}
		user, err := sessions.Verify(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNoSession) {
				fmt.Println("anonymous")
				return nil
			}
			return err
		}
		fmt.Printf("token valid for %s\n", user.Email)
		return nil

	case "refresh":
		if _, err := store.Restore(); err != nil {
			return err
		}
		user, err := sessions.Refresh(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("credentials renewed for %s\n", user.Email)
		return nil

	case "subscription":
		if _, err := store.Restore(); err != nil {
			return err
		}
		status, err := subscriptions.Check(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("active:    %v\ntype:      %s\nquiz:      %v\ndocuments: %v\n",
			status.HasActive, status.Type, status.CanAccessQuiz, status.CanAccessDocuments)
		return nil

	case "logout":
		if _, err := store.Restore(); err != nil {
			return err
		}
		sessions.Logout(ctx)
		fmt.Println("logged out")
		return nil

	default:
		usage()
		os.Exit(2)
		return nil
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: archifyctl <command> [flags]

commands:
  login         -email -password
  register      -email -password -name -semester
  status        show the stored session
  verify        re-verify the access token
  refresh       exchange the refresh token
  subscription  show the entitlement record
  logout        end the session`)
}
