// Command create-admin creates a super admin account in the configured
// database. It is the equivalent of the interactive createsuperuser step.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"agcbo/internal/auth"
	"agcbo/internal/config"
	"agcbo/internal/logging"
	"agcbo/internal/model"

	"github.com/sirupsen/logrus"
)

func main() {
	username := flag.String("username", os.Getenv("ADMIN_USERNAME"), "username of the new super admin")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "email address of the new super admin")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password of the new super admin")
	flag.Parse()

	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("failed to parse config")
		os.Exit(1)
	}
	defer logging.Setup(cfg).Close()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create-admin -username NAME -password SECRET [-email ADDRESS]")
		os.Exit(2)
	}
	if err := auth.ValidatePassword(*password, *username); err != nil {
		fmt.Fprintf(os.Stderr, "password rejected: %v\n", err)
		os.Exit(2)
	}

	store, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := model.EnsureSuperAdmin(ctx, store, *username, *email, *password)
	if err != nil {
		logrus.WithError(err).Error("failed to create super admin")
		os.Exit(1)
	}
	if !created {
		fmt.Printf("account %q already exists\n", *username)
		return
	}
	logrus.WithField("username", *username).Info("super admin created")
	fmt.Printf("super admin %q created\n", *username)
}
