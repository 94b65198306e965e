package main

import (
	"context"
	"flag"
	"log/syslog"
	"os"
	"os/signal"
	"time"

	"github.com/devconnectapp/devconnect/mongodb"
	"github.com/devconnectapp/devconnect/transport/rest"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"go.mongodb.org/mongo-driver/mongo"
)

func listenAndServe(ctx context.Context, db *mongo.Database, addr string) (*fiber.App, error) {
	profileStore := mongodb.NewProfileStore(db)
	if err := profileStore.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	profileController := rest.ProfileController{Store: profileStore}

	server := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})
	server.Use(rest.LogHandler())
	server.Use(cors.New())

	server.Get("/status", monitor.New())
	server.Get("/ping", rest.PingHandler)
	profileController.InstallTo(server)

	server.Use(rest.NotFoundHandler)

	go func() {
		if err := server.Listen(addr); err != nil {
			logrus.WithError(err).Fatalln("Could not listen.")
		}
	}()
	return server, nil
}

func setupLogger(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "devconnect_backend")
	if err != nil {
		logrus.WithError(err).Warningln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		logrus.Fatalln(key + " not set!")
	}
	return value
}

func envOr(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	flag.Parse()
	_ = godotenv.Load()
	debug := os.Getenv("DEBUG") == "true"
	setupLogger(debug)
	logrus.Infoln("Starting backend.")

	mongoUri := requireEnv("MONGO_URI")
	dbName := envOr("MONGO_DB", "devconnect")
	var addr string
	if debug {
		addr = envOr("ADDR", "127.0.0.1:3000")
	} else {
		addr = envOr("ADDR", ":3000")
	}

	logrus.Infoln("Opening database.")
	db := mongodb.Open(context.Background(), mongoUri, dbName)
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			logrus.WithError(err).Warningln("Mongo disconnect failed.")
		}
	}()

	logrus.Infoln("Starting listening... To shut down use ^C")
	server, err := listenAndServe(context.Background(), db, addr)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not start server.")
	}

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	if err := server.Shutdown(); err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
	logrus.Exit(0)
}
