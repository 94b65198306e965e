package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/devconnectapp/devconnect/mongodb"
	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// inspiration: https://stackoverflow.com/a/64222654 (by brpaz)

func main() {
	flag.Parse()

	logrus.Println("Starting mongo db container")
	shutdownMongo, err := createTestMongoDb()
	if err != nil {
		logrus.WithError(err).Fatalln("Could not create test database.")
	}

	var path string
	if len(os.Args) > 2 {
		path = "./../" + os.Args[2]
	} else {
		path = "./.."
	}
	logrus.WithField("path", path).Println("Running tests...")
	runTests(path)

	logrus.Println("Tests done. Shutting down test db.")
	shutdownMongo()
}

func runTests(path string) {
	c := exec.Command("go", "test", path+"/...")
	c.Env = os.Environ()
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Start(); err != nil {
		logrus.WithError(err).Errorln("Could not run test command")
		return
	}
	if err := c.Wait(); err != nil {
		logrus.WithError(err).Errorln("Could not wait on test command")
		return
	}
}

// Start mongo docker container and export its uri to the test env.
// Returns shutdown func OR error.
func createTestMongoDb() (func(), error) {
	rootPassB := make([]byte, 30)
	if _, err := rand.Read(rootPassB); err != nil {
		return nil, fmt.Errorf("password generate: %w", err)
	}
	rootPass := base32.StdEncoding.EncodeToString(rootPassB)

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("docker connect: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5.0",
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=root",
			"MONGO_INITDB_ROOT_PASSWORD=" + rootPass,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, fmt.Errorf("resource start: %w", err)
	}
	resource.Expire(120)
	shutdownResource := func() {
		if err := pool.Purge(resource); err != nil {
			logrus.WithError(err).Warningln("Could not purge resource.")
		}
	}

	var mongoUri string
	pool.MaxWait = 30 * time.Second
	err = pool.Retry(func() error {
		mongoUri = fmt.Sprintf("mongodb://root:%s@localhost:%s",
			rootPass, resource.GetPort("27017/tcp"))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoUri))
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		defer client.Disconnect(ctx)
		if err = client.Ping(ctx, readpref.Primary()); err != nil {
			return fmt.Errorf("mongo ping: %w", err)
		}
		return nil
	})
	if err != nil {
		shutdownResource()
		return nil, fmt.Errorf("database connect: %w", err)
	}

	mongodb.SetTestEnvUri(mongoUri)
	return shutdownResource, nil
}
