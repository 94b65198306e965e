package mongodb

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func Open(ctx context.Context, uri string, dbName string) *mongo.Database {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open mongo database.")
	}
	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		logrus.WithError(err).Fatalln("Could not ping mongo database.")
	}
	return client.Database(dbName)
}

// Running integration tests requires a real mongo instance, but we
// don't have enough time to start one for every test so we will start
// mongo once and then pass the uri to as many tests as we want.

func OpenTest(ctx context.Context) *mongo.Database {
	return Open(ctx, TestEnvUri(), "devconnect_test")
}

func TestEnvUri() string {
	return os.Getenv("MONGODB_URI")
}

func SetTestEnvUri(uri string) {
	os.Setenv("MONGODB_URI", uri)
}
