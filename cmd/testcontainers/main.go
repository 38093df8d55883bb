package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/excel-analyzer/internal/testutil/stack"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run MariaDB and MinIO containers for local development of the analyzer.
Prints the environment to point the server at them, then waits for Ctrl-C.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to a .env file with DB_IMAGE, MINIO_IMAGE, DB_* and MINIO_* settings

example
  testcontainers -f ./dev.env > stack.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	settings := stack.SettingsFromEnv()
	st, err := stack.Start(ctx, nil, settings)
	if err != nil {
		log.Fatalf("Failed to create test containers: %v\n", err)
	}

	cfg := st.Config
	env := map[string]string{
		"DB_TYPE":               cfg.DBType,
		"DB_HOST":               cfg.DBHost,
		"DB_PORT":               cfg.DBPort,
		"DB_DATABASE":           cfg.DBDatabase,
		"DB_USER":               cfg.DBUser,
		"DB_PASSWORD":           cfg.DBPassword,
		"STORAGE_DRIVER":        cfg.StorageDriver,
		"S3_BUCKET":             cfg.S3Bucket,
		"S3_REGION":             cfg.S3Region,
		"S3_ENDPOINT":           cfg.S3Endpoint,
		"S3_CREATE_BUCKET":      "true",
		"AWS_ACCESS_KEY_ID":     settings.MinIOUser,
		"AWS_SECRET_ACCESS_KEY": settings.MinIOPassword,
	}
	out, err := godotenv.Marshal(env)
	if err != nil {
		st.Terminate(nil)
		log.Fatalf("Failed to render environment: %v\n", err)
	}
	fmt.Println(out)

	<-ctx.Done()
	log.Printf("Received signal, terminating test containers...\n")
	st.Terminate(nil)
}
