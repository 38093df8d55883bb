// Package stack starts the MariaDB and MinIO containers used by integration
// tests and by cmd/testcontainers. Settings come from the environment.
package stack

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/excel-analyzer/data"
	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mariaDBPort  = "3306/tcp"
	minioPort    = "9000/tcp"
	minioConsole = "9001/tcp"
)

// Settings names the images and credentials of the stack
type Settings struct {
	DBImage        string
	DBRootPassword string
	DBDatabase     string
	DBUser         string
	DBPassword     string

	MinIOImage    string
	MinIOUser     string
	MinIOPassword string
	Bucket        string

	// Debug binds the MinIO console to 127.0.0.1:9001
	Debug bool
}

// SettingsFromEnv reads Settings, with defaults for a throwaway stack
func SettingsFromEnv() Settings {
	return Settings{
		DBImage:        envOr("DB_IMAGE", "mariadb:11"),
		DBRootPassword: envOr("DB_ROOT_PASSWORD", "root-secret"),
		DBDatabase:     envOr("DB_DATABASE", "excel_analyzer"),
		DBUser:         envOr("DB_USER", "analyzer"),
		DBPassword:     envOr("DB_PASSWORD", "analyzer-secret"),
		MinIOImage:     envOr("MINIO_IMAGE", "minio/minio:latest"),
		MinIOUser:      envOr("MINIO_ROOT_USER", "minioadmin"),
		MinIOPassword:  envOr("MINIO_ROOT_PASSWORD", "minioadmin"),
		Bucket:         envOr("S3_BUCKET", "excel-analyzer"),
		Debug:          os.Getenv("DEBUG_CONTAINER") == "true",
	}
}

// Stack is a running set of containers
type Stack struct {
	Network     *testcontainers.DockerNetwork
	DBContainer testcontainers.Container
	S3Container testcontainers.Container

	// Config points the application at the containers through their mapped ports
	Config *config.Config
}

// Terminate stops whatever was started. t may be nil outside tests.
func (s *Stack) Terminate(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]testcontainers.Container{"MinIO": s.S3Container, "MariaDB": s.DBContainer} {
		if c == nil {
			continue
		}
		if err := c.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate %s: %v", name, err)
		}
	}
	if s.Network != nil {
		if err := s.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// Start runs MariaDB with the application tables and a MinIO server.
// The MinIO credentials are exported as AWS_* variables so the default
// AWS credential chain picks them up. On error everything started is removed.
func Start(ctx context.Context, t *testing.T, s Settings) (*Stack, error) {
	st := &Stack{}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	st.Network = nw

	if err := st.startMariaDB(ctx, t, s); err != nil {
		st.Terminate(t)
		return nil, err
	}
	if err := st.startMinIO(ctx, t, s); err != nil {
		st.Terminate(t)
		return nil, err
	}

	logMessage(t, "Stack ready: DB %s:%s, S3 %s", st.Config.DBHost, st.Config.DBPort, st.Config.S3Endpoint)
	return st, nil
}

func (st *Stack) startMariaDB(ctx context.Context, t *testing.T, s Settings) error {
	port := nat.Port(mariaDBPort)
	reportImage(ctx, t, s.DBImage)

	db, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        s.DBImage,
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": s.DBRootPassword,
				"MARIADB_DATABASE":      s.DBDatabase,
			},
			HostConfigModifier: func(hc *container.HostConfig) {
				// data is disposable
				hc.Tmpfs = map[string]string{"/var/lib/mysql": "rw"}
			},
			WaitingFor: wait.ForListeningPort(port).WithStartupTimeout(90 * time.Second),
			Networks:   []string{st.Network.Name},
			NetworkAliases: map[string][]string{
				st.Network.Name: {"mariadb"},
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start MariaDB: %w", err)
	}
	st.DBContainer = db

	host, err := db.Host(ctx)
	if err != nil {
		return fmt.Errorf("failed to get MariaDB host: %w", err)
	}
	mapped, err := db.MappedPort(ctx, port)
	if err != nil {
		return fmt.Errorf("failed to get MariaDB port: %w", err)
	}
	if err := initMariaDB(ctx, s, host, mapped); err != nil {
		return err
	}

	st.Config = &config.Config{
		Port:              "0",
		MaxUploadBytes:    10 * 1024 * 1024,
		CORSOrigins:       "*",
		DBType:            "mariadb",
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        s.DBDatabase,
		DBUser:            s.DBUser,
		DBPassword:        s.DBPassword,
		DBConnectionLimit: 5,
		AuthProvider:      config.AuthProviderJWT,
		JWTSecret:         "stack-secret",
		JWTTTL:            time.Hour,
	}
	return nil
}

func (st *Stack) startMinIO(ctx context.Context, t *testing.T, s Settings) error {
	port, console := nat.Port(minioPort), nat.Port(minioConsole)
	reportImage(ctx, t, s.MinIOImage)

	minio, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        s.MinIOImage,
			ExposedPorts: []string{string(port), string(console)},
			Cmd:          []string{"server", "/data", "--console-address", ":9001"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     s.MinIOUser,
				"MINIO_ROOT_PASSWORD": s.MinIOPassword,
			},
			HostConfigModifier: func(hc *container.HostConfig) {
				if s.Debug {
					hc.PortBindings = nat.PortMap{
						console: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "9001"}},
					}
				}
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort(port).WithStartupTimeout(60 * time.Second),
			Networks:   []string{st.Network.Name},
			NetworkAliases: map[string][]string{
				st.Network.Name: {"minio"},
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start MinIO: %w", err)
	}
	st.S3Container = minio

	host, err := minio.Host(ctx)
	if err != nil {
		return fmt.Errorf("failed to get MinIO host: %w", err)
	}
	mapped, err := minio.MappedPort(ctx, port)
	if err != nil {
		return fmt.Errorf("failed to get MinIO port: %w", err)
	}

	setEnv(t, "AWS_ACCESS_KEY_ID", s.MinIOUser)
	setEnv(t, "AWS_SECRET_ACCESS_KEY", s.MinIOPassword)

	st.Config.StorageDriver = "s3"
	st.Config.S3Bucket = s.Bucket
	st.Config.S3Region = "us-east-1"
	st.Config.S3Endpoint = fmt.Sprintf("http://%s:%s", host, mapped.Port())
	st.Config.S3UploadPrefix = "excel-uploads"
	st.Config.S3ChartPrefix = "charts"
	st.Config.S3CreateBucket = true
	return nil
}

// initMariaDB creates the application user and tables as root
func initMariaDB(ctx context.Context, s Settings, host string, port nat.Port) error {
	root, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", s.DBRootPassword, host, port.Port()))
	if err != nil {
		return fmt.Errorf("failed to connect to MariaDB for setup: %w", err)
	}
	defer root.Close()

	// the port opens before the server accepts logins
	for i := 0; i < 30; i++ {
		if err = root.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		return fmt.Errorf("MariaDB not ready after 30 seconds: %w", err)
	}

	setup := []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", s.DBDatabase),
		fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'", s.DBUser, s.DBPassword),
		fmt.Sprintf("GRANT SELECT, INSERT, UPDATE, DELETE, CREATE, ALTER, INDEX, REFERENCES ON `%s`.* TO '%s'@'%%'", s.DBDatabase, s.DBUser),
		"FLUSH PRIVILEGES",
		fmt.Sprintf("USE `%s`", s.DBDatabase),
	}
	conn, err := root.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to open setup connection: %w", err)
	}
	defer conn.Close()

	for _, q := range append(setup, SplitStatements(data.InitdbMariaDBTables)...) {
		if _, err := conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%w : when executing > %s", err, q)
		}
	}
	return nil
}

// SplitStatements splits a SQL script on semicolons outside quotes,
// dropping "--" comments and empty statements.
func SplitStatements(script string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
	)
	flush := func() {
		if q := strings.TrimSpace(cur.String()); q != "" {
			out = append(out, q)
		}
		cur.Reset()
	}

	for _, line := range strings.Split(script, "\n") {
		runes := []rune(line)
		for i := 0; i < len(runes); i++ {
			r := runes[i]
			switch {
			case quote != 0:
				if r == quote {
					quote = 0
				}
			case r == '\'' || r == '"' || r == '`':
				quote = r
			case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
				i = len(runes)
				continue
			case r == ';':
				flush()
				continue
			}
			cur.WriteRune(r)
		}
		cur.WriteRune('\n')
	}
	flush()
	return out
}

// reportImage logs whether an image will be reused or pulled
func reportImage(ctx context.Context, t *testing.T, name string) {
	exists, err := imageExists(ctx, name)
	switch {
	case err != nil:
		logMessage(t, "Could not inspect local images: %v", err)
	case exists:
		logMessage(t, "Image %s exists, reusing...", name)
	default:
		logMessage(t, "Image %s not found locally, pulling...", name)
	}
}

func imageExists(ctx context.Context, name string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == name {
				return true, nil
			}
		}
	}
	return false, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setEnv(t *testing.T, key, value string) {
	if t != nil {
		t.Setenv(key, value)
		return
	}
	os.Setenv(key, value)
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
