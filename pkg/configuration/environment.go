package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orggatekeeper/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

// LoadEnv loads the given env files, skipping the ones that do not exist.
// Returns how many files were actually loaded.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type MOOptions struct {
	URL            string        `env:"MO_URL" envDefault:"http://mo-service:5000"`
	GraphQLTimeout time.Duration `env:"GRAPHQL_TIMEOUT" envDefault:"120s"`
}

type AuthOptions struct {
	ClientID     string `env:"CLIENT_ID" envDefault:"orggatekeeper"`
	ClientSecret string `env:"CLIENT_SECRET"`
	AuthServer   string `env:"AUTH_SERVER" envDefault:"http://keycloak-service:8080/auth"`
	AuthRealm    string `env:"AUTH_REALM" envDefault:"mo"`
}

// TokenURL is the OIDC client-credentials token endpoint for the realm.
func (a *AuthOptions) TokenURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", strings.TrimRight(a.AuthServer, "/"), a.AuthRealm)
}

type PrometheusOptions struct {
	Enabled bool   `env:"EXPOSE_METRICS" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

type Configuration struct {
	MO         MOOptions
	Auth       AuthOptions
	Prometheus PrometheusOptions

	// EnableHideLogic toggles the hide-list evaluation entirely.
	EnableHideLogic bool `env:"ENABLE_HIDE_LOGIC" envDefault:"true"`
	// Hidden lists organisation-unit user-keys to hide, children included.
	Hidden []string `env:"HIDDEN" envSeparator:","`
	// HiddenUUID optionally pre-resolves the hidden class, skipping the lookup.
	HiddenUUID    uuid.UUID `env:"HIDDEN_UUID"`
	HiddenUserKey string    `env:"HIDDEN_USER_KEY" envDefault:"hide"`

	// LineManagementUUID optionally pre-resolves the line-management class.
	LineManagementUUID    uuid.UUID `env:"LINE_MANAGEMENT_UUID"`
	LineManagementUserKey string    `env:"LINE_MANAGEMENT_USER_KEY" envDefault:"linjeorg"`

	DryRun bool `env:"DRY_RUN" envDefault:"false"`

	ServerPort       int    `env:"PORT" envDefault:"8000"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath          string `env:"LOG_PATH"`

	CommitTag string `env:"COMMIT_TAG" envDefault:"HEAD"`
	CommitSHA string `env:"COMMIT_SHA" envDefault:"HEAD"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}

	if c.LogPath != "" {
		f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
		if err != nil {
			return err
		}
		c.logFile = f
		c.logger = logger
	} else {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
	}

	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	return nil
}

func (c *Configuration) validate() error {
	if strings.TrimSpace(c.MO.URL) == "" {
		return fmt.Errorf("MO_URL must not be empty")
	}
	if c.MO.GraphQLTimeout <= 0 {
		return fmt.Errorf("GRAPHQL_TIMEOUT must be positive, got %s", c.MO.GraphQLTimeout)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.ServerPort)
	}

	// env parses "a,,b" into empty entries; user-keys are never empty.
	hidden := make([]string, 0, len(c.Hidden))
	for _, key := range c.Hidden {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			hidden = append(hidden, trimmed)
		}
	}
	c.Hidden = hidden

	if c.HiddenUserKey == "" {
		return fmt.Errorf("HIDDEN_USER_KEY must not be empty")
	}
	if c.LineManagementUserKey == "" {
		return fmt.Errorf("LINE_MANAGEMENT_USER_KEY must not be empty")
	}
	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
