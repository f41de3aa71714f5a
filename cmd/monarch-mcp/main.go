package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/catalog"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/common"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/monarch"
)

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// MonarchConfig holds upstream API credentials and endpoint settings.
type MonarchConfig struct {
	BaseURL   string `toml:"base_url"`
	Email     string `toml:"email"`
	Password  string `toml:"password"`
	MFASecret string `toml:"mfa_secret"`
}

// Config holds all monarch-mcp configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Monarch MonarchConfig        `toml:"monarch"`
	Logging common.LoggingConfig `toml:"logging"`
}

// newDefaultConfig returns a Config with sensible defaults.
func newDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name: "Monarch-MCP",
			Port: "4250",
		},
		Monarch: MonarchConfig{
			BaseURL: monarch.DefaultBaseURL,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/monarch-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// loadConfig loads configuration from a TOML file with defaults and env overrides.
func loadConfig(path string) Config {
	cfg := newDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Fatalf("Failed to read config file %s: %v", path, err)
			}
			// File not found — use defaults
		} else {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				log.Fatalf("Failed to parse config file %s: %v", path, err)
			}
		}
	}

	// Environment overrides win over the file; credentials are usually
	// supplied this way rather than committed to disk.
	if v := os.Getenv("MONARCH_EMAIL"); v != "" {
		cfg.Monarch.Email = v
	}
	if v := os.Getenv("MONARCH_PASSWORD"); v != "" {
		cfg.Monarch.Password = v
	}
	if v := os.Getenv("MONARCH_MFA_SECRET"); v != "" {
		cfg.Monarch.MFASecret = v
	}
	if v := os.Getenv("MONARCH_BASE_URL"); v != "" {
		cfg.Monarch.BaseURL = v
	}
	if v := os.Getenv("MONARCH_MCP_PORT"); v != "" {
		cfg.Server.Port = v
	}

	return cfg
}

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "monarch-mcp.toml", "Path to config file")
	flag.Parse()

	cfg := loadConfig(*configFile)

	// Load version
	common.LoadVersionFromFile()

	// Setup logging
	logger := common.NewLoggerFromConfig(cfg.Logging)

	client := monarch.NewClient(cfg.Monarch.BaseURL, logger)
	session := monarch.NewSession(client, monarch.Credentials{
		Email:     cfg.Monarch.Email,
		Password:  cfg.Monarch.Password,
		MFASecret: cfg.Monarch.MFASecret,
	})

	// Create MCP server with tool definitions
	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Build the catalog from the client's declared operations and register
	// every tool. Login is deferred until the first tool call.
	tools := catalog.Build(client, session.Ensure, logger)
	catalog.Register(mcpServer, tools)
	logger.Info().Int("tools", len(tools)).Msg("tool catalog registered")

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	log.Printf("Starting MCP Streamable HTTP on :%s", port)
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
