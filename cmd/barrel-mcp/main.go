package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/barrel-contour-mcp/internal/config"
	"github.com/ironsheep/barrel-contour-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = server.Version
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("barrel-contour-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "barrel-contour-mcp: %v\n", err)
		os.Exit(2)
	}

	logger := initLogger(cfg)
	logger.WithFields(logrus.Fields{
		"version":          Version,
		"build_time":       BuildTime,
		"git_commit":       GitCommit,
		"max_image_dim":    cfg.MaxImageDim,
		"cache_size":       cfg.CacheSize,
		"image_cache_size": cfg.ImageCacheSize,
	}).Info("Starting barrel contour MCP server")

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
	logger.Info("Input closed, shutting down")
}

// initLogger builds the process logger. Output goes to stderr because stdout
// carries the MCP protocol.
func initLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if cfg.Debug() {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.Debug("Debug logging enabled")
	return logger
}

func printHelp() {
	fmt.Println("barrel-contour-mcp - MCP server for barrel contour extraction")
	fmt.Println()
	fmt.Println("Usage: barrel-contour-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug          Enable debug logging (info, warn, error also accepted)\n", config.EnvLogLevel)
	fmt.Printf("  %s=2048      Longest side photos are downscaled to (0 disables)\n", config.EnvMaxImageDim)
	fmt.Printf("  %s=128           Number of cached contour extractions\n", config.EnvCacheSize)
	fmt.Printf("  %s=32      Number of cached decoded photos\n", config.EnvImageCacheSize)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client.")
}
