package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Printf("No S3 configuration found: %s\n\n", err)
		cfg, err = InteractiveSetup()
		if err != nil {
			fmt.Printf("Setup cancelled or failed: %s\n", err)
			fmt.Println("\nCreate a .s3cfg file manually in one of these locations:")
			fmt.Println("  - Current directory: .s3cfg")
			fmt.Println("  - Home directory: ~/.s3cfg")
			fmt.Println("  - System directory: /etc/s3cfg")
			os.Exit(1)
		}
	}

	log, err := newLogger()
	if err != nil {
		fmt.Printf("Error setting up logging: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	gw, err := NewS3Gateway(ctx, cfg, log)
	if err != nil {
		fmt.Printf("Error creating S3 client: %s\n", err)
		os.Exit(1)
	}

	session := NewSession(gw, log)
	if err := session.Start(ctx); err != nil {
		fmt.Printf("Error listing buckets: %s\n", err)
		fmt.Println("\nPlease check:")
		fmt.Println("  - Your credentials are valid")
		fmt.Println("  - Your S3 endpoint configuration is correct")
		os.Exit(1)
	}
	log.Info("session started", zap.String("endpoint", cfg.EndpointURL()))

	model := NewModel(session, gw, cfg, log)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running TUI: %s\n", err)
		os.Exit(1)
	}
}
