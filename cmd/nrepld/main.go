package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/slatelisp/nrepld/internal/observability"
	"github.com/slatelisp/nrepld/internal/server"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to nrepld config.toml (optional)")
	flag.Parse()

	observability.InitLogger("nrepld")

	cfg := server.DefaultServiceConfig()
	if strings.TrimSpace(configPath) != "" {
		loaded, err := loadServiceConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nrepld: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	svc := server.NewServiceWithConfig(cfg)
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "nrepld: %v\n", err)
		os.Exit(1)
	}
}
