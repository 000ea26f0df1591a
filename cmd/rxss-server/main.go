package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lcalzada-xor/rxss/pkg/config"
	"github.com/lcalzada-xor/rxss/pkg/logger"
	"github.com/lcalzada-xor/rxss/pkg/network"
	"github.com/lcalzada-xor/rxss/pkg/scanner"
	"github.com/lcalzada-xor/rxss/pkg/scanner/identity"
	"github.com/lcalzada-xor/rxss/pkg/scanner/payloads"
	"github.com/lcalzada-xor/rxss/pkg/scanner/probe"
	"github.com/lcalzada-xor/rxss/pkg/server"
)

func main() {
	var (
		configPath string
		addr       string
		delay      time.Duration
		timeout    time.Duration
		proxy      string
		verbose    bool
	)

	flag.StringVar(&configPath, "c", "", "YAML configuration file")
	flag.StringVar(&configPath, "config", "", "YAML configuration file")
	flag.StringVar(&addr, "addr", "", "Listen address (default "+config.DefaultListenAddr+")")
	flag.DurationVar(&delay, "d", 0, "Delay after each request (default 1s)")
	flag.DurationVar(&delay, "delay", 0, "Delay after each request (default 1s)")
	flag.DurationVar(&timeout, "t", 0, "Request timeout (default 10s)")
	flag.DurationVar(&timeout, "timeout", 0, "Request timeout (default 10s)")
	flag.StringVar(&proxy, "x", "", "Proxy URL")
	flag.StringVar(&proxy, "proxy", "", "Proxy URL")
	flag.BoolVar(&verbose, "v", false, "Verbose output")
	flag.Parse()

	file := &config.File{}
	if configPath != "" {
		f, err := config.LoadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		file = f
	}

	// Flags win over the file, the file over built-in defaults
	set := setFlags()
	addr = firstNonEmpty(addr, file.Listen, config.DefaultListenAddr)
	delay = pickDuration(set["d"] || set["delay"], delay, file.Delay, config.DefaultDelay)
	timeout = pickDuration(set["t"] || set["timeout"], timeout, file.Timeout, config.DefaultTimeout)
	proxy = firstNonEmpty(proxy, file.Proxy)

	level := file.Verbose
	if verbose && level < 1 {
		level = 1
	}
	log := logger.NewLogger(level)
	if level == 0 {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := network.NewClient(network.Settings{
		Timeout:   timeout,
		Proxy:     proxy,
		RateLimit: file.RateLimit,
		Retries:   file.Retries,
	})
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	exec := probe.NewExecutor(client, identity.NewRandom(config.UserAgents))
	exec.SetDelay(delay)
	exec.SetHeaders(file.Headers)

	sc := scanner.NewScanner(exec, log)
	if len(file.Payloads) > 0 {
		sc.SetPayloadProvider(payloads.NewProvider(file.Payloads))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("rxss-server %s (delay %v, timeout %v)", config.Version, delay, timeout)
	if err := server.New(sc, log).Run(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// setFlags returns the names of flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// pickDuration returns the flag value when it was given, even if zero,
// otherwise the file value when positive, otherwise the default.
func pickDuration(flagSet bool, flagValue, fileValue, def time.Duration) time.Duration {
	switch {
	case flagSet:
		if flagValue < 0 {
			return 0
		}
		return flagValue
	case fileValue > 0:
		return fileValue
	}
	return def
}
