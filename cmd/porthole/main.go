package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gologme/log"
	gsyslog "github.com/hashicorp/go-syslog"
	"github.com/hjson/hjson-go"
	"github.com/kardianos/minwinsvc"

	"github.com/porthole-app/porthole-go/src/admin"
	"github.com/porthole-app/porthole-go/src/config"
	"github.com/porthole-app/porthole-go/src/engine"
	"github.com/porthole-app/porthole-go/src/shell"
	"github.com/porthole-app/porthole-go/src/version"
)

type app struct {
	shell *shell.Shell
	admin *admin.AdminSocket
}

// The main function is responsible for configuring and starting the
// application window.
func main() {
	genconf := flag.Bool("genconf", false, "print a new config to stdout")
	useconf := flag.Bool("useconf", false, "read HJSON/JSON config from stdin")
	useconffile := flag.String("useconffile", "", "read HJSON/JSON config from specified file path")
	normaliseconf := flag.Bool("normaliseconf", false, "use in combination with either -useconf or -useconffile, outputs your configuration normalised")
	confjson := flag.Bool("json", false, "print configuration from -genconf or -normaliseconf as JSON instead of HJSON")
	ver := flag.Bool("version", false, "prints the version of this build")
	logto := flag.String("logto", "stdout", "file path to log to, \"syslog\" or \"stdout\"")
	loglevel := flag.String("loglevel", "info", "loglevel to enable")
	wwwroot := flag.String("wwwroot", "", "serve the given content root, overriding the configuration")
	startroute := flag.String("startroute", "", "navigate to the given path once ready, overriding the configuration")
	devtools := flag.Bool("devtools", false, "expose the browser engine's developer tooling")
	flag.Parse()

	// Catch interrupts from the operating system to exit gracefully.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Capture the service being stopped on Windows.
	minwinsvc.SetOnExit(cancel)

	// Create a new logger that logs output to stdout.
	var logger *log.Logger
	switch *logto {
	case "stdout":
		logger = log.New(os.Stdout, "", log.Flags())

	case "syslog":
		if syslogger, err := gsyslog.NewLogger(gsyslog.LOG_NOTICE, "DAEMON", version.BuildName()); err == nil {
			logger = log.New(syslogger, "", log.Flags()&^(log.Ldate|log.Ltime))
		}

	default:
		if logfd, err := os.OpenFile(*logto, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			logger = log.New(logfd, "", log.Flags())
		}
	}
	if logger == nil {
		logger = log.New(os.Stdout, "", log.Flags())
		logger.Warnln("Logging defaulting to stdout")
	}
	if *normaliseconf {
		setLogLevel("error", logger)
	} else {
		setLogLevel(*loglevel, logger)
	}

	cfg := config.GenerateConfig()
	var err error
	switch {
	case *ver:
		fmt.Println("Build name:", version.BuildName())
		fmt.Println("Build version:", version.BuildVersion())
		return

	case *useconf:
		if _, err := cfg.ReadFrom(os.Stdin); err != nil {
			panic(err)
		}

	case *useconffile != "":
		f, err := os.Open(*useconffile)
		if err != nil {
			panic(err)
		}
		if _, err := cfg.ReadFrom(f); err != nil {
			panic(err)
		}
		_ = f.Close()

	case *genconf:
		var bs []byte
		if *confjson {
			bs, err = json.MarshalIndent(cfg, "", "  ")
		} else {
			bs, err = hjson.Marshal(cfg)
		}
		if err != nil {
			panic(err)
		}
		fmt.Println(string(bs))
		return

	default:
		// No configuration given. Run with the built-in defaults, which
		// brings up the placeholder page unless -wwwroot says otherwise.
	}

	if *normaliseconf {
		var bs []byte
		if *confjson {
			bs, err = json.MarshalIndent(cfg, "", "  ")
		} else {
			bs, err = hjson.Marshal(cfg)
		}
		if err != nil {
			panic(err)
		}
		fmt.Println(string(bs))
		return
	}

	if *wwwroot != "" {
		cfg.WWWRoot = *wwwroot
	}
	if *startroute != "" {
		cfg.StartRoute = *startroute
	}
	if *devtools {
		cfg.EnableDevTools = true
	}

	a := &app{}

	// Set up the application window.
	{
		if a.shell, err = shell.New(cfg, engine.NewNative(), logger); err != nil {
			panic(err)
		}
	}

	// Set up the admin socket.
	{
		options := []admin.SetupOption{
			admin.ListenAddress(cfg.AdminListen),
		}
		if a.admin, err = admin.New(a.shell.Manager(), logger, options...); err != nil {
			panic(err)
		}
		if a.admin != nil {
			a.admin.SetupAdminHandlers()
			a.shell.SetupAdminHandlers(a.admin)
			if err = a.admin.Start(); err != nil {
				panic(err)
			}
		}
	}

	// The native window loop has to own the main goroutine. It returns
	// when the window closes or ctx is cancelled.
	if err = a.shell.Run(ctx); err != nil {
		logger.Errorln("Window error:", err)
	}

	// Shut down the application.
	_ = a.admin.Stop()
}

func setLogLevel(loglevel string, logger *log.Logger) {
	levels := [...]string{"error", "warn", "info", "debug", "trace"}
	loglevel = strings.ToLower(loglevel)

	contains := func() bool {
		for _, l := range levels {
			if l == loglevel {
				return true
			}
		}
		return false
	}

	if !contains() { // set default log level
		logger.Infoln("Loglevel parse failed. Set default level(info)")
		loglevel = "info"
	}

	for _, l := range levels {
		logger.EnableLevel(l)
		if l == loglevel {
			break
		}
	}
}
