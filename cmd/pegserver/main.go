/*
Pegserver starts the grammar registry's HTTP server and begins listening
for requests.

Usage:

	pegserver [flags]

Once started, the server listens for HTTP requests and answers them over
the registry API: registering and fetching named grammars, and parsing
input against a registered one. By default it listens on
localhost:8080; this can be changed with -l/--listen or the config file's
addr key.

The flags are:

	-v, --version
		Give the current version of pegserver and then exit.

	-c, --config FILE
		Read server configuration from FILE, a TOML document with addr,
		data_dir, jwt_secret, admin_password, and grammar_manifest keys
		(see server.Config). Required.

	-l, --listen LISTEN_ADDRESS
		Override the config file's addr with LISTEN_ADDRESS.

If jwt_secret is left empty in the config, a random secret is generated
at startup and a warning is logged: every token issued becomes invalid
the moment the server restarts. If admin_password is left empty, the
registry falls back to a well-known default and logs a warning; this is
suitable only for local experimentation.
*/
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dekarrin/pegboot/internal/version"
	"github.com/dekarrin/pegboot/server"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitParseError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of pegserver and then exit")
	flagConfig  = pflag.StringP("config", "c", "", "Read server configuration from the given TOML file")
	flagListen  = pflag.StringP("listen", "l", "", "Override the config file's listen address")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (pegboot v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if *flagConfig == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -c/--config is required")
		returnCode = ExitInitError
		return
	}

	cfg, err := server.LoadConfig(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	if *flagListen != "" {
		cfg.Addr = *flagListen
	}
	if cfg.JWTSecret == "" {
		log.Printf("WARN  no jwt_secret configured; generating one, all tokens will be invalid after restart")
	}
	if cfg.AdminPassword == "" {
		log.Printf("WARN  no admin_password configured; falling back to the default credential")
	}

	srv, err := server.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not start server: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer srv.Close()

	log.Printf("INFO  Server initialized")
	log.Printf("INFO  Starting pegserver %s...", version.ServerCurrent)
	if err := srv.ServeForever(cfg.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
	}
}
