package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the configuration flags contained in args.
//
// Flags:
//
//	-a local API address in format [host]:[port]
//	-c/-config json file path with configs
//	-mode remote store mode (http or postgres)
//	-remote-url hosted service base URL
//	-api-key hosted service public key
//	-service-key hosted service admin key
//	-remote-timeout outbound request timeout (e.g., "10s"); 0 disables it
//	-d PostgreSQL DSN
//	-f blob directory (postgres mode)
//	-token-sign-key token signing key (postgres mode)
//	-mirror local mirror SQLite DSN
//	-launch-url navigation URL the portal was opened with
//	-log-file log file path
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("portal", flag.ContinueOnError)

	var serverAddress NetAddress
	var jsonConfigPath string
	var mode, remoteURL, apiKey, serviceKey string
	var remoteTimeout time.Duration
	var databaseDSN, filesDir, tokenSignKey string
	var mirrorDSN string
	var launchURL, logFile string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&mode, "mode", "", "Remote store mode: http or postgres")
	fs.StringVar(&remoteURL, "remote-url", "", "Hosted service base URL")
	fs.StringVar(&apiKey, "api-key", "", "Hosted service public key")
	fs.StringVar(&serviceKey, "service-key", "", "Hosted service admin key")
	fs.DurationVar(&remoteTimeout, "remote-timeout", 0, "Outbound request timeout (e.g., 10s)")
	fs.StringVar(&databaseDSN, "d", "", "PostgreSQL DSN")
	fs.StringVar(&filesDir, "f", "", "Blob directory")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&mirrorDSN, "mirror", "", "Local mirror SQLite DSN")
	fs.StringVar(&launchURL, "launch-url", "", "Navigation URL the portal was opened with")
	fs.StringVar(&logFile, "log-file", "", "Log file path")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LaunchURL: launchURL,
			LogFile:   logFile,
		},
		Remote: Remote{
			Mode:           mode,
			URL:            remoteURL,
			APIKey:         apiKey,
			ServiceKey:     serviceKey,
			RequestTimeout: remoteTimeout,
			DSN:            databaseDSN,
			TokenSignKey:   tokenSignKey,
			FilesDir:       filesDir,
		},
		Mirror: Mirror{
			DSN: mirrorDSN,
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
