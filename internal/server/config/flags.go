package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-q string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-t int      session TTL, minutes
//	-k int      bcrypt cost
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-w string   public base URL of uploaded assets
//	-r string   Redis address for the login limiter
//	-m int      failed login attempts before lockout
//	-l int      login lockout window, seconds
//	-z int      largest accepted HTTP request body, bytes
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-q", "-d", "-t", "-k", "-u", "-p", "-b", "-g", "-e", "-w", "-r", "-m", "-l", "-z"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "q", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session TTL (in minutes)")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicBaseURL, "w", config.S3PublicBaseURL, "public base URL of assets")

	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")
	fs.IntVar(&config.LoginMaxAttempts, "m", config.LoginMaxAttempts, "failed login attempts before lockout")
	loginCooldown := fs.Int("l", int(config.LoginCooldown.Seconds()), "login lockout window (in seconds)")
	fs.Int64Var(&config.MaxBodyBytes, "z", config.MaxBodyBytes, "largest HTTP request body (in bytes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
	config.LoginCooldown = time.Duration(*loginCooldown) * time.Second
}
