package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-k string   vault encryption key secret
//	-priv string  path to the Ed25519 private key PEM
//	-pub string   path to the Ed25519 public key PEM
//	-t int      access token validity, minutes
//	-r string   Redis address
//	-w string   Redis password
//	-n int      Redis database number
//	-l float    rate limit, requests per second
//	-b int      rate limit burst
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-a", "-d", "-k", "-priv", "-pub", "-t", "-r", "-w", "-n", "-l", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "vault encryption key secret")
	fs.StringVar(&config.PrivateKeyPath, "priv", config.PrivateKeyPath, "token signing private key path")
	fs.StringVar(&config.PublicKeyPath, "pub", config.PublicKeyPath, "token verification public key path")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "w", config.RedisPassword, "redis password")
	fs.IntVar(&config.RedisDB, "n", config.RedisDB, "redis database number")
	fs.Float64Var(&config.RateLimitRPS, "l", config.RateLimitRPS, "rate limit, requests per second")
	fs.IntVar(&config.RateLimitBurst, "b", config.RateLimitBurst, "rate limit burst")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
