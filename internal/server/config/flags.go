package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/uptimekeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-t string   HTTPS bind address (e.g., ":3001")
//	-g string   gRPC health bind address
//	-k string   password hashing secret
//	-s string   storage driver: file, memory, postgres, sqlite, s3
//	-f string   data directory for the file driver
//	-d string   database DSN for the postgres and sqlite drivers
//	-b string   S3 bucket name
//	-r string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-u string   S3 root user
//	-p string   S3 root password
//	-m int      maximum checks per user
//	-l string   log level
//
// Notes:
//   - os.Args is filtered down to these flags first with flagx.FilterArgs,
//     so -c/-config and anything unknown are left alone.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-g", "-k", "-s", "-f", "-d", "-b", "-r", "-e", "-u", "-p", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port to run server")
	fs.StringVar(&config.HTTPSAddr, "t", config.HTTPSAddr, "HTTPS address and port to run server")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "gRPC health address")
	fs.StringVar(&config.HashingSecret, "k", config.HashingSecret, "password hashing secret")
	fs.StringVar(&config.StorageDriver, "s", config.StorageDriver, "storage driver")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "data directory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.IntVar(&config.MaxChecks, "m", config.MaxChecks, "maximum checks per user")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
