// Command token issues an API token for the pivot endpoints.
//
//	JWT_SECRET=... token -subject dashboard -ttl 720h
//	JWT_SECRET=... token -verify <token>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	jwtmw "pivot_backend/internal/platform/jwt"
)

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

func run(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	_ = godotenv.Load(".env")

	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	subject := fs.String("subject", "", "token subject (client name)")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token lifetime")
	verify := fs.String("verify", "", "verify a token and print its subject and expiry")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	secret := getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		fmt.Fprintf(stderr, "%s is not set\n", jwtmw.EnvKeyJWTSecret)
		return 1
	}

	if *verify != "" {
		claims, err := jwtmw.Verify(secret, *verify)
		if err != nil {
			fmt.Fprintln(stderr, "invalid token:", err)
			return 1
		}
		fmt.Fprintf(stdout, "subject=%s expires=%s\n", claims.Subject, claims.ExpiresAt.UTC().Format(time.RFC3339))
		return 0
	}

	token, err := jwtmw.NewGenerator(secret, *ttl).GenerateToken(*subject)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, token)
	return 0
}
