// Command token signs a bearer token for the write endpoints. It uses the
// same ACCESS_SECRET as the API, so it only works where the API's
// configuration is available.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vaughan-dsouza/myapp/internal/config"
	"github.com/vaughan-dsouza/myapp/internal/utils"
)

type tokenResp struct {
	AccessToken string `json:"access_token"`
	Subject     string `json:"subject"`
	ExpiresAt   int64  `json:"expires_at"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logrus.Fatalf("token: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.LoadToken()
	if err != nil {
		return err
	}

	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	subject := fs.StringP("subject", "s", "operator", "who the token is issued to")
	ttl := fs.String("ttl", cfg.AccessTTL, `lifetime such as "15m", "2h" or "30" (minutes)`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, exp, err := utils.GenerateToken(*subject, cfg.AccessSecret, *ttl)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"subject":    *subject,
		"expires_at": time.Unix(exp, 0).UTC().Format(time.RFC3339),
	}).Info("token issued")

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenResp{AccessToken: token, Subject: *subject, ExpiresAt: exp})
}
