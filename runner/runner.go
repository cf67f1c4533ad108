package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/viant/afs"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/raumania/storefront"
	"github.com/raumania/storefront/client"
	"github.com/raumania/storefront/client/auth"
	"github.com/raumania/storefront/internal/logging"
)

// Environment variables read after the YAML config and before flags.
const (
	EnvBaseURL    = "STOREFRONT_BASE_URL"
	EnvCookieFile = "STOREFRONT_COOKIE_FILE"
	EnvIdentifier = "STOREFRONT_IDENTIFIER"
	EnvPassword   = "STOREFRONT_PASSWORD"
)

const defaultEnvFile = ".env"

func Run(args []string) error {
	return run(context.Background(), args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	options, err := loadOptions(ctx, args)
	if err != nil {
		return err
	}
	logger, err := logging.New(options.LogLevel, options.LogFormat, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	options.Logger = logger

	cli, err := storefront.NewClient(&options.ClientOptions)
	if err != nil {
		return err
	}
	if options.Identifier != "" {
		user, err := auth.New(cli).Login(ctx, options.Identifier, options.Password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		logger.Info("logged in", zap.String("user", user.Username), zap.String("role", user.Role))
		if options.Args.Path == "" {
			return printJSON(stdout, user)
		}
	}
	if options.Args.Path == "" {
		return errors.New("path is required")
	}
	request := &client.Request{Method: strings.ToUpper(options.Method), Path: options.Args.Path}
	if options.Data != "" {
		request.Body = []byte(options.Data)
		request.Header = http.Header{"Content-Type": {"application/json"}}
	}
	resp, err := cli.Do(ctx, request)
	if err != nil {
		if client.IsSessionExpired(err) {
			return fmt.Errorf("session expired, log in again with --login: %w", err)
		}
		return err
	}
	_, err = fmt.Fprintln(stdout, string(resp.Body))
	return err
}

// loadOptions layers the YAML config, the environment and the flags, in that order.
func loadOptions(ctx context.Context, args []string) (*Options, error) {
	bootstrap := &Options{}
	if _, err := flags.ParseArgs(bootstrap, args); err != nil {
		return nil, err
	}
	if err := loadEnvFile(bootstrap.EnvFile); err != nil {
		return nil, err
	}
	options := &Options{}
	if bootstrap.ConfigURL != "" {
		if err := loadConfig(ctx, bootstrap.ConfigURL, &options.ClientOptions); err != nil {
			return nil, err
		}
	}
	applyEnv(options)
	if _, err := flags.ParseArgs(options, args); err != nil {
		return nil, err
	}
	return options, nil
}

// loadEnvFile loads envFile, or ./.env when present and envFile is empty.
func loadEnvFile(envFile string) error {
	if envFile == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil
		}
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file %v: %w", envFile, err)
	}
	return nil
}

func loadConfig(ctx context.Context, URL string, options *storefront.ClientOptions) error {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	if err = yaml.Unmarshal(data, options); err != nil {
		return fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	return nil
}

func applyEnv(options *Options) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		options.BaseURL = v
	}
	if v := os.Getenv(EnvCookieFile); v != "" {
		options.CookieFile = v
	}
	if v := os.Getenv(EnvIdentifier); v != "" {
		options.Identifier = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		options.Password = v
	}
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
