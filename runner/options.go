package runner

import "github.com/raumania/storefront"

// Options are the command line options. Client options can also come from the
// YAML file at ConfigURL; flags win over the file.
type Options struct {
	storefront.ClientOptions `yaml:",inline"`

	ConfigURL  string `short:"c" long:"config" description:"YAML client config URL"`
	EnvFile    string `short:"e" long:"env" description:".env file with STOREFRONT_* variables, ./.env when present"`
	Method     string `short:"X" long:"method" description:"HTTP method" default:"GET"`
	Data       string `short:"d" long:"data" description:"request body"`
	Identifier string `short:"l" long:"login" description:"username or email to log in with"`
	Password   string `short:"p" long:"password" description:"password to log in with"`
	LogLevel   string `short:"v" long:"log-level" description:"log level" default:"warn"`
	LogFormat  string `long:"log-format" description:"log format" choice:"console" choice:"json" default:"console"`

	Args struct {
		Path string `positional-arg-name:"path" description:"API path, e.g. /api/product/search"`
	} `positional-args:"yes"`
}
