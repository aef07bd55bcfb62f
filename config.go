package authapi

import (
	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// EnvConfig is the process configuration, parsed from the environment. The
// signing key and validity window are always supplied externally; there are
// no baked-in defaults for secrets.
type EnvConfig struct {
	SigningKey    string   `env:"AUTH_SIGNING_KEY"`
	TokenValidity int      `env:"AUTH_TOKEN_VALIDITY_SECONDS" envDefault:"3600"`
	Issuer        string   `env:"AUTH_ISSUER" envDefault:"go-authapi"`
	Audience      []string `env:"AUTH_AUDIENCE" envSeparator:","`
	BcryptCost    int      `env:"AUTH_BCRYPT_COST" envDefault:"14"`
	DatabaseDSN   string   `env:"AUTH_DATABASE_DSN" envDefault:"file:authapi.db?cache=shared&_fk=1"`
	ListenAddr    string   `env:"AUTH_LISTEN_ADDR" envDefault:":8080"`
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig parses the environment and validates the parts that are fatal
// when missing. A missing signing key aborts startup; it is never defaulted.
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to parse environment")
	}

	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}

	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string { return c.SigningKey }
func (c *EnvConfig) GetTokenValidity() int { return c.TokenValidity }
func (c *EnvConfig) GetIssuer() string     { return c.Issuer }
func (c *EnvConfig) GetAudience() []string { return c.Audience }
func (c *EnvConfig) GetBcryptCost() int    { return c.BcryptCost }

func (c *EnvConfig) GetDatabaseDSN() string { return c.DatabaseDSN }
func (c *EnvConfig) GetListenAddr() string  { return c.ListenAddr }
