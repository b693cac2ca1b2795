package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hanabi-table/internal/engine"
	"github.com/DoyleJ11/hanabi-table/internal/session"
)

var (
	ErrInvalidPlayer   = errors.New("player id must be 0 or 1")
	ErrInvalidDuration = errors.New("durations must be positive")
	ErrSendTooEarly    = errors.New("send delay must not be shorter than the animation")
	ErrInvalidURL      = errors.New("server url must be ws:// or wss://")
)

const releaseVersion = "0.3.0"

type Config struct {
	ServerURL         string
	PlayerID          int
	AnimationDuration time.Duration
	SendDelay         time.Duration
	Listen            string // empty disables the render surface
	Terminal          bool
	ResultsDSN        string // empty disables the results store
	SkipEcho          bool
	Verbose           bool
}

func Default() Config {
	sc := session.DefaultConfig()
	return Config{
		ServerURL:         "ws://localhost:8000/ws",
		PlayerID:          int(sc.Self),
		AnimationDuration: sc.AnimationDuration,
		SendDelay:         sc.SendDelay,
		Listen:            ":8080",
		Terminal:          true,
	}
}

func (c Config) Validate() error {
	if !engine.PlayerID(c.PlayerID).Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, c.PlayerID)
	}
	if c.AnimationDuration <= 0 || c.SendDelay <= 0 {
		return ErrInvalidDuration
	}
	if c.SendDelay < c.AnimationDuration {
		return fmt.Errorf("%w: %s < %s", ErrSendTooEarly, c.SendDelay, c.AnimationDuration)
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, c.ServerURL)
	}
	return nil
}

func (c Config) Session() session.Config {
	return session.Config{
		Self:              engine.PlayerID(c.PlayerID),
		AnimationDuration: c.AnimationDuration,
		SendDelay:         c.SendDelay,
		SkipEcho:          c.SkipEcho,
	}
}

// LoadDotEnv reads .env style files into the environment. Missing files are
// not an error.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func NewLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

// NewCommand builds the root command. Flags win over HANABI_* environment
// variables, which win over defaults.
func NewCommand(cfg *Config, run func(ctx context.Context, cfg Config) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HANABI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := Default()

	cmd := &cobra.Command{
		Use:     "hanabi-table",
		Short:   "Plays one seat of a two player Hanabi game against a websocket server.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), *cfg)
		},
	}

	flags := cmd.Flags()

	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	flags.StringVarP(&cfg.ServerURL, "server", "s", def.ServerURL, "game server websocket url (env: HANABI_SERVER)")
	flags.IntVarP(&cfg.PlayerID, "player", "p", def.PlayerID, "local seat, 0 or 1 (env: HANABI_PLAYER)")
	flags.DurationVar(&cfg.AnimationDuration, "animation", def.AnimationDuration, "how long each animation plays (env: HANABI_ANIMATION)")
	flags.DurationVar(&cfg.SendDelay, "send-delay", def.SendDelay, "delay between selecting and sending an action (env: HANABI_SEND_DELAY)")
	flags.StringVarP(&cfg.Listen, "listen", "l", def.Listen, "render surface address, empty to disable (env: HANABI_LISTEN)")
	flags.BoolVar(&cfg.Terminal, "terminal", def.Terminal, "draw the table in this terminal (env: HANABI_TERMINAL)")
	flags.StringVar(&cfg.ResultsDSN, "results-dsn", def.ResultsDSN, "postgres dsn for finished games, empty to disable (env: HANABI_RESULTS_DSN)")
	flags.BoolVar(&cfg.SkipEcho, "skip-echo", def.SkipEcho, "do not animate the server echo of our own action (env: HANABI_SKIP_ECHO)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", def.Verbose, "debug logging (env: HANABI_VERBOSE)")

	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = flags.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("hanabi-table v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
