package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Paintersrp/mixsearch/internal/api"
	"github.com/Paintersrp/mixsearch/internal/config"
	"github.com/Paintersrp/mixsearch/internal/constants"
	"github.com/Paintersrp/mixsearch/internal/logger"
	"github.com/Paintersrp/mixsearch/internal/lookup"
	"github.com/Paintersrp/mixsearch/internal/metrics"
	"github.com/Paintersrp/mixsearch/internal/search"
	"github.com/Paintersrp/mixsearch/internal/store"
)

type State struct {
	Config     *config.Config
	Home       string
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Store      *store.Store
	API        *api.Client
	Aggregator *search.Aggregator
	Session    *search.Session
	Lookup     *lookup.Lookup
	RootStatus *RootStatus
}

// RootStatus is the footer line shared by the screens.
type RootStatus struct {
	mu   sync.RWMutex
	line string
}

func (r *RootStatus) Set(line string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.line = line
	r.mu.Unlock()
}

func (r *RootStatus) Value() string {
	if r == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.line
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(); err != nil {
		return nil, err
	}

	return NewStateFromConfig(context.Background(), home, cfg)
}

// New returns a State that has not opened its store yet.
func New(home string, cfg *config.Config) *State {
	return &State{Home: home, Config: cfg, RootStatus: &RootStatus{}}
}

// NewStateFromConfig opens the store and builds the search pipeline for cfg.
func NewStateFromConfig(ctx context.Context, home string, cfg *config.Config) (*State, error) {
	s := New(home, cfg)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Open creates the logger and metrics, opens the store and wires the search
// session and number lookup. Opening an open State is a no-op.
func (s *State) Open(ctx context.Context) error {
	if s.Store != nil {
		return nil
	}
	cfg := s.Config
	if cfg == nil {
		return errors.New("state has no config")
	}

	log, err := logger.NewWithConfig(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		Path:        cfg.Log.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		_ = log.Sync()
		return err
	}

	m := metrics.New()
	client := api.NewClient(api.Config{
		BaseURL:       cfg.API.BaseURL,
		UserID:        cfg.API.UserID,
		SessionID:     cfg.API.SessionID,
		SessionSecret: cfg.API.SessionSecret,
		Timeout:       cfg.API.Timeout,
		RatePerSecond: cfg.API.RatePerSecond,
	}, log)

	agg := search.NewAggregator(db, db, db, search.Options{
		ResultLimit:   cfg.Search.ResultLimit,
		CategoryLimit: cfg.Search.CategoryLimit,
		Logger:        log,
		Metrics:       m,
	})

	s.Logger = log
	s.Metrics = m
	s.Store = db
	s.API = client
	s.Aggregator = agg
	s.Session = search.NewSession(agg, log, m)
	s.Lookup = lookup.New(client, db, lookup.Options{
		CacheSize: cfg.API.CacheSize,
		CacheTTL:  cfg.API.CacheTTL,
		Logger:    log,
		Metrics:   m,
	})
	if s.RootStatus == nil {
		s.RootStatus = &RootStatus{}
	}

	log.Info("state ready",
		zap.String("database", cfg.Database),
		zap.String("region", cfg.Search.PhoneRegion),
	)
	return nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

// LoadConfig reads the config file through viper, creating it when absent.
// Missing API credentials only disable the number lookup, so that error is
// logged by the caller rather than returned.
func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.SetEnvPrefix(constants.AppName)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	err := config.EnsureConfigExists(home)
	var initErr *config.ConfigInitError
	if err != nil && !errors.As(err, &initErr) {
		return nil, err
	}

	return config.Load(home)
}

// Region is the phone region used to gate number lookups.
func (s *State) Region() string {
	if s == nil || s.Config == nil {
		return constants.DefaultPhoneRegion
	}
	return s.Config.Search.PhoneRegion
}

// Close releases the store and flushes the logger.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Session != nil {
		s.Session.Reset()
	}
	if s.Lookup != nil {
		s.Lookup.Cancel()
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Store = nil
	}
	if s.Logger != nil {
		// Syncing a file-less logger returns EINVAL on some platforms.
		_ = s.Logger.Sync()
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
