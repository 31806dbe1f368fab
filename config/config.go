package config

import (
	"flag"
	"fmt"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultQuarters    = 8
	defaultOutput      = "output"
	defaultHTTPTimeout = 30 * time.Second

	// OutputEnv overrides the output directory regardless of config source.
	OutputEnv = "FINRATIO_OUTPUT"
)

var (
	defaultCompanies       = []string{"AAPL", "MSFT", "GOOGL"}
	defaultCurrentRatioMin = decimal.NewFromInt(2)
	defaultDebtToAssetsMax = decimal.New(7, -1)
)

type Config struct {
	Companies       []string
	Quarters        int
	Output          string
	HTTPTimeout     time.Duration
	CurrentRatioMin decimal.Decimal
	DebtToAssetsMax decimal.Decimal
}

// PlotsDir is the directory chart files are written to.
func (c Config) PlotsDir() string {
	return filepath.Join(c.Output, "plots")
}

type ConfigTmp struct {
	Companies          []string `yaml:"companies"`
	Quarters           int      `yaml:"quarters,omitempty"`
	Output             string   `yaml:"output,omitempty"`
	HTTPTimeoutStr     string   `yaml:"http_timeout,omitempty"`
	CurrentRatioMinStr string   `yaml:"current_ratio_min,omitempty"`
	DebtToAssetsMaxStr string   `yaml:"debt_to_assets_max,omitempty"`
}

func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	companiesFlag := flag.String("companies", strings.Join(defaultCompanies, ","),
		"comma-separated ticker symbols, example: AAPL,MSFT,GOOGL")
	quartersFlag := flag.Int("quarters", defaultQuarters, "number of recent quarters to analyze")
	outputFlag := flag.String("output", defaultOutput, "directory for the report and charts")
	timeoutFlag := flag.Duration("httptimeout", defaultHTTPTimeout, "timeout for data source requests")
	currentRatioMinFlag := flag.String("currentratiomin", defaultCurrentRatioMin.String(),
		"current ratio below this value triggers a liquidity warning")
	debtToAssetsMaxFlag := flag.String("debttoassetsmax", defaultDebtToAssetsMax.String(),
		"debt to assets ratio above this value triggers a solvency warning")
	flag.Parse()

	if *configPath != "" {
		cfg, err := getYaml(*configPath)
		if err != nil {
			return Config{}, err
		}
		return finalize(cfg)
	}

	currentRatioMin, err := decimal.NewFromString(*currentRatioMinFlag)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --currentratiomin provided, --currentratiomin=%s", *currentRatioMinFlag)
	}
	debtToAssetsMax, err := decimal.NewFromString(*debtToAssetsMaxFlag)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --debttoassetsmax provided, --debttoassetsmax=%s", *debtToAssetsMaxFlag)
	}

	return finalize(Config{
		Companies:       normalizeCompanies(strings.Split(*companiesFlag, ",")),
		Quarters:        *quartersFlag,
		Output:          *outputFlag,
		HTTPTimeout:     *timeoutFlag,
		CurrentRatioMin: currentRatioMin,
		DebtToAssetsMax: debtToAssetsMax,
	})
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Companies: normalizeCompanies(tmp.Companies),
		Quarters:  tmp.Quarters,
		Output:    tmp.Output,
	}

	if tmp.HTTPTimeoutStr == "" {
		cfg.HTTPTimeout = defaultHTTPTimeout
	} else {
		timeout, err := time.ParseDuration(tmp.HTTPTimeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'http_timeout' param in yaml config (correct format is 30s), error: %w", err)
		}
		cfg.HTTPTimeout = timeout
	}

	if tmp.CurrentRatioMinStr == "" {
		cfg.CurrentRatioMin = defaultCurrentRatioMin
	} else {
		currentRatioMin, err := decimal.NewFromString(tmp.CurrentRatioMinStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'current_ratio_min' param in yaml config (must be a decimal), error: %w", err)
		}
		cfg.CurrentRatioMin = currentRatioMin
	}

	if tmp.DebtToAssetsMaxStr == "" {
		cfg.DebtToAssetsMax = defaultDebtToAssetsMax
	} else {
		debtToAssetsMax, err := decimal.NewFromString(tmp.DebtToAssetsMaxStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'debt_to_assets_max' param in yaml config (must be a decimal), error: %w", err)
		}
		cfg.DebtToAssetsMax = debtToAssetsMax
	}

	return cfg, nil
}

// finalize applies the environment override, fills remaining defaults and
// validates the result.
func finalize(cfg Config) (Config, error) {
	if output := os.Getenv(OutputEnv); output != "" {
		cfg.Output = output
	}

	if len(cfg.Companies) == 0 {
		cfg.Companies = append([]string(nil), defaultCompanies...)
	}
	if cfg.Quarters == 0 {
		cfg.Quarters = defaultQuarters
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}

	if cfg.Quarters < 1 {
		return Config{}, fmt.Errorf("invalid 'quarters' param: %d, must be at least 1", cfg.Quarters)
	}
	if !cfg.CurrentRatioMin.IsPositive() {
		return Config{}, fmt.Errorf("invalid 'current_ratio_min' param: %s, must be positive", cfg.CurrentRatioMin.String())
	}
	if !cfg.DebtToAssetsMax.IsPositive() {
		return Config{}, fmt.Errorf("invalid 'debt_to_assets_max' param: %s, must be positive", cfg.DebtToAssetsMax.String())
	}

	return cfg, nil
}

func normalizeCompanies(raw []string) []string {
	companies := make([]string, 0, len(raw))
	for _, symbol := range raw {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		companies = append(companies, symbol)
	}
	return companies
}
