package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/finratio/config"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

const generatedConfigFile = "config.gen.yaml"

// RunTUI launches the terminal configuration wizard and writes the
// resulting YAML config file.
func RunTUI() error {
	var (
		companiesStr       string
		quartersStr        string
		output             string
		httpTimeoutStr     string
		currentRatioMinStr string
		debtToAssetsMaxStr string
		confirm            bool
	)

	// defaults
	companiesStr = "AAPL,MSFT,GOOGL"
	quartersStr = "8"
	output = "output"
	httpTimeoutStr = "30s"
	currentRatioMinStr = "2"
	debtToAssetsMaxStr = "0.7"

	// step 1: companies
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("FINRATIO CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's set up your balance sheet analysis.\n"))

	fmt.Println(stepStyle.Render("STEP 1: COMPANIES"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Ticker Symbols").
				Description("Comma-separated (e.g. AAPL,MSFT,GOOGL)").
				Value(&companiesStr).
				Validate(validateCompanies),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 2: history depth
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FINRATIO CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: HISTORY"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Quarters").
				Description("Number of recent quarters to analyze (e.g. 8)").
				Value(&quartersStr).
				Validate(validateQuarters),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 3: output
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FINRATIO CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: OUTPUT"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output Directory").
				Description("Report and charts are written here").
				Value(&output).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("output directory cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("HTTP Timeout").
				Description("Duration string for data source requests (e.g. 30s, 1m)").
				Value(&httpTimeoutStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 4: recommendation thresholds
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FINRATIO CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: THRESHOLDS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current Ratio Minimum").
				Description("Values below trigger a liquidity warning (e.g. 2)").
				Value(&currentRatioMinStr).
				Validate(validateThreshold),
			huh.NewInput().
				Title("Debt to Assets Maximum").
				Description("Values above trigger a solvency warning (e.g. 0.7)").
				Value(&debtToAssetsMaxStr).
				Validate(validateThreshold),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FINRATIO CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Companies: %s\nQuarters: %s\nOutput: %s\nHTTP Timeout: %s\nCurrent Ratio Min: %s\nDebt to Assets Max: %s\n",
		companiesStr, quartersStr, output, httpTimeoutStr, currentRatioMinStr, debtToAssetsMaxStr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	quarters, _ := strconv.Atoi(quartersStr)

	cfgTmp := config.ConfigTmp{
		Companies:          splitCompanies(companiesStr),
		Quarters:           quarters,
		Output:             output,
		HTTPTimeoutStr:     httpTimeoutStr,
		CurrentRatioMinStr: currentRatioMinStr,
		DebtToAssetsMaxStr: debtToAssetsMaxStr,
	}

	data, err := yaml.Marshal(cfgTmp)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	if err := os.WriteFile(generatedConfigFile, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(
		fmt.Sprintf("\n✓ Configuration saved to %s\nRun: finratio -config %s", generatedConfigFile, generatedConfigFile)))
	return nil
}

func validateCompanies(s string) error {
	if len(splitCompanies(s)) == 0 {
		return fmt.Errorf("at least one ticker symbol is required")
	}
	return nil
}

func validateQuarters(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be an integer")
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func validateThreshold(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func splitCompanies(s string) []string {
	var companies []string
	for _, symbol := range strings.Split(s, ",") {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		companies = append(companies, symbol)
	}
	return companies
}
