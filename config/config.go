package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Simulation defaults, used when a request or flag does not override them
	Simulation struct {
		// Purchase price of the reference house (R$)
		Price float64 `env:"SIM_PRICE" envDefault:"500000"`

		// Initial monthly rent (R$)
		Rent float64 `env:"SIM_RENT" envDefault:"2000"`

		// Fraction of the price paid upfront
		DownPayment float64 `env:"SIM_DOWN_PAYMENT" envDefault:"0.30"`

		// Nominal annual financing rate
		FinancingRate float64 `env:"SIM_FINANCING_RATE" envDefault:"0.10"`

		// Extra principal paid each month, as a fraction of the installment
		ExtraAmortization float64 `env:"SIM_EXTRA_AMORTIZATION" envDefault:"0.5"`

		// Optional YAML file with an alternative rate scenario, or "ciclos"
		RatesFile string `env:"SIM_RATES_FILE"`
	}

	Scraping struct {
		Neighborhood string `env:"SCRAPE_NEIGHBORHOOD" envDefault:"Bom Pastor"`

		// Per-request timeout in seconds
		Timeout int `env:"SCRAPE_TIMEOUT" envDefault:"15"`

		// Attempts per request, including the first one
		MaxAttempts int `env:"SCRAPE_MAX_ATTEMPTS" envDefault:"2"`

		// Delay before the first retry in milliseconds, doubled on each retry
		RetryDelay int `env:"SCRAPE_RETRY_DELAY_MS" envDefault:"500"`

		UserAgent string `env:"SCRAPE_USER_AGENT" envDefault:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"`

		// Several listing sites serve broken certificate chains
		InsecureTLS bool `env:"SCRAPE_INSECURE_TLS" envDefault:"true"`
	}

	Publish struct {
		// Directory receiving data/YYYY-MM-DD.json, latest.json and history.json
		DocsDir string `env:"DOCS_DIR"`
	}

	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		AllowedOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

		// Hour of day (local time) for the scheduled collect and publish run, -1 disables it
		ScheduleHour int `env:"SCHEDULE_HOUR" envDefault:"6"`

		// Run the job once when the server starts
		RunOnStartup bool `env:"RUN_ON_STARTUP" envDefault:"false"`
	}

	Telegram struct {
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
	}
}

// LoadConfig reads an optional .env file and then parses the environment.
func LoadConfig(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
