package config

import (
	"errors"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	validator "gopkg.in/go-playground/validator.v9"
)

var ErrConfigNotFound = errors.New("irgsh-report configuration file not found")

type ReportConfig struct {
	Client ClientConfig `json:"client"`
	Sink   SinkConfig   `json:"sink"`
	IsDev  bool         `json:"is_dev"`
	Path   string       `json:"-"` // file the configuration was loaded from
}

type ClientConfig struct {
	Endpoint    string `json:"endpoint" validate:"required,url"` // https://irgsh.blankonlinux.or.id
	BuildFlavor string `json:"build_flavor"`                     // overrides the compiled-in flavor
	VersionName string `json:"version_name"`                     // overrides the compiled-in version
	HistoryDB   string `json:"history_db"`                       // /var/lib/irgsh/report/history.db
	MaxHistory  int    `json:"max_history" validate:"gte=0"`
	LogFile     string `json:"log_file"`
	LogLines    int    `json:"log_lines" validate:"gte=0"`
}

type SinkConfig struct {
	Address             string `json:"address" validate:"required"` // :8085
	DBPath              string `json:"db_path" validate:"required"` // /var/lib/irgsh/report/reports.db
	MaxReports          int    `json:"max_reports" validate:"gte=0"`
	Redis               string `json:"redis" validate:"omitempty,url"` // redis://localhost:6379/0
	DedupeWindowSeconds int    `json:"dedupe_window_seconds" validate:"gte=0"`
	WebhookURL          string `json:"webhook_url" validate:"omitempty,url"`
}

func (c ClientConfig) Validate() error {
	return validator.New().Struct(c)
}

func (c SinkConfig) Validate() error {
	return validator.New().Struct(c)
}

// LoadConfig load irgsh-report config from file
func LoadConfig() (config ReportConfig, err error) {
	configPaths := []string{
		"/etc/irgsh/report.yml",
		"../../utils/report.yml",
		"./utils/report.yml",
	}
	isDev := os.Getenv("DEV") == "1"

	var yamlFile []byte
	var path string
	if isDev {
		path = "./utils/report.yml"
		yamlFile, err = os.ReadFile(path)
		if err != nil {
			return
		}
	} else {
		path, yamlFile, err = readFirst(os.Getenv("IRGSH_REPORT_CONFIG_PATH"), configPaths)
		if err != nil {
			return
		}
	}

	config, err = parseConfig(yamlFile)
	if err != nil {
		return
	}

	if isDev {
		// Since it's in dev env, let's move some path to ./tmp
		cwd, _ := os.Getwd()
		tmpDir := cwd + "/tmp/"
		if _, err := os.Stat(tmpDir); os.IsNotExist(err) {
			os.Mkdir(tmpDir, 0755)
		}
		config.Client.HistoryDB = strings.ReplaceAll(config.Client.HistoryDB, "/var/lib/", tmpDir)
		config.Sink.DBPath = strings.ReplaceAll(config.Sink.DBPath, "/var/lib/", tmpDir)
	}
	config.IsDev = isDev
	config.Path = path

	return
}

func readFirst(explicitPath string, fallbacks []string) (string, []byte, error) {
	if explicitPath != "" {
		yamlFile, err := os.ReadFile(explicitPath)
		return explicitPath, yamlFile, err
	}
	for _, path := range fallbacks {
		yamlFile, err := os.ReadFile(path)
		if err == nil {
			return path, yamlFile, nil
		}
	}
	return "", nil, ErrConfigNotFound
}

func parseConfig(yamlFile []byte) (config ReportConfig, err error) {
	err = yaml.Unmarshal(yamlFile, &config)
	if err != nil {
		return
	}

	if endpoint := os.Getenv("IRGSH_REPORT_ENDPOINT"); endpoint != "" {
		config.Client.Endpoint = endpoint
	}
	if config.Client.MaxHistory == 0 {
		config.Client.MaxHistory = 200
	}
	if config.Client.LogLines == 0 {
		config.Client.LogLines = 500
	}
	if config.Sink.MaxReports == 0 {
		config.Sink.MaxReports = 1000
	}
	if config.Sink.DedupeWindowSeconds == 0 {
		config.Sink.DedupeWindowSeconds = 600
	}
	return
}
