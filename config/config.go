package config

import (
	"os"

	"github.com/spf13/cast"
)

type SysConfig struct {
	Location string `json:"location"`
	Workdir  string `json:"workdir"`
	Debug    bool   `json:"debug"`
}

type WebConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	JwtSecret string `json:"jwt_secret"`
}

// DBConfig describes the administrative database server connection.
// Name is the system schema holding config, users and reference data.
type DBConfig struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Passwd   string `json:"passwd"`
	Name     string `json:"name"`
	MaxConn  int    `json:"max_conn"`
	IdleConn int    `json:"idle_conn"`
}

type LogConfig struct {
	Mode       string `json:"mode"`
	FileEnable bool   `json:"file_enable"`
	Filename   string `json:"filename"`
}

type AppConfig struct {
	System   SysConfig `json:"system"`
	Web      WebConfig `json:"web"`
	Database DBConfig  `json:"database"`
	Logger   LogConfig `json:"logger"`
}

func envString(name, defval string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return defval
}

func envInt(name string, defval int) int {
	if v := os.Getenv(name); v != "" {
		return cast.ToInt(v)
	}
	return defval
}

func envBool(name string, defval bool) bool {
	if v := os.Getenv(name); v != "" {
		return cast.ToBool(v)
	}
	return defval
}

// LoadConfig builds the application configuration from the environment,
// falling back to development defaults.
func LoadConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Location: envString("ZYTBOOKS_LOCATION", "Asia/Shanghai"),
			Workdir:  envString("ZYTBOOKS_WORKDIR", "/var/zytbooks"),
			Debug:    envBool("ZYTBOOKS_DEBUG", false),
		},
		Web: WebConfig{
			Host:      envString("ZYTBOOKS_WEB_HOST", "0.0.0.0"),
			Port:      envInt("ZYTBOOKS_WEB_PORT", 3000),
			JwtSecret: envString("ZYTBOOKS_WEB_JWT_SECRET", "9b6de5cc-0001-4d6b-a2f1-ce2f4bd8f3e8"),
		},
		Database: DBConfig{
			Type:     envString("ZYTBOOKS_DB_TYPE", "mysql"),
			Host:     envString("ZYTBOOKS_DB_HOST", "127.0.0.1"),
			Port:     envInt("ZYTBOOKS_DB_PORT", 3306),
			User:     envString("ZYTBOOKS_DB_USER", "root"),
			Passwd:   envString("ZYTBOOKS_DB_PWD", ""),
			Name:     envString("ZYTBOOKS_DB_NAME", "zyt_sys"),
			MaxConn:  envInt("ZYTBOOKS_DB_MAX_CONN", 100),
			IdleConn: envInt("ZYTBOOKS_DB_IDLE_CONN", 10),
		},
		Logger: LogConfig{
			Mode:       envString("ZYTBOOKS_LOGGER_MODE", "development"),
			FileEnable: envBool("ZYTBOOKS_LOGGER_FILE_ENABLE", false),
			Filename:   envString("ZYTBOOKS_LOGGER_FILENAME", "/var/zytbooks/zytbooks.log"),
		},
	}
}
