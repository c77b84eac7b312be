package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"tallyboard/internal/parser"
)

// AppConfig 应用配置
type AppConfig struct {
	Server     ServerConfig           `toml:"server"`
	Data       DataConfig             `toml:"data"`
	Upload     UploadConfig           `toml:"upload"`
	Candidates parser.CandidateTables `toml:"candidates"` // 追加到默认候选列名表之后
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// UploadConfig 上传配置
type UploadConfig struct {
	MaxFileMB           int     `toml:"max_file_mb"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// MaxFileBytes 上传大小上限（字节）
func (u UploadConfig) MaxFileBytes() int64 {
	return int64(u.MaxFileMB) << 20
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Upload: UploadConfig{
			MaxFileMB:           26,
			ConfidenceThreshold: parser.DefaultConfidenceThreshold,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// ConfigPath 默认配置文件路径（可执行文件同目录下的 config.toml）
func ConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFile(ConfigPath())
}

// LoadFile 从指定路径加载配置；文件不存在时使用默认配置。环境变量优先于文件
func LoadFile(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	// 环境变量覆盖（用于容器 / 本地运行）
	if v := os.Getenv("TALLYBOARD_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("TALLYBOARD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			config.Server.Port = p
			info.PortSpecified = true
		}
	}

	config.normalize()
	return config, info, nil
}

// normalize 非法取值回退为默认值
func (c *AppConfig) normalize() {
	def := DefaultConfig()
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.Server.Port = def.Server.Port
	}
	if c.Data.DataDir == "" {
		c.Data.DataDir = def.Data.DataDir
	}
	if c.Upload.MaxFileMB <= 0 {
		c.Upload.MaxFileMB = def.Upload.MaxFileMB
	}
	if c.Upload.ConfidenceThreshold <= 0 || c.Upload.ConfidenceThreshold > 1 {
		c.Upload.ConfidenceThreshold = def.Upload.ConfidenceThreshold
	}
}

// EnsureDataDir 确保数据目录存在
// 相对路径相对于可执行文件所在目录
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DatabasePath 数据库文件路径
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, "tallyboard.db")
}
