package config

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
)

// platformEnv maps keys to the variables the platform sets for every activation.
var platformEnv = map[string]string{
	KeyActivationID: "__OW_ACTIVATION_ID",
	KeyAPIHost:      "__OW_API_HOST",
	KeyAPIKey:       "__OW_API_KEY",
}

// EnvName returns the environment variable read for key.
func EnvName(key string) string {
	if name, ok := platformEnv[key]; ok {
		return name
	}
	return EnvPrefix + "_" + strings.ToUpper(key)
}

func load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "load config canceled")
	}

	v := viper.New()
	setDefaults(v, Default())

	if err := readConfigFile(v, opts); err != nil {
		return nil, err
	}

	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key, EnvName(key)); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to bind environment")
		}
	}

	dotenv, err := readEnvFiles(opts.EnvFiles)
	if err != nil {
		return nil, err
	}
	for _, key := range v.AllKeys() {
		name := EnvName(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if value, ok := dotenv[name]; ok {
			v.Set(key, value)
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse config")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault(KeyPreinstalledRoot, d.PreinstalledRoot)
	v.SetDefault(KeyScratchRoot, d.ScratchRoot)
	v.SetDefault(KeyWskdeployBin, d.WskdeployBin)
	v.SetDefault(KeyListenAddr, d.ListenAddr)
	v.SetDefault(KeyRedisAddr, d.RedisAddr)
	v.SetDefault(KeyLockTTL, d.LockTTL)
	v.SetDefault(KeyGitToken, d.GitToken)
	v.SetDefault(KeyGitTokenHosts, d.GitTokenHosts)
	v.SetDefault(KeyGitTokenSecret, d.GitTokenSecret)
	v.SetDefault(KeyAPIKeySecret, d.APIKeySecret)
	v.SetDefault(KeyAWSRegion, d.AWSRegion)
	v.SetDefault(KeyAWSEndpoint, d.AWSEndpoint)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyActivationID, d.ActivationID)
	v.SetDefault(KeyAPIHost, d.APIHost)
	v.SetDefault(KeyAPIKey, d.APIKey)
}

func readConfigFile(v *viper.Viper, opts LoadOptions) error {
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file "+opts.ConfigFile)
		}
		return nil
	}

	dir := opts.ConfigDir
	if dir == "" {
		dir = filepath.Join(xdg.ConfigHome, AppName)
	}
	v.SetConfigName("config")
	v.AddConfigPath(dir)

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !stderrors.As(err, &notFound) {
		return errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file in "+dir)
	}
	return nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	if files == nil {
		if _, err := os.Stat(".env"); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to stat .env")
		}
		files = []string{".env"}
	}
	if len(files) == 0 {
		return nil, nil
	}

	values, err := godotenv.Read(files...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to read env files")
	}
	return values, nil
}
