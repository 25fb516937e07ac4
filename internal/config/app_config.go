package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/tyemirov/codepack/internal/utils"
)

const (
	keyRoot        = "root"
	keyOutput      = "output"
	keyMaxSize     = "max_size"
	keyExclude     = "exclude"
	keyIgnoreDirs  = "ignore_dirs"
	keyIgnoreFiles = "ignore_files"
	keyGitignore   = "gitignore"
	keyClipboard   = "clipboard"
	keyTokensModel = "tokens.model"

	environmentPrefix = "CODEPACK_"

	errorEnvironmentValueFormat = "parse %s%s=%q: %w"
)

var errUnrecognizedBoolean = errors.New("expected one of " + utils.BooleanLiteralListing)

// environmentBindings lists the keys that CODEPACK_* environment variables may override.
var environmentBindings = []string{
	keyRoot, keyOutput, keyMaxSize, keyExclude, keyIgnoreDirs, keyIgnoreFiles, keyGitignore, keyClipboard, keyTokensModel,
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	FileSystem       afero.Fs
	WorkingDirectory string
	HomeDirectory    string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the user-facing options before defaults are applied.
// Nil pointers and empty strings mean "not configured at this layer".
type ApplicationConfiguration struct {
	Root        string             `mapstructure:"root"`
	Output      string             `mapstructure:"output"`
	MaxSize     *int64             `mapstructure:"max_size"`
	Exclude     []string           `mapstructure:"exclude"`
	IgnoreDirs  []string           `mapstructure:"ignore_dirs"`
	IgnoreFiles []string           `mapstructure:"ignore_files"`
	Gitignore   *bool              `mapstructure:"gitignore"`
	Clipboard   *bool              `mapstructure:"clipboard"`
	Tokens      TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls model-based token counting.
type TokenConfiguration struct {
	Model string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from the global file, the local file,
// and CODEPACK_* environment variables, each layer overriding the previous one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	var merged ApplicationConfiguration

	if options.HomeDirectory != "" {
		globalPath := filepath.Join(options.HomeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(fileSystem, globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(options.WorkingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := fileSystem.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(fileSystem, localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	environmentConfig, environmentErr := loadConfigurationFromEnvironment()
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	return merged.Merge(environmentConfig), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) || workingDirectory == "" {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	if workingDirectory == "" {
		return ""
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

func loadConfigurationFromPath(fileSystem afero.Fs, path string) (ApplicationConfiguration, error) {
	info, statErr := fileSystem.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetFs(fileSystem)
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// loadConfigurationFromEnvironment reads CODEPACK_ROOT, CODEPACK_MAX_SIZE, CODEPACK_TOKENS_MODEL
// and friends. List values are separated by commas or whitespace.
func loadConfigurationFromEnvironment() (ApplicationConfiguration, error) {
	reader := viper.New()
	for _, key := range environmentBindings {
		if bindErr := reader.BindEnv(key, environmentVariableName(key)); bindErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("bind environment for %s: %w", key, bindErr)
		}
	}

	var config ApplicationConfiguration
	if reader.IsSet(keyRoot) {
		config.Root = reader.GetString(keyRoot)
	}
	if reader.IsSet(keyOutput) {
		config.Output = reader.GetString(keyOutput)
	}
	if reader.IsSet(keyMaxSize) {
		rawValue := reader.GetString(keyMaxSize)
		parsed, parseErr := strconv.ParseInt(strings.TrimSpace(rawValue), 10, 64)
		if parseErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorEnvironmentValueFormat, environmentPrefix, strings.ToUpper(keyMaxSize), rawValue, parseErr)
		}
		config.MaxSize = &parsed
	}
	if reader.IsSet(keyExclude) {
		config.Exclude = splitEnvironmentList(reader.GetString(keyExclude))
	}
	if reader.IsSet(keyIgnoreDirs) {
		config.IgnoreDirs = splitEnvironmentList(reader.GetString(keyIgnoreDirs))
	}
	if reader.IsSet(keyIgnoreFiles) {
		config.IgnoreFiles = splitEnvironmentList(reader.GetString(keyIgnoreFiles))
	}
	for key, target := range map[string]**bool{keyGitignore: &config.Gitignore, keyClipboard: &config.Clipboard} {
		if !reader.IsSet(key) {
			continue
		}
		rawValue := reader.GetString(key)
		parsed, recognized := utils.ParseBooleanLiteral(rawValue)
		if !recognized {
			return ApplicationConfiguration{}, fmt.Errorf(errorEnvironmentValueFormat, environmentPrefix, strings.ToUpper(key), rawValue, errUnrecognizedBoolean)
		}
		*target = &parsed
	}
	if reader.IsSet(keyTokensModel) {
		config.Tokens.Model = reader.GetString(keyTokensModel)
	}
	return config, nil
}

func environmentVariableName(key string) string {
	return environmentPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func splitEnvironmentList(value string) []string {
	return strings.FieldsFunc(value, func(character rune) bool {
		return character == ',' || character == ' ' || character == '\t' || character == '\n'
	})
}

// Merge overlays override onto the receiver returning the combined configuration.
// Scalars are replaced when set; name and pattern lists accumulate.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Root != "" {
		result.Root = override.Root
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.MaxSize != nil {
		result.MaxSize = cloneInt64(override.MaxSize)
	}
	result.Exclude = mergeLists(result.Exclude, override.Exclude)
	result.IgnoreDirs = mergeLists(result.IgnoreDirs, override.IgnoreDirs)
	result.IgnoreFiles = mergeLists(result.IgnoreFiles, override.IgnoreFiles)
	if override.Gitignore != nil {
		result.Gitignore = cloneBool(override.Gitignore)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	return result
}

func mergeLists(base []string, override []string) []string {
	if len(override) == 0 {
		return base
	}
	return utils.DeduplicatePatterns(append(append([]string{}, base...), override...))
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
