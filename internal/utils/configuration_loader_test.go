package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/fastrepo/internal/utils"
)

const (
	testEnvironmentPrefixConstant                  = "TESTFASTREPO"
	testStatusColorKeyConstant                     = "status.color"
	testStatusColorEnvironmentVariableConstant     = "TESTFASTREPO_STATUS_COLOR"
	testConfigFileNameConstant                     = "config.yaml"
	testConfigurationNameConstant                  = "config"
	testConfigurationTypeConstant                  = "yaml"
	testApplicationDirectoryNameConstant           = "fastrepo"
	configurationLoaderSubtestNameTemplateConstant = "%d_%s"
)

type configurationFixture struct {
	Status configurationStatusFixture `mapstructure:"status" yaml:"status"`
}

type configurationStatusFixture struct {
	Color       string `mapstructure:"color" yaml:"color"`
	MaxParallel int    `mapstructure:"max_parallel" yaml:"max_parallel"`
}

func writeConfigurationFixture(testInstance *testing.T, directory string, fixture configurationFixture) string {
	testInstance.Helper()
	content, marshalError := yaml.Marshal(fixture)
	require.NoError(testInstance, marshalError)
	configurationFilePath := filepath.Join(directory, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, content, 0o600))
	return configurationFilePath
}

func TestConfigurationLoaderPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedColor       string
		fileColor           string
		environmentColor    string
		expectedColor       string
		expectConfiguration bool
	}{
		{name: "defaults_apply", expectedColor: "auto"},
		{name: "embedded_overrides_defaults", embeddedColor: "never", expectedColor: "never"},
		{name: "file_overrides_embedded", embeddedColor: "never", fileColor: "always", expectedColor: "always", expectConfiguration: true},
		{name: "environment_overrides_file", embeddedColor: "never", fileColor: "always", environmentColor: "auto", expectedColor: "auto", expectConfiguration: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			configurationDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileColor) > 0 {
				configurationFilePath = writeConfigurationFixture(testInstance, configurationDirectory, configurationFixture{Status: configurationStatusFixture{Color: testCase.fileColor, MaxParallel: 3}})
			}
			if len(testCase.environmentColor) > 0 {
				testInstance.Setenv(testStatusColorEnvironmentVariableConstant, testCase.environmentColor)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{configurationDirectory})
			if len(testCase.embeddedColor) > 0 {
				configurationLoader.SetEmbeddedConfiguration([]byte("status:\n  color: "+testCase.embeddedColor+"\n"), testConfigurationTypeConstant)
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, map[string]any{testStatusColorKeyConstant: "auto", "status.max_parallel": 0}, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedColor, loadedConfiguration.Status.Color)

			if testCase.expectConfiguration {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
				require.Equal(testInstance, 3, loadedConfiguration.Status.MaxParallel)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderSearchesUserConfigurationDirectory(testInstance *testing.T) {
	homeDirectoryPath := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectoryPath)
	testInstance.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectoryPath, "config"))

	searchPaths := utils.DefaultSearchPaths(testApplicationDirectoryNameConstant)
	require.Len(testInstance, searchPaths, 2)
	require.Equal(testInstance, ".", searchPaths[0])

	userConfigurationDirectory := searchPaths[1]
	require.Equal(testInstance, testApplicationDirectoryNameConstant, filepath.Base(userConfigurationDirectory))
	require.NoError(testInstance, os.MkdirAll(userConfigurationDirectory, 0o755))
	configurationFilePath := writeConfigurationFixture(testInstance, userConfigurationDirectory, configurationFixture{Status: configurationStatusFixture{Color: "never"}})

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir(), userConfigurationDirectory})

	loadedConfiguration := configurationFixture{}
	metadata, loadError := configurationLoader.LoadConfiguration("", map[string]any{testStatusColorKeyConstant: "auto"}, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "never", loadedConfiguration.Status.Color)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderReportsMissingExplicitFile(testInstance *testing.T) {
	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"), nil, &loadedConfiguration)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "failed to read configuration")
}
