package capture

import (
	"encoding/json"
	"fmt"
	"midistream/internal/global"
	"os"
)

// Reads and validates the capture config file
func LoadConfig(configPath string) (jsonCfg global.CaptureConfig, err error) {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		err = fmt.Errorf("failed reading config file: %w", err)
		return
	}

	err = json.Unmarshal(configFile, &jsonCfg)
	if err != nil {
		err = fmt.Errorf("failed parsing config file: %w", err)
		return
	}

	if len(jsonCfg.Inputs) == 0 {
		err = fmt.Errorf("config must name at least one input")
		return
	}
	for index, input := range jsonCfg.Inputs {
		if input.Path == "" {
			err = fmt.Errorf("input %d has no path", index)
			return
		}
	}
	if jsonCfg.OutputPath == "" {
		err = fmt.Errorf("config must name an output path")
		return
	}
	return
}

// Converts the JSON surface into resolved session settings
func NewSessionConf(jsonCfg global.CaptureConfig) (config Config) {
	config.OutputPath = jsonCfg.OutputPath
	config.MaxSources = jsonCfg.MaxSources
	config.MinQueueSize = jsonCfg.Queue.MinSize
	config.MaxQueueSize = jsonCfg.Queue.MaxSize

	config.Inputs = make([]Input, 0, len(jsonCfg.Inputs))
	for _, input := range jsonCfg.Inputs {
		config.Inputs = append(config.Inputs, Input{
			Path:        input.Path,
			DisplayName: input.DisplayName,
		})
	}
	return
}
