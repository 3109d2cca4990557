package cfg

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Decode 将原始数据按 format 解码为 map/slice/标量组成的树
func Decode(format string, data []byte) (any, error) {
	switch format {
	case "yaml", "yml":
		var result any
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, errors.Wrap(err, "failed to decode YAML")
		}
		return result, nil
	case "toml":
		var result map[string]any
		if err := toml.Unmarshal(data, &result); err != nil {
			return nil, errors.Wrap(err, "failed to decode TOML")
		}
		return result, nil
	case "json":
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, errors.Wrap(err, "failed to decode JSON")
		}
		return result, nil
	case "ini":
		return decodeIni(data)
	default:
		return nil, fmt.Errorf("unsupported config format: %q", format)
	}
}

// decodeIni 默认 section 的键放在根上，其他 section 作为子 map，值一律为字符串
func decodeIni(data []byte) (any, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:         true,
		SpaceBeforeInlineComment: true,
	}, data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode INI")
	}

	result := map[string]any{}
	for _, section := range file.Sections() {
		target := result
		if section.Name() != ini.DefaultSection {
			sub := map[string]any{}
			result[section.Name()] = sub
			target = sub
		}
		for _, key := range section.Keys() {
			target[key.Name()] = key.Value()
		}
	}
	return result, nil
}
