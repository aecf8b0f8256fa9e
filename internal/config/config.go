package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/agentgate-ai/agentgate/internal/policy"
)

// settingsFile is the on-disk shape of one settings file. Only the
// permissions block matters to the engine; unknown fields are ignored so
// the same file can carry other tool settings.
type settingsFile struct {
	Permissions struct {
		Allow []string `json:"allow" yaml:"allow"`
		Deny  []string `json:"deny" yaml:"deny"`
	} `json:"permissions" yaml:"permissions"`
}

// settings filenames probed in each level directory, first hit wins.
var settingsNames = []string{
	"settings.json",
	"settings.jsonc",
	"settings.yaml",
}

// localSettingsNames are the local-override variants probed in the
// project directory.
var localSettingsNames = []string{
	"settings.local.json",
	"settings.local.jsonc",
	"settings.local.yaml",
}

// LoadLevels builds the ordered configuration levels for a working
// directory, most specific first:
//
//  1. "env": AGENTGATE_PERMISSIONS inline JSON, if set
//  2. "local": <dir>/.agentgate/settings.local.*
//  3. "project": <dir>/.agentgate/settings.*
//  4. "user": ~/.config/agentgate/settings.*
//
// Missing files yield empty levels; unreadable or unparseable files are
// logged and treated as empty, never as errors.
func LoadLevels(directory string) []policy.Level {
	levels := make([]policy.Level, 0, 4)

	if env := os.Getenv("AGENTGATE_PERMISSIONS"); env != "" {
		levels = append(levels, envLevel(env))
	}

	projectDir := ProjectSettingsDir(directory)
	levels = append(levels,
		loadLevel("local", projectDir, localSettingsNames),
		loadLevel("project", projectDir, settingsNames),
		loadLevel("user", UserSettingsDir(), settingsNames),
	)
	return levels
}

// envLevel parses the AGENTGATE_PERMISSIONS inline JSON into the highest
// priority level.
func envLevel(raw string) policy.Level {
	var sf settingsFile
	if err := json.Unmarshal(jsonc.ToJSON([]byte(raw)), &sf); err != nil {
		log.Warn().Err(err).Msg("AGENTGATE_PERMISSIONS does not parse, ignoring")
		return policy.Level{Name: "env"}
	}
	return toLevel("env", sf)
}

// loadLevel reads the first settings file present in dir.
func loadLevel(name, dir string, filenames []string) policy.Level {
	for _, filename := range filenames {
		path := filepath.Join(dir, filename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var sf settingsFile
		if strings.HasSuffix(filename, ".yaml") {
			err = yaml.Unmarshal(data, &sf)
		} else {
			err = json.Unmarshal(jsonc.ToJSON(data), &sf)
		}
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("settings file does not parse, treating level as empty")
			return policy.Level{Name: name}
		}
		return toLevel(name, sf)
	}
	return policy.Level{Name: name}
}

func toLevel(name string, sf settingsFile) policy.Level {
	level := policy.Level{Name: name}
	for _, p := range sf.Permissions.Allow {
		level.Allow = append(level.Allow, policy.Rule{Pattern: p})
	}
	for _, p := range sf.Permissions.Deny {
		level.Deny = append(level.Deny, policy.Rule{Pattern: p})
	}
	return level
}
