package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host      string    `koanf:"host"`
	Frontend  Frontend  `koanf:"frontend"`
	Database  Database  `koanf:"db"`
	AdServing AdServing `koanf:"adserving"`
	Fees      Fees      `koanf:"fees"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// AdServing holds the per-category ad-serving unit rates in dollars.
// Video, audio and display rates apply to their media-type families;
// Impression is the catch-all rate for everything else.
type AdServing struct {
	VideoRate      float64 `koanf:"videorate"`
	AudioRate      float64 `koanf:"audiorate"`
	DisplayRate    float64 `koanf:"displayrate"`
	ImpressionRate float64 `koanf:"impressionrate"`
}

type Fees struct {
	// DefaultPercentage is applied when a line item does not carry its own fee percentage.
	DefaultPercentage float64 `koanf:"defaultpercentage"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Frontend: Frontend{
			Enabled: true,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "assembledview",
			Pass:   "",
			Name:   "assembledview",
			Schema: "assembledview",
		},
		AdServing: AdServing{
			VideoRate:      35.0,
			AudioRate:      5.0,
			DisplayRate:    2.5,
			ImpressionRate: 0.25,
		},
		Fees: Fees{
			DefaultPercentage: 10.0,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "ASSEMBLEDVIEW_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "ASSEMBLEDVIEW_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
