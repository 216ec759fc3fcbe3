package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonConfig struct {
	App struct {
		Namespace    string `json:"namespace"`
		Key          string `json:"key"`
		Secret       string `json:"secret"`
		IDAttribute  string `json:"id_attribute"`
		KMDAttribute string `json:"kmd_attribute"`
	} `json:"app,omitempty"`

	API struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"api,omitempty"`

	Storage struct {
		DSN string `json:"dsn"`
	} `json:"storage,omitempty"`

	Sync struct {
		CollectionName string   `json:"collection_name"`
		Interval       Duration `json:"interval"`
	} `json:"sync,omitempty"`

	Log struct {
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jc jsonConfig
	if err = json.NewDecoder(jsonFile).Decode(&jc); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &Config{
		App: App{
			Namespace:    jc.App.Namespace,
			Key:          jc.App.Key,
			Secret:       jc.App.Secret,
			IDAttribute:  jc.App.IDAttribute,
			KMDAttribute: jc.App.KMDAttribute,
		},
		API: API{
			BaseURL:        jc.API.BaseURL,
			RequestTimeout: time.Duration(jc.API.RequestTimeout),
		},
		Storage: Storage{
			DSN: jc.Storage.DSN,
		},
		Sync: Sync{
			CollectionName: jc.Sync.CollectionName,
			Interval:       time.Duration(jc.Sync.Interval),
		},
		Log: Log{
			Level: jc.Log.Level,
		},
	}, nil
}

// Duration wraps time.Duration to support JSON unmarshaling from strings
// like "1h" and "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
