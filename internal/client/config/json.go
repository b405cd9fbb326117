package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/paywall/internal/flagx"
	"github.com/dmitrijs2005/paywall/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	ActionsURL         string         `json:"actions_url"`
	RPCEndpoint        string         `json:"rpc_endpoint"`
	KeypairPath        string         `json:"keypair_path"`
	PriceURL           string         `json:"price_url"`
	DatabasePath       string         `json:"database_path"`
	ConfirmTimeout     timex.Duration `json:"confirm_timeout"`
	PollInterval       timex.Duration `json:"poll_interval"`
	PublisherToken     string         `json:"publisher_token"`
	ExplorerURL        string         `json:"explorer_url"`
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Absent keys keep their current value. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	set(&cfg.ActionsURL, jc.ActionsURL)
	set(&cfg.RPCEndpoint, jc.RPCEndpoint)
	set(&cfg.KeypairPath, jc.KeypairPath)
	set(&cfg.PriceURL, jc.PriceURL)
	set(&cfg.DatabasePath, jc.DatabasePath)
	set(&cfg.PublisherToken, jc.PublisherToken)
	set(&cfg.ExplorerURL, jc.ExplorerURL)
	if jc.ConfirmTimeout.Duration > 0 {
		cfg.ConfirmTimeout = jc.ConfirmTimeout.Duration
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
}
