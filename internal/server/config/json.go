package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/paywall/internal/flagx"
	"github.com/dmitrijs2005/paywall/internal/timex"
)

// JsonConfig mirrors Config for unmarshalling. Durations accept "720h" or
// integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC       string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP       string         `json:"endpoint_addr_http"`
	DatabaseDSN            *string        `json:"database_dsn"`
	SecretKey              string         `json:"secret_key"`
	PublisherTokenValidity timex.Duration `json:"publisher_token_validity"`
	ContentSecret          string         `json:"content_secret"`
	ContentSalt            string         `json:"content_salt"`
	RPCEndpoint            string         `json:"rpc_endpoint"`
	CollectionAddress      string         `json:"collection_address"`
	AuthorityKeyPath       string         `json:"authority_key_path"`
	ActionIcon             string         `json:"action_icon"`
	ActionTitle            string         `json:"action_title"`
	ActionLabel            string         `json:"action_label"`
	ActionDescription      string         `json:"action_description"`
	MintAssetName          string         `json:"mint_asset_name"`
	MintAssetURI           string         `json:"mint_asset_uri"`
	S3RootUser             string         `json:"s3_root_user"`
	S3RootPassword         string         `json:"s3_root_password"`
	S3Bucket               string         `json:"s3_bucket"`
	S3Region               string         `json:"s3_region"`
	S3BaseEndpoint         string         `json:"s3_base_endpoint"`
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays values from the file named by -c/-config. Keys that are
// absent keep their current value. An explicit empty database_dsn selects
// the in-memory article store. A missing or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	set(&config.SecretKey, c.SecretKey)
	if c.PublisherTokenValidity.Duration > 0 {
		config.PublisherTokenValidity = c.PublisherTokenValidity.Duration
	}
	set(&config.ContentSecret, c.ContentSecret)
	set(&config.ContentSalt, c.ContentSalt)
	set(&config.RPCEndpoint, c.RPCEndpoint)
	set(&config.CollectionAddress, c.CollectionAddress)
	set(&config.AuthorityKeyPath, c.AuthorityKeyPath)
	set(&config.ActionIcon, c.ActionIcon)
	set(&config.ActionTitle, c.ActionTitle)
	set(&config.ActionLabel, c.ActionLabel)
	set(&config.ActionDescription, c.ActionDescription)
	set(&config.MintAssetName, c.MintAssetName)
	set(&config.MintAssetURI, c.MintAssetURI)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}
