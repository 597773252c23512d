package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	body := `{
		"endpoint_addr": ":9999",
		"database_dsn": "file:json.db",
		"secret_key": "json-secret",
		"access_token_validity_duration": "45m",
		"s3_root_user": "ju",
		"s3_root_password": "jp",
		"s3_bucket": "jb",
		"s3_region": "eu-west-1",
		"s3_base_endpoint": "http://minio:9000/",
		"queue_error_log_size": 7
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	config.LoadDefaults()
	parseJson(config)

	assert.Equal(t, ":9999", config.EndpointAddr)
	assert.Equal(t, "file:json.db", config.DatabaseDSN)
	assert.Equal(t, "json-secret", config.SecretKey)
	assert.Equal(t, 45*time.Minute, config.AccessTokenValidityDuration)
	assert.Equal(t, "ju", config.S3RootUser)
	assert.Equal(t, "jp", config.S3RootPassword)
	assert.Equal(t, "jb", config.S3Bucket)
	assert.Equal(t, "eu-west-1", config.S3Region)
	assert.Equal(t, "http://minio:9000/", config.S3BaseEndpoint)
	assert.Equal(t, 7, config.QueueErrorLogSize)
}

func TestParseJson_NoFileFlag_NoChanges(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd"}

	config := &Config{}
	config.LoadDefaults()
	before := *config
	parseJson(config)

	assert.Equal(t, before, *config)
}
