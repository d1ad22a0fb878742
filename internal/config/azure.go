package config

// AzureConfig holds Azure-specific configuration
type AzureConfig struct {
	BlobStorageConnectionString string
	BlobContainerName           string
	// BlobPrefix is prepended to uploaded blob names
	BlobPrefix string
}

// LoadAzureConfig loads Azure configuration from environment variables
func LoadAzureConfig() AzureConfig {
	return AzureConfig{
		BlobStorageConnectionString: getEnv("BLOB_STORAGE_CONNECTION_STRING", ""),
		BlobContainerName:           getEnv("BLOB_CONTAINER_NAME", "scans"),
		BlobPrefix:                  getEnv("BLOB_PREFIX", "portgroup"),
	}
}

// ValidateAzureConfig validates Azure-specific configuration
func (c *AzureConfig) ValidateAzureConfig() error {
	if c.BlobStorageConnectionString == "" {
		return &ConfigError{Field: "BLOB_STORAGE_CONNECTION_STRING", Message: "Blob Storage connection string is required"}
	}
	if c.BlobContainerName == "" {
		return &ConfigError{Field: "BLOB_CONTAINER_NAME", Message: "Blob container name is required"}
	}
	return nil
}
