package contract

import (
	"testing"

	"github.com/huangsam/clearance/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		User:      1,
		Output:    "text",
		DBBackend: string(schema.SQLiteBackend),
		Emoji:     "no",
		Color:     "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:   "valid minimal config",
			modify: func(*ConfigRawInput) {},
		},
		{
			name:        "invalid user (zero)",
			modify:      func(in *ConfigRawInput) { in.User = 0 },
			expectError: true,
		},
		{
			name:        "invalid user (negative)",
			modify:      func(in *ConfigRawInput) { in.User = -5 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			modify:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "invalid emoji value",
			modify:      func(in *ConfigRawInput) { in.Emoji = "sometimes" },
			expectError: true,
		},
		{
			name:        "invalid width",
			modify:      func(in *ConfigRawInput) { in.Width = -1 },
			expectError: true,
		},
		{
			name:        "invalid decision type",
			modify:      func(in *ConfigRawInput) { in.Type = "approved" },
			expectError: true,
		},
		{
			name:        "invalid global value",
			modify:      func(in *ConfigRawInput) { in.Global = "perhaps" },
			expectError: true,
		},
		{
			name:        "invalid backend",
			modify:      func(in *ConfigRawInput) { in.DBBackend = "oracle" },
			expectError: true,
		},
		{
			name:        "mysql backend without connection string",
			modify:      func(in *ConfigRawInput) { in.DBBackend = string(schema.MySQLBackend) },
			expectError: true,
		},
		{
			name:        "postgresql backend without connection string",
			modify:      func(in *ConfigRawInput) { in.DBBackend = string(schema.PostgreSQLBackend) },
			expectError: true,
		},
		{
			name: "mysql backend with connection string",
			modify: func(in *ConfigRawInput) {
				in.DBBackend = string(schema.MySQLBackend)
				in.DBConnect = "user:pass@tcp(localhost:3306)/clearance"
			},
		},
		{
			name: "postgresql backend with connection string",
			modify: func(in *ConfigRawInput) {
				in.DBBackend = string(schema.PostgreSQLBackend)
				in.DBConnect = "host=localhost port=5432 user=postgres password=secret dbname=clearance sslmode=disable"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err, "ProcessAndValidate should return an error for %s", tt.name)
				return
			}
			require.NoError(t, err, "ProcessAndValidate should not return an error for %s", tt.name)
			assert.Equal(t, input.User, cfg.UserID)
			assert.Equal(t, schema.DatabaseBackend(input.DBBackend), cfg.Backend)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validInput()
	input.DBBackend = ""

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.SQLiteBackend, cfg.Backend)
	assert.Equal(t, DefaultDecisionType, cfg.DecisionType)
	assert.True(t, cfg.Global)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)
	assert.Equal(t, schema.TextOut, cfg.Output)
}

func TestProcessAndValidateDecisionFlags(t *testing.T) {
	input := validInput()
	input.Type = "no-license-known"
	input.Global = "no"
	input.Output = "JSON"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.DecisionNoLicenseKnown, cfg.DecisionType)
	assert.False(t, cfg.Global)
	assert.Equal(t, schema.JSONOut, cfg.Output)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"sqlite path", schema.SQLiteBackend, "/tmp/clearance.db", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(127.0.0.1:3306)/clearance?parseTime=true", false},
		{"mysql missing db", schema.MySQLBackend, "root:pw@tcp(127.0.0.1:3306)/", true},
		{"mysql garbage", schema.MySQLBackend, "not a dsn", true},
		{"postgres keywords", schema.PostgreSQLBackend, "host=localhost dbname=clearance", false},
		{"postgres url", schema.PostgreSQLBackend, "postgres://user:pw@localhost:5432/clearance", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost user=postgres", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{UserID: 3, DecisionType: schema.DecisionIrrelevant, Global: true}
	clone := cfg.Clone()
	clone.UserID = 9

	assert.Equal(t, int64(3), cfg.UserID)
	assert.Equal(t, schema.DecisionIrrelevant, clone.DecisionType)
}
