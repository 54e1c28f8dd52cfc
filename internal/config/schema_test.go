// Package config_test tests the configuration key registry and value parsing.
// Related: internal/config/schema.go
// Tags: config, schema, validation, enum
package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKeySchema(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key       string
		wantType  ConfigValueType
		wantErr   bool
		errString string
	}{
		"known bool key":   {key: "history", wantType: TypeBool},
		"known int key":    {key: "watch_debounce_ms", wantType: TypeInt},
		"known string key": {key: "pipeline_dir", wantType: TypeString},
		"known enum key":   {key: "format", wantType: TypeEnum},
		"unknown key": {
			key:       "foo.bar",
			wantErr:   true,
			errString: "unknown configuration key: foo.bar",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			schema, err := GetKeySchema(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.errString, err.Error())
				var unknown ErrUnknownKey
				assert.True(t, errors.As(err, &unknown))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, schema.Type)
			assert.Equal(t, tt.key, schema.Path)
		})
	}
}

func TestConfigValueType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bool", TypeBool.String())
	assert.Equal(t, "int", TypeInt.String())
	assert.Equal(t, "string", TypeString.String())
	assert.Equal(t, "enum", TypeEnum.String())
	assert.Equal(t, "unknown", ConfigValueType(99).String())
}

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key        string
		value      string
		wantParsed interface{}
		wantErr    string
	}{
		"bool true":        {key: "history", value: "true", wantParsed: true},
		"bool mixed case":  {key: "history", value: "FALSE", wantParsed: false},
		"bool invalid":     {key: "history", value: "yes", wantErr: `invalid boolean: "yes"`},
		"int":              {key: "watch_debounce_ms", value: "500", wantParsed: 500},
		"int invalid":      {key: "watch_debounce_ms", value: "5s", wantErr: `invalid integer: "5s"`},
		"enum":             {key: "color", value: "never", wantParsed: "never"},
		"enum invalid":     {key: "log_format", value: "xml", wantErr: "valid options: console, json"},
		"string":           {key: "pipeline_dir", value: "user-guide", wantParsed: "user-guide"},
		"unknown key":      {key: "theme", value: "dark", wantErr: "unknown configuration key: theme"},
		"summary is known": {key: "format", value: "summary", wantParsed: "summary"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			parsed, err := ValidateValue(tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantParsed, parsed.Parsed)
			assert.Equal(t, tt.value, parsed.Raw)
		})
	}
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"color", "format", "history", "log_format", "log_level", "pipeline_dir", "watch_debounce_ms",
	}, SortedKeys())
}
